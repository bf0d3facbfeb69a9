// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stage

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/roles"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// Stage is a named sale phase.
type Stage uint8

const (
	PreICO Stage = iota
	ICO
)

func (s Stage) String() string {
	switch s {
	case PreICO:
		return "PreICO"
	case ICO:
		return "ICO"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Bytes makes Stage usable as a storage mapping key.
func (s Stage) Bytes() []byte {
	return []byte{byte(s)}
}

func (s Stage) Valid() bool {
	return s == PreICO || s == ICO
}

// Parse parses a stage by name (case insensitive) or number.
func Parse(str string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "preico", "0":
		return PreICO, nil
	case "ico", "1":
		return ICO, nil
	}
	return 0, reverts.Newf(reverts.InvalidState, "unknown stage %q", str)
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Config is the rate and routing policy of a stage.
type Config struct {
	Rate          *big.Int
	DirectForward bool // funds go to the wallet instead of the escrow
}

var (
	configsSlot = vtk.Blake2b([]byte("stage-configs"))
	currentSlot = vtk.Blake2b([]byte("stage-current"))
	rateSlot    = vtk.Blake2b([]byte("stage-rate"))
)

// Controller holds the current stage and its rate. Transitions are admin only
// and never clock driven.
type Controller struct {
	ctx     *solidity.Context
	roles   *roles.Roles
	configs *solidity.Mapping[Stage, *Config]
	current *solidity.Uint64
	rate    *solidity.Uint256
}

func New(addr vtk.Address, state *state.State, rs *roles.Roles) *Controller {
	ctx := solidity.NewContext(addr, state)
	return &Controller{
		ctx:     ctx,
		roles:   rs,
		configs: solidity.NewMapping[Stage, *Config](ctx, configsSlot),
		current: solidity.NewUint64(ctx, currentSlot),
		rate:    solidity.NewUint256(ctx, rateSlot),
	}
}

// Init stores the per stage configuration and enters the initial stage.
func (c *Controller) Init(configs map[Stage]Config, initial Stage) error {
	for s := range configs {
		if !s.Valid() {
			return reverts.Newf(reverts.InvalidConfig, "unknown stage %v", s)
		}
	}
	if !initial.Valid() {
		return reverts.Newf(reverts.InvalidConfig, "unknown initial stage %v", initial)
	}
	for _, s := range []Stage{PreICO, ICO} {
		cfg, ok := configs[s]
		if !ok {
			return reverts.Newf(reverts.InvalidConfig, "missing configuration of stage %v", s)
		}
		if cfg.Rate == nil || cfg.Rate.Sign() <= 0 {
			return reverts.Newf(reverts.InvalidConfig, "rate of stage %v must be positive", s)
		}
		if !solidity.InRange(cfg.Rate) {
			return reverts.Newf(reverts.InvalidConfig, "rate of stage %v exceeds uint256", s)
		}
		if err := c.configs.Set(s, &Config{Rate: new(big.Int).Set(cfg.Rate), DirectForward: cfg.DirectForward}); err != nil {
			return err
		}
	}
	cfg := configs[initial]
	return c.apply(initial, cfg.Rate)
}

// StageConfig returns the configuration of stage s.
func (c *Controller) StageConfig(s Stage) (*Config, error) {
	if !s.Valid() {
		return nil, reverts.Newf(reverts.InvalidState, "unknown stage %v", s)
	}
	cfg, err := c.configs.Get(s)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &Config{Rate: new(big.Int)}, nil
	}
	return cfg, nil
}

// SetStage switches to stage s with the given rate. Caller must be an admin.
func (c *Controller) SetStage(caller vtk.Address, s Stage, rate *big.Int) error {
	if err := c.roles.Require(roles.AdminRole, caller); err != nil {
		return err
	}
	if !s.Valid() {
		return reverts.Newf(reverts.InvalidState, "unknown stage %v", s)
	}
	if rate == nil || rate.Sign() <= 0 {
		return reverts.New(reverts.InvalidState, "rate must be positive")
	}
	if !solidity.InRange(rate) {
		return reverts.New(reverts.InvalidState, "rate exceeds uint256")
	}
	return c.apply(s, rate)
}

// SetConfiguredStage switches to stage s using its configured rate.
func (c *Controller) SetConfiguredStage(caller vtk.Address, s Stage) error {
	if err := c.roles.Require(roles.AdminRole, caller); err != nil {
		return err
	}
	cfg, err := c.StageConfig(s)
	if err != nil {
		return err
	}
	return c.SetStage(caller, s, cfg.Rate)
}

func (c *Controller) apply(s Stage, rate *big.Int) error {
	c.current.Set(uint64(s))
	c.rate.Set(rate)
	c.ctx.Emit("StageChanged", c.ctx.Address(), rate, "stage", s.String())
	return nil
}

func (c *Controller) CurrentStage() (Stage, error) {
	v, err := c.current.Get()
	return Stage(v), err
}

func (c *Controller) CurrentRate() (*big.Int, error) {
	return c.rate.Get()
}

// ForwardsDirectly reports the routing policy of the current stage.
func (c *Controller) ForwardsDirectly() (bool, error) {
	s, err := c.CurrentStage()
	if err != nil {
		return false, err
	}
	cfg, err := c.StageConfig(s)
	if err != nil {
		return false, err
	}
	return cfg.DirectForward, nil
}
