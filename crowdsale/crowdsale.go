// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package crowdsale implements the token sale controller: the purchase
// pipeline, stage control and the one-shot finalization.
package crowdsale

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/viewtoken/crowdsale/builtin/escrow"
	"github.com/viewtoken/crowdsale/builtin/ledger"
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/roles"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/builtin/timewindow"
	"github.com/viewtoken/crowdsale/builtin/whitelist"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	logger = log.WithContext("pkg", "crowdsale")

	paramsKey       = vtk.Blake2b([]byte("sale-params"))
	finalizedSlot   = vtk.Blake2b([]byte("sale-finalized"))
	goalReachedSlot = vtk.Blake2b([]byte("sale-goal-reached"))
)

// Fund identifies a party of the distribution split.
type Fund uint8

const (
	Founders Fund = iota
	Foundation
	Partners
)

func (f Fund) String() string {
	switch f {
	case Founders:
		return "founders"
	case Foundation:
		return "foundation"
	case Partners:
		return "partners"
	}
	return "unknown"
}

// params are the immutable parts of Config, stored rlp encoded.
type params struct {
	Wallet      vtk.Address
	Token       vtk.Address
	Escrow      vtk.Address
	Goal        *big.Int
	Split       DistributionSplit
	Funds       [3]vtk.Address
	Timelocks   [3]vtk.Address
	ReleaseTime uint64
}

// Crowdsale binds the sale contract kept at addr.
type Crowdsale struct {
	addr        vtk.Address
	state       *state.State
	token       Token
	clock       clock.Clock
	ctx         *solidity.Context
	roles       *roles.Roles
	whitelist   *whitelist.Whitelist
	ledger      *ledger.Ledger
	stages      *stage.Controller
	window      *timewindow.Window
	finalized   *solidity.Bool
	goalReached *solidity.Bool
}

// New binds an already deployed sale.
func New(addr vtk.Address, st *state.State, token Token, clk clock.Clock) *Crowdsale {
	ctx := solidity.NewContext(addr, st)
	rs := roles.New(addr, st)
	return &Crowdsale{
		addr:        addr,
		state:       st,
		token:       token,
		clock:       clk,
		ctx:         ctx,
		roles:       rs,
		whitelist:   whitelist.New(addr, st, rs),
		ledger:      ledger.New(addr, st),
		stages:      stage.New(addr, st, rs),
		window:      timewindow.New(addr, st),
		finalized:   solidity.NewBool(ctx, finalizedSlot),
		goalReached: solidity.NewBool(ctx, goalReachedSlot),
	}
}

// EscrowAddress derives the address of the refund vault of a sale.
func EscrowAddress(sale vtk.Address) vtk.Address {
	return vtk.CreateContractAddress(sale, 0)
}

// TimelockAddress derives the address of the timelock holding the share of fund.
func TimelockAddress(sale vtk.Address, fund Fund) vtk.Address {
	return vtk.CreateContractAddress(sale, uint64(fund)+1)
}

// Deploy validates cfg and initializes the sale at addr.
func Deploy(addr vtk.Address, st *state.State, cfg *Config, token Token, clk clock.Clock) (*Crowdsale, error) {
	c := New(addr, st, token, clk)
	err := c.atomic(func() error {
		if _, deployed, err := c.loadParams(); err != nil {
			return err
		} else if deployed {
			return reverts.Newf(reverts.InvalidState, "sale %v is already deployed", addr)
		}
		if err := cfg.Validate(clk.Now()); err != nil {
			return err
		}

		p := &params{
			Wallet:      cfg.Wallet,
			Token:       cfg.Token,
			Escrow:      EscrowAddress(addr),
			Goal:        new(big.Int).Set(cfg.Goal),
			Split:       cfg.Split,
			Funds:       [3]vtk.Address{cfg.FoundersFund, cfg.FoundationFund, cfg.PartnersFund},
			ReleaseTime: cfg.ReleaseTime,
		}
		for _, f := range []Fund{Founders, Foundation, Partners} {
			p.Timelocks[f] = TimelockAddress(addr, f)
		}
		if err := st.EncodeStorage(addr, paramsKey, func() ([]byte, error) {
			return rlp.EncodeToBytes(p)
		}); err != nil {
			return err
		}

		if err := c.roles.Grant(roles.AdminRole, cfg.Admin); err != nil {
			return err
		}
		if err := c.ledger.Init(cfg.limits()); err != nil {
			return err
		}
		if err := c.window.Init(cfg.OpeningTime, cfg.ClosingTime, clk.Now()); err != nil {
			return err
		}
		stages := cfg.Stages
		if stages == nil {
			stages = DefaultStages()
		}
		if err := c.stages.Init(stages, cfg.InitialStage); err != nil {
			return err
		}
		if err := escrow.New(p.Escrow, st).Init(addr, cfg.Wallet); err != nil {
			return err
		}
		if err := c.whitelist.Seed(cfg.Whitelist); err != nil {
			return err
		}
		c.ctx.Emit("Deployed", addr, cfg.Cap, "token", cfg.Token.String(), "wallet", cfg.Wallet.String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("sale deployed", "address", addr, "opening", cfg.OpeningTime, "closing", cfg.ClosingTime, "cap", cfg.Cap, "goal", cfg.Goal)
	return c, nil
}

// atomic runs fn inside a state checkpoint that is reverted when fn fails.
func (c *Crowdsale) atomic(fn func() error) error {
	rev := c.state.NewCheckpoint()
	if err := fn(); err != nil {
		c.state.RevertTo(rev)
		return err
	}
	return nil
}

func (c *Crowdsale) loadParams() (*params, bool, error) {
	var (
		p     params
		found bool
	)
	err := c.state.DecodeStorage(c.addr, paramsKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, &p)
	})
	if err != nil {
		return nil, false, err
	}
	return &p, found, nil
}

func (c *Crowdsale) params() (*params, error) {
	p, found, err := c.loadParams()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.Newf(reverts.InvalidState, "sale %v is not deployed", c.addr)
	}
	return p, nil
}

func (c *Crowdsale) escrow(p *params) *escrow.Escrow {
	return escrow.New(p.Escrow, c.state)
}

func (c *Crowdsale) Address() vtk.Address {
	return c.addr
}

// Roles returns the role registry of the sale.
func (c *Crowdsale) Roles() *roles.Roles {
	return c.roles
}
