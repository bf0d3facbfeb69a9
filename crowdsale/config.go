// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/ledger"
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/builtin/timewindow"
	"github.com/viewtoken/crowdsale/vtk"
)

// DistributionSplit is the share, in percent, of the final token supply that
// goes to each party. The parts must sum to exactly 100.
type DistributionSplit struct {
	TokenSale  uint8
	Founders   uint8
	Foundation uint8
	Partners   uint8
}

// DefaultSplit is 70% sale, 10% founders, 10% foundation and 10% partners.
var DefaultSplit = DistributionSplit{TokenSale: 70, Founders: 10, Foundation: 10, Partners: 10}

func (d DistributionSplit) Validate() error {
	sum := uint(d.TokenSale) + uint(d.Founders) + uint(d.Foundation) + uint(d.Partners)
	if sum != 100 {
		return reverts.Newf(reverts.InvalidConfig, "distribution split sums to %d, want 100", sum)
	}
	if d.TokenSale == 0 {
		return reverts.New(reverts.InvalidConfig, "token sale percentage must be positive")
	}
	return nil
}

// Config holds the construction parameters of a sale. They are immutable
// once deployed.
type Config struct {
	Wallet          vtk.Address // receives raised funds
	Token           vtk.Address
	Admin           vtk.Address
	Cap             *big.Int
	Goal            *big.Int
	InvestorMinCap  *big.Int
	InvestorHardCap *big.Int
	OpeningTime     uint64
	ClosingTime     uint64
	Stages          map[stage.Stage]stage.Config
	InitialStage    stage.Stage
	Split           DistributionSplit
	FoundersFund    vtk.Address
	FoundationFund  vtk.Address
	PartnersFund    vtk.Address
	ReleaseTime     uint64 // distributed shares stay locked until then
	Whitelist       []vtk.Address
}

// DefaultStages are the rates and routing of the View token sale.
func DefaultStages() map[stage.Stage]stage.Config {
	return map[stage.Stage]stage.Config{
		stage.PreICO: {Rate: big.NewInt(500), DirectForward: true},
		stage.ICO:    {Rate: big.NewInt(250)},
	}
}

func (c *Config) limits() ledger.Limits {
	return ledger.Limits{
		InvestorMin:     c.InvestorMinCap,
		InvestorHardCap: c.InvestorHardCap,
		Cap:             c.Cap,
	}
}

// Validate checks the config against the deployment time now.
func (c *Config) Validate(now uint64) error {
	if c.Wallet.IsZero() {
		return reverts.New(reverts.InvalidConfig, "wallet is the zero address")
	}
	if c.Token.IsZero() {
		return reverts.New(reverts.InvalidConfig, "token is the zero address")
	}
	if c.Admin.IsZero() {
		return reverts.New(reverts.InvalidConfig, "admin is the zero address")
	}
	if err := c.limits().Validate(); err != nil {
		return err
	}
	if c.Goal == nil || c.Goal.Sign() <= 0 {
		return reverts.New(reverts.InvalidConfig, "goal must be positive")
	}
	if c.Goal.Cmp(c.Cap) > 0 {
		return reverts.New(reverts.InvalidConfig, "goal exceeds cap")
	}
	if err := timewindow.Validate(c.OpeningTime, c.ClosingTime, now); err != nil {
		return err
	}
	if err := c.Split.Validate(); err != nil {
		return err
	}
	for _, f := range []struct {
		pct  uint8
		fund vtk.Address
		name string
	}{
		{c.Split.Founders, c.FoundersFund, "founders"},
		{c.Split.Foundation, c.FoundationFund, "foundation"},
		{c.Split.Partners, c.PartnersFund, "partners"},
	} {
		if f.pct > 0 && f.fund.IsZero() {
			return reverts.Newf(reverts.InvalidConfig, "%s fund is the zero address", f.name)
		}
	}
	if c.ReleaseTime <= c.ClosingTime {
		return reverts.Newf(reverts.InvalidSchedule, "release time %d is not after closing time %d", c.ReleaseTime, c.ClosingTime)
	}
	return nil
}
