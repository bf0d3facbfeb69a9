// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/escrow"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/vtk"
)

// Deployed reports whether the sale parameters are stored.
func (c *Crowdsale) Deployed() (bool, error) {
	_, found, err := c.loadParams()
	return found, err
}

func (c *Crowdsale) Rate() (*big.Int, error) {
	return c.stages.CurrentRate()
}

func (c *Crowdsale) Stage() (stage.Stage, error) {
	return c.stages.CurrentStage()
}

// StageConfig returns the configured rate and routing of s.
func (c *Crowdsale) StageConfig(s stage.Stage) (*stage.Config, error) {
	return c.stages.StageConfig(s)
}

func (c *Crowdsale) Wallet() (vtk.Address, error) {
	p, err := c.params()
	if err != nil {
		return vtk.Address{}, err
	}
	return p.Wallet, nil
}

// Token returns the address of the sold token.
func (c *Crowdsale) Token() (vtk.Address, error) {
	p, err := c.params()
	if err != nil {
		return vtk.Address{}, err
	}
	return p.Token, nil
}

func (c *Crowdsale) Cap() (*big.Int, error) {
	limits, err := c.ledger.Limits()
	if err != nil {
		return nil, err
	}
	return limits.Cap, nil
}

func (c *Crowdsale) Goal() (*big.Int, error) {
	p, err := c.params()
	if err != nil {
		return nil, err
	}
	return p.Goal, nil
}

func (c *Crowdsale) InvestorMinCap() (*big.Int, error) {
	limits, err := c.ledger.Limits()
	if err != nil {
		return nil, err
	}
	return limits.InvestorMin, nil
}

func (c *Crowdsale) InvestorHardCap() (*big.Int, error) {
	limits, err := c.ledger.Limits()
	if err != nil {
		return nil, err
	}
	return limits.InvestorHardCap, nil
}

func (c *Crowdsale) OpeningTime() (uint64, error) {
	return c.window.OpeningTime()
}

func (c *Crowdsale) ClosingTime() (uint64, error) {
	return c.window.ClosingTime()
}

func (c *Crowdsale) IsOpen() (bool, error) {
	return c.window.IsOpen(c.clock.Now())
}

func (c *Crowdsale) HasClosed() (bool, error) {
	return c.window.HasClosed(c.clock.Now())
}

func (c *Crowdsale) IsFinalized() (bool, error) {
	return c.finalized.Get()
}

// GoalReached is false until the sale is finalized.
func (c *Crowdsale) GoalReached() (bool, error) {
	return c.goalReached.Get()
}

func (c *Crowdsale) TotalRaised() (*big.Int, error) {
	return c.ledger.TotalRaised()
}

func (c *Crowdsale) Contributors() (uint64, error) {
	return c.ledger.Contributors()
}

func (c *Crowdsale) GetUserContribution(investor vtk.Address) (*big.Int, error) {
	return c.ledger.ContributionOf(investor)
}

func (c *Crowdsale) DepositsOf(investor vtk.Address) (*big.Int, error) {
	p, err := c.params()
	if err != nil {
		return nil, err
	}
	return c.escrow(p).DepositsOf(investor)
}

func (c *Crowdsale) IsWhitelisted(addr vtk.Address) (bool, error) {
	return c.whitelist.IsWhitelisted(addr)
}

func (c *Crowdsale) EscrowAddress() (vtk.Address, error) {
	p, err := c.params()
	if err != nil {
		return vtk.Address{}, err
	}
	return p.Escrow, nil
}

func (c *Crowdsale) EscrowState() (escrow.State, error) {
	p, err := c.params()
	if err != nil {
		return 0, err
	}
	return c.escrow(p).State()
}

func (c *Crowdsale) Split() (DistributionSplit, error) {
	p, err := c.params()
	if err != nil {
		return DistributionSplit{}, err
	}
	return p.Split, nil
}

func (c *Crowdsale) TokenSalePercentage() (uint8, error) {
	s, err := c.Split()
	return s.TokenSale, err
}

func (c *Crowdsale) FoundersPercentage() (uint8, error) {
	s, err := c.Split()
	return s.Founders, err
}

func (c *Crowdsale) FoundationPercentage() (uint8, error) {
	s, err := c.Split()
	return s.Foundation, err
}

func (c *Crowdsale) PartnersPercentage() (uint8, error) {
	s, err := c.Split()
	return s.Partners, err
}

func (c *Crowdsale) ReleaseTime() (uint64, error) {
	p, err := c.params()
	if err != nil {
		return 0, err
	}
	return p.ReleaseTime, nil
}

// Timelock returns the timelock address and the beneficiary of fund.
func (c *Crowdsale) Timelock(fund Fund) (lock, beneficiary vtk.Address, err error) {
	p, err := c.params()
	if err != nil {
		return
	}
	if fund > Partners {
		return lock, beneficiary, errUnknownFund
	}
	return p.Timelocks[fund], p.Funds[fund], nil
}
