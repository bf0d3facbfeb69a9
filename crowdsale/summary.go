// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/escrow"
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/vtk"
)

var errUnknownFund = reverts.New(reverts.InvalidState, "unknown fund")

// FundSummary describes a distribution party.
type FundSummary struct {
	Fund        string
	Percentage  uint8
	Beneficiary vtk.Address
	Timelock    vtk.Address
}

// Summary aggregates the read-only surface of the sale.
type Summary struct {
	Address         vtk.Address
	Token           vtk.Address
	Wallet          vtk.Address
	Escrow          vtk.Address
	EscrowState     escrow.State
	Stage           stage.Stage
	Rate            *big.Int
	Cap             *big.Int
	Goal            *big.Int
	InvestorMinCap  *big.Int
	InvestorHardCap *big.Int
	TotalRaised     *big.Int
	Contributors    uint64
	OpeningTime     uint64
	ClosingTime     uint64
	ReleaseTime     uint64
	Now             uint64
	IsOpen          bool
	HasClosed       bool
	IsFinalized     bool
	GoalReached     bool
	TokenSale       uint8
	Funds           []FundSummary
}

// Summary reads every public parameter and counter of the sale.
func (c *Crowdsale) Summary() (*Summary, error) {
	p, err := c.params()
	if err != nil {
		return nil, err
	}
	limits, err := c.ledger.Limits()
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Address:         c.addr,
		Token:           p.Token,
		Wallet:          p.Wallet,
		Escrow:          p.Escrow,
		Goal:            p.Goal,
		Cap:             limits.Cap,
		InvestorMinCap:  limits.InvestorMin,
		InvestorHardCap: limits.InvestorHardCap,
		ReleaseTime:     p.ReleaseTime,
		Now:             c.clock.Now(),
		TokenSale:       p.Split.TokenSale,
	}
	if s.EscrowState, err = c.escrow(p).State(); err != nil {
		return nil, err
	}
	if s.Stage, err = c.stages.CurrentStage(); err != nil {
		return nil, err
	}
	if s.Rate, err = c.stages.CurrentRate(); err != nil {
		return nil, err
	}
	if s.TotalRaised, err = c.ledger.TotalRaised(); err != nil {
		return nil, err
	}
	if s.Contributors, err = c.ledger.Contributors(); err != nil {
		return nil, err
	}
	if s.OpeningTime, err = c.window.OpeningTime(); err != nil {
		return nil, err
	}
	if s.ClosingTime, err = c.window.ClosingTime(); err != nil {
		return nil, err
	}
	if s.IsOpen, err = c.window.IsOpen(s.Now); err != nil {
		return nil, err
	}
	if s.HasClosed, err = c.window.HasClosed(s.Now); err != nil {
		return nil, err
	}
	if s.IsFinalized, err = c.finalized.Get(); err != nil {
		return nil, err
	}
	if s.GoalReached, err = c.goalReached.Get(); err != nil {
		return nil, err
	}
	pcts := [3]uint8{p.Split.Founders, p.Split.Foundation, p.Split.Partners}
	for _, f := range []Fund{Founders, Foundation, Partners} {
		s.Funds = append(s.Funds, FundSummary{
			Fund:        f.String(),
			Percentage:  pcts[f],
			Beneficiary: p.Funds[f],
			Timelock:    p.Timelocks[f],
		})
	}
	return s, nil
}
