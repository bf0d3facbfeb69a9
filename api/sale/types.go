// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sale

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/viewtoken/crowdsale/builtin/escrow"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/vtk"
)

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Fund struct {
	Fund        string      `json:"fund"`
	Percentage  uint8       `json:"percentage"`
	Beneficiary vtk.Address `json:"beneficiary"`
	Timelock    vtk.Address `json:"timelock"`
}

// Summary is the public state of the sale.
type Summary struct {
	Address         vtk.Address           `json:"address"`
	Token           vtk.Address           `json:"token"`
	Wallet          vtk.Address           `json:"wallet"`
	Escrow          vtk.Address           `json:"escrow"`
	EscrowState     escrow.State          `json:"escrowState"`
	Stage           stage.Stage           `json:"stage"`
	Rate            *math.HexOrDecimal256 `json:"rate"`
	Cap             *math.HexOrDecimal256 `json:"cap"`
	Goal            *math.HexOrDecimal256 `json:"goal"`
	InvestorMinCap  *math.HexOrDecimal256 `json:"investorMinCap"`
	InvestorHardCap *math.HexOrDecimal256 `json:"investorHardCap"`
	TotalRaised     *math.HexOrDecimal256 `json:"totalRaised"`
	Contributors    uint64                `json:"contributors"`
	OpeningTime     uint64                `json:"openingTime"`
	ClosingTime     uint64                `json:"closingTime"`
	ReleaseTime     uint64                `json:"releaseTime"`
	Now             uint64                `json:"now"`
	IsOpen          bool                  `json:"isOpen"`
	HasClosed       bool                  `json:"hasClosed"`
	IsFinalized     bool                  `json:"isFinalized"`
	GoalReached     bool                  `json:"goalReached"`
	TokenSale       uint8                 `json:"tokenSalePercentage"`
	Funds           []Fund                `json:"funds"`
}

func convertSummary(s *crowdsale.Summary) *Summary {
	out := &Summary{
		Address:         s.Address,
		Token:           s.Token,
		Wallet:          s.Wallet,
		Escrow:          s.Escrow,
		EscrowState:     s.EscrowState,
		Stage:           s.Stage,
		Rate:            amount(s.Rate),
		Cap:             amount(s.Cap),
		Goal:            amount(s.Goal),
		InvestorMinCap:  amount(s.InvestorMinCap),
		InvestorHardCap: amount(s.InvestorHardCap),
		TotalRaised:     amount(s.TotalRaised),
		Contributors:    s.Contributors,
		OpeningTime:     s.OpeningTime,
		ClosingTime:     s.ClosingTime,
		ReleaseTime:     s.ReleaseTime,
		Now:             s.Now,
		IsOpen:          s.IsOpen,
		HasClosed:       s.HasClosed,
		IsFinalized:     s.IsFinalized,
		GoalReached:     s.GoalReached,
		TokenSale:       s.TokenSale,
		Funds:           make([]Fund, 0, len(s.Funds)),
	}
	for _, f := range s.Funds {
		out.Funds = append(out.Funds, Fund{
			Fund:        f.Fund,
			Percentage:  f.Percentage,
			Beneficiary: f.Beneficiary,
			Timelock:    f.Timelock,
		})
	}
	return out
}

// PurchaseRequest buys tokens. Beneficiary defaults to the purchaser.
type PurchaseRequest struct {
	Purchaser   vtk.Address           `json:"purchaser"`
	Beneficiary *vtk.Address          `json:"beneficiary,omitempty"`
	Value       *math.HexOrDecimal256 `json:"value"`
}

type Purchase struct {
	Purchaser   vtk.Address           `json:"purchaser"`
	Beneficiary vtk.Address           `json:"beneficiary"`
	Value       *math.HexOrDecimal256 `json:"value"`
	Tokens      *math.HexOrDecimal256 `json:"tokens"`
	Stage       stage.Stage           `json:"stage"`
	Rate        *math.HexOrDecimal256 `json:"rate"`
	Forwarded   bool                  `json:"forwarded"`
}

func convertPurchase(t *crowdsale.TokensIssued) *Purchase {
	return &Purchase{
		Purchaser:   t.Purchaser,
		Beneficiary: t.Beneficiary,
		Value:       amount(t.Value),
		Tokens:      amount(t.Tokens),
		Stage:       t.Stage,
		Rate:        amount(t.Rate),
		Forwarded:   t.Forwarded,
	}
}

type StageRequest struct {
	Caller vtk.Address `json:"caller"`
	Stage  stage.Stage `json:"stage"`
}

type WhitelistRequest struct {
	Caller    vtk.Address   `json:"caller"`
	Addresses []vtk.Address `json:"addresses"`
}

type FinalizeRequest struct {
	Caller vtk.Address `json:"caller"`
}

type RefundRequest struct {
	Investor vtk.Address `json:"investor"`
}

type Share struct {
	Fund        string                `json:"fund"`
	Beneficiary vtk.Address           `json:"beneficiary"`
	Timelock    vtk.Address           `json:"timelock"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
}

type Outcome struct {
	GoalReached bool                  `json:"goalReached"`
	TotalRaised *math.HexOrDecimal256 `json:"totalRaised"`
	Shares      []Share               `json:"shares"`
}

func convertOutcome(o *crowdsale.Outcome) *Outcome {
	out := &Outcome{
		GoalReached: o.GoalReached,
		TotalRaised: amount(o.TotalRaised),
		Shares:      make([]Share, 0, len(o.Shares)),
	}
	for _, s := range o.Shares {
		out.Shares = append(out.Shares, Share{
			Fund:        s.Fund.String(),
			Beneficiary: s.Beneficiary,
			Timelock:    s.Timelock,
			Amount:      amount(s.Amount),
		})
	}
	return out
}

// Amount is the body of responses carrying a single value.
type Amount struct {
	Address vtk.Address           `json:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}
