// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// TokensIssued is the result of an accepted purchase.
type TokensIssued struct {
	Purchaser   vtk.Address
	Beneficiary vtk.Address
	Value       *big.Int
	Tokens      *big.Int
	Stage       stage.Stage
	Rate        *big.Int
	Forwarded   bool // value went to the wallet instead of the escrow
}

// Receive is the default entry point: sender buys for itself.
func (c *Crowdsale) Receive(sender vtk.Address, amount *big.Int) (*TokensIssued, error) {
	return c.BuyTokens(sender, sender, amount)
}

// BuyTokens runs the purchase pipeline. purchaser pays amount, beneficiary
// receives the tokens and owns the contribution. The first failing check
// aborts the call and nothing is changed.
func (c *Crowdsale) BuyTokens(purchaser, beneficiary vtk.Address, amount *big.Int) (*TokensIssued, error) {
	var issued *TokensIssued
	err := c.atomic(func() (err error) {
		issued, err = c.buyTokens(purchaser, beneficiary, amount)
		return
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

func (c *Crowdsale) buyTokens(purchaser, beneficiary vtk.Address, amount *big.Int) (*TokensIssued, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, reverts.New(reverts.ZeroValue, "purchase value is zero")
	}
	if beneficiary.IsZero() {
		return nil, reverts.New(reverts.InvalidBeneficiary, "beneficiary is the zero address")
	}
	now := c.clock.Now()
	open, err := c.window.IsOpen(now)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, reverts.Newf(reverts.NotOpen, "sale is not open at %d", now)
	}
	listed, err := c.whitelist.IsWhitelisted(beneficiary)
	if err != nil {
		return nil, err
	}
	if !listed {
		return nil, reverts.Newf(reverts.NotWhitelisted, "%v is not whitelisted", beneficiary)
	}
	if err := c.ledger.RecordContribution(beneficiary, amount); err != nil {
		return nil, err
	}

	p, err := c.params()
	if err != nil {
		return nil, err
	}
	current, err := c.stages.CurrentStage()
	if err != nil {
		return nil, err
	}
	rate, err := c.stages.CurrentRate()
	if err != nil {
		return nil, err
	}
	tokens := new(big.Int).Mul(amount, rate)
	if err := c.token.Mint(c.addr, beneficiary, tokens); err != nil {
		return nil, reverts.Wrap(reverts.MintFailed, err, "mint purchased tokens")
	}

	direct, err := c.stages.ForwardsDirectly()
	if err != nil {
		return nil, err
	}
	if direct {
		if err := c.state.Transfer(purchaser, p.Wallet, amount); err != nil {
			if errors.Is(err, state.ErrInsufficientBalance) {
				return nil, reverts.Wrap(reverts.InsufficientFunds, err, "forward to wallet")
			}
			return nil, err
		}
	} else if err := c.escrow(p).Deposit(c.addr, purchaser, beneficiary, amount); err != nil {
		return nil, err
	}

	c.ctx.Emit("TokensPurchased", beneficiary, amount,
		"purchaser", purchaser.String(),
		"tokens", tokens.String(),
		"stage", current.String(),
	)
	return &TokensIssued{
		Purchaser:   purchaser,
		Beneficiary: beneficiary,
		Value:       new(big.Int).Set(amount),
		Tokens:      tokens,
		Stage:       current,
		Rate:        rate,
		Forwarded:   direct,
	}, nil
}
