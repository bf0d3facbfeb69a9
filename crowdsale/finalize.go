// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/timelock"
	"github.com/viewtoken/crowdsale/vtk"
)

// Share is a distributed allocation, minted to a timelock for the fund.
type Share struct {
	Fund        Fund
	Beneficiary vtk.Address
	Timelock    vtk.Address
	Amount      *big.Int
}

// Outcome is the result of Finalize.
type Outcome struct {
	GoalReached bool
	TotalRaised *big.Int
	Shares      []Share
}

// Finalize closes the sale once. Anyone may call it after the closing time.
//
// When the goal is reached the escrow is released to the wallet, the
// distribution shares are minted, the sale gives up its minter grant, the
// token is unpaused and its ownership goes to the wallet. Otherwise refunds
// are enabled, the minter grant is dropped and the token stays paused.
func (c *Crowdsale) Finalize(caller vtk.Address) (*Outcome, error) {
	var out *Outcome
	err := c.atomic(func() (err error) {
		out, err = c.finalize()
		return
	})
	if err != nil {
		return nil, err
	}
	logger.Info("sale finalized", "caller", caller, "goalReached", out.GoalReached, "raised", out.TotalRaised)
	return out, nil
}

func (c *Crowdsale) finalize() (*Outcome, error) {
	finalized, err := c.finalized.Get()
	if err != nil {
		return nil, err
	}
	if finalized {
		return nil, reverts.ErrAlreadyFinalized
	}
	now := c.clock.Now()
	closed, err := c.window.HasClosed(now)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, reverts.Newf(reverts.NotClosed, "sale has not closed at %d", now)
	}

	p, err := c.params()
	if err != nil {
		return nil, err
	}
	raised, err := c.ledger.TotalRaised()
	if err != nil {
		return nil, err
	}
	out := &Outcome{
		GoalReached: raised.Cmp(p.Goal) >= 0,
		TotalRaised: raised,
	}
	c.finalized.Set(true)
	c.goalReached.Set(out.GoalReached)

	vault := c.escrow(p)
	if out.GoalReached {
		if err := vault.Close(c.addr); err != nil {
			return nil, err
		}
		if out.Shares, err = c.distribute(p); err != nil {
			return nil, err
		}
		if err := c.token.RevokeMinterRole(c.addr, c.addr); err != nil {
			return nil, err
		}
		paused, err := c.token.IsPaused()
		if err != nil {
			return nil, err
		}
		if paused {
			if err := c.token.Unpause(c.addr); err != nil {
				return nil, err
			}
		}
		if err := c.token.TransferOwnership(c.addr, p.Wallet); err != nil {
			return nil, err
		}
	} else {
		if err := vault.EnableRefunds(c.addr); err != nil {
			return nil, err
		}
		if err := c.token.RevokeMinterRole(c.addr, c.addr); err != nil {
			return nil, err
		}
	}

	goal := "false"
	if out.GoalReached {
		goal = "true"
	}
	c.ctx.Emit("Finalized", c.addr, raised, "goalReached", goal)
	return out, nil
}

// distribute mints the founders, foundation and partners shares. The sale
// supply is the TokenSale part of the final supply.
func (c *Crowdsale) distribute(p *params) ([]Share, error) {
	minted, err := c.token.TotalSupply()
	if err != nil {
		return nil, err
	}
	finalSupply := new(big.Int).Div(minted, big.NewInt(int64(p.Split.TokenSale)))
	finalSupply.Mul(finalSupply, big.NewInt(100))

	pcts := [3]uint8{p.Split.Founders, p.Split.Foundation, p.Split.Partners}
	var shares []Share
	for _, f := range []Fund{Founders, Foundation, Partners} {
		amount := new(big.Int).Mul(finalSupply, big.NewInt(int64(pcts[f])))
		amount.Div(amount, big.NewInt(100))
		if amount.Sign() == 0 {
			continue
		}
		lock := timelock.New(p.Timelocks[f], c.state)
		if err := lock.Init(p.Funds[f], p.ReleaseTime); err != nil {
			return nil, err
		}
		if err := c.token.Mint(c.addr, lock.Address(), amount); err != nil {
			return nil, reverts.Wrap(reverts.MintFailed, err, "mint "+f.String()+" share")
		}
		c.ctx.Emit("ShareDistributed", p.Funds[f], amount, "fund", f.String(), "timelock", lock.Address().String())
		shares = append(shares, Share{
			Fund:        f,
			Beneficiary: p.Funds[f],
			Timelock:    lock.Address(),
			Amount:      amount,
		})
	}
	return shares, nil
}

// ClaimRefund pays back the escrowed deposit of investor after a failed sale.
// The contribution record is kept.
func (c *Crowdsale) ClaimRefund(investor vtk.Address) (*big.Int, error) {
	var amount *big.Int
	err := c.atomic(func() error {
		p, err := c.params()
		if err != nil {
			return err
		}
		amount, err = c.escrow(p).ClaimRefund(investor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}
