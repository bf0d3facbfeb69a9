// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timelock holds tokens for a beneficiary until a release time.
package timelock

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// Token is what a timelock needs from the locked token.
type Token interface {
	BalanceOf(addr vtk.Address) (*big.Int, error)
	Transfer(caller, to vtk.Address, amount *big.Int) error
}

var (
	beneficiarySlot = vtk.Blake2b([]byte("timelock-beneficiary"))
	releaseSlot     = vtk.Blake2b([]byte("timelock-release"))
)

// Timelock is a holder account of locked tokens. The token is passed to
// the operations reading or moving them.
type Timelock struct {
	ctx         *solidity.Context
	beneficiary *solidity.Address
	release     *solidity.Uint64
}

func New(addr vtk.Address, st *state.State) *Timelock {
	ctx := solidity.NewContext(addr, st)
	return &Timelock{
		ctx:         ctx,
		beneficiary: solidity.NewAddress(ctx, beneficiarySlot),
		release:     solidity.NewUint64(ctx, releaseSlot),
	}
}

func (t *Timelock) Address() vtk.Address {
	return t.ctx.Address()
}

// Init locks tokens sent to the timelock for beneficiary until releaseTime.
func (t *Timelock) Init(beneficiary vtk.Address, releaseTime uint64) error {
	if beneficiary.IsZero() {
		return reverts.New(reverts.InvalidBeneficiary, "timelock beneficiary is the zero address")
	}
	if releaseTime == 0 {
		return reverts.New(reverts.InvalidSchedule, "release time is not set")
	}
	t.beneficiary.Set(&beneficiary)
	t.release.Set(releaseTime)
	return nil
}

func (t *Timelock) Beneficiary() (vtk.Address, error) {
	return t.beneficiary.Get()
}

func (t *Timelock) ReleaseTime() (uint64, error) {
	return t.release.Get()
}

// Held returns the locked token amount.
func (t *Timelock) Held(token Token) (*big.Int, error) {
	return token.BalanceOf(t.Address())
}

// Release transfers everything held to the beneficiary once the release time passed.
func (t *Timelock) Release(token Token, now uint64) (*big.Int, error) {
	releaseTime, err := t.release.Get()
	if err != nil {
		return nil, err
	}
	if now < releaseTime {
		return nil, reverts.Newf(reverts.Locked, "tokens are locked until %d", releaseTime)
	}
	amount, err := t.Held(token)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, reverts.ErrNothingToRelease
	}
	beneficiary, err := t.beneficiary.Get()
	if err != nil {
		return nil, err
	}
	if err := token.Transfer(t.Address(), beneficiary, amount); err != nil {
		return nil, err
	}
	t.ctx.Emit("Released", beneficiary, amount)
	return amount, nil
}
