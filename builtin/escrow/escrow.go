// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow implements the refund vault. It holds value deposited during
// escrow-routed stages until the sale outcome is known.
package escrow

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// State of the vault. Refunding and Closed are terminal.
type State uint8

const (
	Active State = iota
	Refunding
	Closed
)

func (s State) String() string {
	switch s {
	case Active:
		return "Active"
	case Refunding:
		return "Refunding"
	case Closed:
		return "Closed"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ownerSlot       = vtk.Blake2b([]byte("escrow-owner"))
	beneficiarySlot = vtk.Blake2b([]byte("escrow-beneficiary"))
	stateSlot       = vtk.Blake2b([]byte("escrow-state"))
	depositsSlot    = vtk.Blake2b([]byte("escrow-deposits"))
)

// Escrow is the sole writer of deposits. Value is held in the balance of
// the escrow account itself.
type Escrow struct {
	ctx         *solidity.Context
	owner       *solidity.Address
	beneficiary *solidity.Address
	state       *solidity.Uint64
	deposits    *solidity.Mapping[vtk.Address, *big.Int]
}

func New(addr vtk.Address, st *state.State) *Escrow {
	ctx := solidity.NewContext(addr, st)
	return &Escrow{
		ctx:         ctx,
		owner:       solidity.NewAddress(ctx, ownerSlot),
		beneficiary: solidity.NewAddress(ctx, beneficiarySlot),
		state:       solidity.NewUint64(ctx, stateSlot),
		deposits:    solidity.NewMapping[vtk.Address, *big.Int](ctx, depositsSlot),
	}
}

func (e *Escrow) Address() vtk.Address {
	return e.ctx.Address()
}

// Init sets the owner allowed to operate the vault and the beneficiary
// receiving the held value on close.
func (e *Escrow) Init(owner, beneficiary vtk.Address) error {
	if beneficiary.IsZero() {
		return reverts.New(reverts.InvalidBeneficiary, "escrow beneficiary is the zero address")
	}
	e.owner.Set(&owner)
	e.beneficiary.Set(&beneficiary)
	e.state.Set(uint64(Active))
	return nil
}

func (e *Escrow) onlyOwner(caller vtk.Address) error {
	owner, err := e.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.Newf(reverts.Unauthorized, "%v is not the escrow owner", caller)
	}
	return nil
}

func (e *Escrow) requireState(want State) error {
	s, err := e.State()
	if err != nil {
		return err
	}
	if s != want {
		return reverts.Newf(reverts.InvalidState, "escrow is %v, want %v", s, want)
	}
	return nil
}

func (e *Escrow) State() (State, error) {
	v, err := e.state.Get()
	return State(v), err
}

func (e *Escrow) Beneficiary() (vtk.Address, error) {
	return e.beneficiary.Get()
}

// DepositsOf returns the refundable amount of investor.
func (e *Escrow) DepositsOf(investor vtk.Address) (*big.Int, error) {
	v, err := e.deposits.Get(investor)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// Held returns the value currently held by the vault.
func (e *Escrow) Held() (*big.Int, error) {
	return e.ctx.State().GetBalance(e.Address())
}

// Deposit moves amount from payer into the vault on behalf of investor.
func (e *Escrow) Deposit(caller, payer, investor vtk.Address, amount *big.Int) error {
	if err := e.onlyOwner(caller); err != nil {
		return err
	}
	if err := e.requireState(Active); err != nil {
		return err
	}
	if err := transfer(e.ctx.State(), payer, e.Address(), amount); err != nil {
		return err
	}
	current, err := e.DepositsOf(investor)
	if err != nil {
		return err
	}
	if err := e.deposits.Set(investor, current.Add(current, amount)); err != nil {
		return err
	}
	e.ctx.Emit("Deposited", investor, amount)
	return nil
}

// EnableRefunds switches the vault to refund mode.
func (e *Escrow) EnableRefunds(caller vtk.Address) error {
	if err := e.onlyOwner(caller); err != nil {
		return err
	}
	if err := e.requireState(Active); err != nil {
		return err
	}
	e.state.Set(uint64(Refunding))
	e.ctx.Emit("RefundsEnabled", e.Address(), nil)
	return nil
}

// Close releases everything held to the beneficiary.
func (e *Escrow) Close(caller vtk.Address) error {
	if err := e.onlyOwner(caller); err != nil {
		return err
	}
	if err := e.requireState(Active); err != nil {
		return err
	}
	e.state.Set(uint64(Closed))

	beneficiary, err := e.beneficiary.Get()
	if err != nil {
		return err
	}
	held, err := e.Held()
	if err != nil {
		return err
	}
	if held.Sign() > 0 {
		if err := transfer(e.ctx.State(), e.Address(), beneficiary, held); err != nil {
			return err
		}
	}
	e.ctx.Emit("Closed", beneficiary, held)
	return nil
}

// ClaimRefund pays the whole deposit of investor back. Anyone may trigger it,
// the value always goes to the investor.
func (e *Escrow) ClaimRefund(investor vtk.Address) (*big.Int, error) {
	if err := e.requireState(Refunding); err != nil {
		return nil, err
	}
	amount, err := e.DepositsOf(investor)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return nil, reverts.Newf(reverts.NothingToRefund, "no deposit of %v", investor)
	}
	e.deposits.Delete(investor)
	if err := transfer(e.ctx.State(), e.Address(), investor, amount); err != nil {
		return nil, err
	}
	e.ctx.Emit("Refunded", investor, amount)
	return amount, nil
}

func transfer(st *state.State, from, to vtk.Address, amount *big.Int) error {
	if err := st.Transfer(from, to, amount); err != nil {
		if errors.Is(err, state.ErrInsufficientBalance) {
			return reverts.Wrap(reverts.InsufficientFunds, err, "settlement")
		}
		return err
	}
	return nil
}
