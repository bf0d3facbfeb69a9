// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the View token: a mintable, pausable token whose
// privileged operations are gated by a role registry.
package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/roles"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	metaKey     = vtk.Blake2b([]byte("token-meta"))
	supplySlot  = vtk.Blake2b([]byte("token-supply"))
	pausedSlot  = vtk.Blake2b([]byte("token-paused"))
	ownerSlot   = vtk.Blake2b([]byte("token-owner"))
	balanceSlot = vtk.Blake2b([]byte("token-balances"))
)

// Meta describes the token.
type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// DefaultMeta is the View token.
var DefaultMeta = Meta{Name: "View", Symbol: "VTK", Decimals: 18}

// Token implements native methods of the View token contract.
type Token struct {
	ctx      *solidity.Context
	roles    *roles.Roles
	supply   *solidity.Uint256
	paused   *solidity.Bool
	owner    *solidity.Address
	balances *solidity.Mapping[vtk.Address, *big.Int]
}

// New create a new instance.
func New(addr vtk.Address, st *state.State) *Token {
	ctx := solidity.NewContext(addr, st)
	return &Token{
		ctx:      ctx,
		roles:    roles.New(addr, st),
		supply:   solidity.NewUint256(ctx, supplySlot),
		paused:   solidity.NewBool(ctx, pausedSlot),
		owner:    solidity.NewAddress(ctx, ownerSlot),
		balances: solidity.NewMapping[vtk.Address, *big.Int](ctx, balanceSlot),
	}
}

func (t *Token) Address() vtk.Address {
	return t.ctx.Address()
}

// Roles returns the role registry of the token.
func (t *Token) Roles() *roles.Roles {
	return t.roles
}

// Init stores the metadata and makes owner the holder of every role.
func (t *Token) Init(meta Meta, owner vtk.Address) error {
	if owner.IsZero() {
		return reverts.New(reverts.InvalidConfig, "token owner is the zero address")
	}
	if err := t.ctx.State().EncodeStorage(t.Address(), metaKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(&meta)
	}); err != nil {
		return err
	}
	t.owner.Set(&owner)
	for _, role := range []vtk.Bytes32{roles.AdminRole, roles.MinterRole, roles.PauserRole} {
		if err := t.roles.Grant(role, owner); err != nil {
			return err
		}
	}
	return nil
}

// Meta returns name, symbol and decimals.
func (t *Token) Meta() (meta Meta, err error) {
	err = t.ctx.State().DecodeStorage(t.Address(), metaKey, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &meta)
	})
	return
}

func (t *Token) Owner() (vtk.Address, error) {
	return t.owner.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.supply.Get()
}

func (t *Token) IsPaused() (bool, error) {
	return t.paused.Get()
}

func (t *Token) IsMinter(addr vtk.Address) (bool, error) {
	return t.roles.Has(roles.MinterRole, addr)
}

func (t *Token) BalanceOf(addr vtk.Address) (*big.Int, error) {
	v, err := t.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (t *Token) setBalance(addr vtk.Address, v *big.Int) error {
	if v.Sign() == 0 {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, v)
}

// Mint creates amount new tokens for to. Minting is not affected by pause.
func (t *Token) Mint(caller, to vtk.Address, amount *big.Int) error {
	if err := t.roles.Require(roles.MinterRole, caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New(reverts.InvalidBeneficiary, "mint to the zero address")
	}
	if amount.Sign() < 0 {
		return reverts.New(reverts.ZeroValue, "negative mint amount")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	if err := t.supply.Add(amount); err != nil {
		return err
	}
	t.ctx.Emit("Mint", to, amount)
	return nil
}

// Transfer moves amount from caller to to.
func (t *Token) Transfer(caller, to vtk.Address, amount *big.Int) error {
	paused, err := t.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	if to.IsZero() {
		return reverts.New(reverts.InvalidBeneficiary, "transfer to the zero address")
	}
	if amount.Sign() < 0 {
		return reverts.New(reverts.ZeroValue, "negative transfer amount")
	}
	from, err := t.BalanceOf(caller)
	if err != nil {
		return err
	}
	if from.Cmp(amount) < 0 {
		return reverts.Newf(reverts.InsufficientFunds, "token balance %v is less than %v", from, amount)
	}
	if err := t.setBalance(caller, from.Sub(from, amount)); err != nil {
		return err
	}
	dest, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, dest.Add(dest, amount)); err != nil {
		return err
	}
	t.ctx.Emit("Transfer", caller, amount, "to", to.String())
	return nil
}

func (t *Token) setPaused(caller vtk.Address, paused bool) error {
	if err := t.roles.Require(roles.PauserRole, caller); err != nil {
		return err
	}
	cur, err := t.IsPaused()
	if err != nil {
		return err
	}
	if cur == paused {
		return reverts.Newf(reverts.InvalidState, "token paused is already %v", paused)
	}
	t.paused.Set(paused)
	if paused {
		t.ctx.Emit("Pause", caller, nil)
	} else {
		t.ctx.Emit("Unpause", caller, nil)
	}
	return nil
}

// Pause stops transfers.
func (t *Token) Pause(caller vtk.Address) error {
	return t.setPaused(caller, true)
}

// Unpause lifts the transfer restriction.
func (t *Token) Unpause(caller vtk.Address) error {
	return t.setPaused(caller, false)
}

// GrantMinterRole lets an admin add a minter.
func (t *Token) GrantMinterRole(caller, addr vtk.Address) error {
	return t.roles.GrantRole(caller, roles.MinterRole, addr)
}

// RevokeMinterRole lets an admin remove a minter. A minter may also drop its own grant.
func (t *Token) RevokeMinterRole(caller, addr vtk.Address) error {
	if caller == addr {
		return t.roles.RenounceRole(caller, roles.MinterRole)
	}
	return t.roles.RevokeRole(caller, roles.MinterRole, addr)
}

// TransferOwnership hands the admin and pauser roles of caller over to newOwner.
// Minter grants are left untouched.
func (t *Token) TransferOwnership(caller, newOwner vtk.Address) error {
	owner, err := t.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.Newf(reverts.Unauthorized, "%v is not the token owner", caller)
	}
	if newOwner.IsZero() {
		return reverts.New(reverts.InvalidBeneficiary, "new owner is the zero address")
	}
	for _, role := range []vtk.Bytes32{roles.AdminRole, roles.PauserRole} {
		if err := t.roles.Revoke(role, caller); err != nil {
			return err
		}
		if err := t.roles.Grant(role, newOwner); err != nil {
			return err
		}
	}
	t.owner.Set(&newOwner)
	t.ctx.Emit("OwnershipTransferred", newOwner, nil, "previous", caller.String())
	return nil
}
