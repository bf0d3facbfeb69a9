// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roles is a capability table of logical role to authorized accounts,
// kept in the storage of the contract it guards.
package roles

import (
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	AdminRole  = vtk.Keccak256([]byte("ADMIN_ROLE"))
	MinterRole = vtk.Keccak256([]byte("MINTER_ROLE"))
	PauserRole = vtk.Keccak256([]byte("PAUSER_ROLE"))

	membersSlot = vtk.Blake2b([]byte("roles-members"))
	countSlot   = vtk.Blake2b([]byte("roles-count"))
)

// Name returns a readable name of well known roles.
func Name(role vtk.Bytes32) string {
	switch role {
	case AdminRole:
		return "admin"
	case MinterRole:
		return "minter"
	case PauserRole:
		return "pauser"
	}
	return role.AbbrevString()
}

// Roles implements the role registry of a contract.
type Roles struct {
	ctx     *solidity.Context
	members *solidity.Mapping[vtk.Bytes32, bool]
	counts  *solidity.Mapping[vtk.Bytes32, uint64]
}

func New(addr vtk.Address, state *state.State) *Roles {
	ctx := solidity.NewContext(addr, state)
	return &Roles{
		ctx:     ctx,
		members: solidity.NewMapping[vtk.Bytes32, bool](ctx, membersSlot),
		counts:  solidity.NewMapping[vtk.Bytes32, uint64](ctx, countSlot),
	}
}

func memberKey(role vtk.Bytes32, account vtk.Address) vtk.Bytes32 {
	return vtk.Blake2b(role.Bytes(), account.Bytes())
}

// Has returns whether account holds role.
func (r *Roles) Has(role vtk.Bytes32, account vtk.Address) (bool, error) {
	return r.members.Get(memberKey(role, account))
}

// Count returns the number of accounts holding role.
func (r *Roles) Count(role vtk.Bytes32) (uint64, error) {
	return r.counts.Get(role)
}

// Require fails with Unauthorized unless account holds role.
func (r *Roles) Require(role vtk.Bytes32, account vtk.Address) error {
	ok, err := r.Has(role, account)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.Newf(reverts.Unauthorized, "%v is missing role %s", account, Name(role))
	}
	return nil
}

// Grant adds account to role without any authorization check. It is used by
// deployment and by contracts granting roles on their own behalf.
func (r *Roles) Grant(role vtk.Bytes32, account vtk.Address) error {
	key := memberKey(role, account)
	has, err := r.members.Get(key)
	if err != nil || has {
		return err
	}
	if err := r.members.Set(key, true); err != nil {
		return err
	}
	n, err := r.counts.Get(role)
	if err != nil {
		return err
	}
	if err := r.counts.Set(role, n+1); err != nil {
		return err
	}
	r.ctx.Emit("RoleGranted", account, nil, "role", Name(role))
	return nil
}

// Revoke removes account from role without any authorization check.
func (r *Roles) Revoke(role vtk.Bytes32, account vtk.Address) error {
	key := memberKey(role, account)
	has, err := r.members.Get(key)
	if err != nil || !has {
		return err
	}
	r.members.Delete(key)
	n, err := r.counts.Get(role)
	if err != nil {
		return err
	}
	if n <= 1 {
		r.counts.Delete(role)
	} else if err := r.counts.Set(role, n-1); err != nil {
		return err
	}
	r.ctx.Emit("RoleRevoked", account, nil, "role", Name(role))
	return nil
}

// GrantRole grants role to account, caller must be an admin.
func (r *Roles) GrantRole(caller vtk.Address, role vtk.Bytes32, account vtk.Address) error {
	if err := r.Require(AdminRole, caller); err != nil {
		return err
	}
	return r.Grant(role, account)
}

// RevokeRole revokes role from account, caller must be an admin.
func (r *Roles) RevokeRole(caller vtk.Address, role vtk.Bytes32, account vtk.Address) error {
	if err := r.Require(AdminRole, caller); err != nil {
		return err
	}
	return r.Revoke(role, account)
}

// RenounceRole drops role held by caller.
func (r *Roles) RenounceRole(caller vtk.Address, role vtk.Bytes32) error {
	if err := r.Require(role, caller); err != nil {
		return err
	}
	return r.Revoke(role, caller)
}
