// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package whitelist

import (
	"github.com/viewtoken/crowdsale/builtin/roles"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	membersSlot = vtk.Blake2b([]byte("whitelist-members"))
	sizeSlot    = vtk.Blake2b([]byte("whitelist-size"))
)

// Whitelist is the additive allow-list of investors. Entries can not be removed.
type Whitelist struct {
	ctx     *solidity.Context
	roles   *roles.Roles
	members *solidity.Mapping[vtk.Address, bool]
	size    *solidity.Uint64
}

// New binds the whitelist kept at addr. Admin checks are made against rs.
func New(addr vtk.Address, state *state.State, rs *roles.Roles) *Whitelist {
	ctx := solidity.NewContext(addr, state)
	return &Whitelist{
		ctx:     ctx,
		roles:   rs,
		members: solidity.NewMapping[vtk.Address, bool](ctx, membersSlot),
		size:    solidity.NewUint64(ctx, sizeSlot),
	}
}

// Add whitelists addresses. Only admins may call it. Already present
// addresses are skipped. It returns the number of newly added entries.
func (w *Whitelist) Add(caller vtk.Address, addresses []vtk.Address) (int, error) {
	if err := w.roles.Require(roles.AdminRole, caller); err != nil {
		return 0, err
	}
	return w.add(addresses)
}

func (w *Whitelist) add(addresses []vtk.Address) (int, error) {
	added := 0
	for _, addr := range addresses {
		ok, err := w.members.Get(addr)
		if err != nil {
			return 0, err
		}
		if ok {
			continue
		}
		if err := w.members.Set(addr, true); err != nil {
			return 0, err
		}
		w.ctx.Emit("WhitelistAdded", addr, nil)
		added++
	}
	if added > 0 {
		n, err := w.size.Get()
		if err != nil {
			return 0, err
		}
		w.size.Set(n + uint64(added))
	}
	return added, nil
}

// Seed adds addresses without an admin check, for deployment.
func (w *Whitelist) Seed(addresses []vtk.Address) error {
	_, err := w.add(addresses)
	return err
}

func (w *Whitelist) IsWhitelisted(addr vtk.Address) (bool, error) {
	return w.members.Get(addr)
}

// Size returns the number of whitelisted addresses.
func (w *Whitelist) Size() (uint64, error) {
	return w.size.Get()
}
