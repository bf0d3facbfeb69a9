// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

// Context binds typed storage helpers to a contract account.
type Context struct {
	address vtk.Address
	state   *state.State
}

func NewContext(address vtk.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() vtk.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Emit appends a log attributed to the bound contract.
func (c *Context) Emit(name string, subject vtk.Address, amount *big.Int, fields ...string) {
	c.state.AddLog(state.NewLog(c.address, name, subject, amount, fields...))
}
