// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

//go:generate mockgen -source token.go -destination token_mock.go -package crowdsale

import (
	"math/big"

	"github.com/viewtoken/crowdsale/vtk"
)

// Token is the token collaborator driven by the sale. Every privileged call
// names the caller, which is the sale address when the sale acts.
type Token interface {
	Mint(caller, to vtk.Address, amount *big.Int) error
	Pause(caller vtk.Address) error
	Unpause(caller vtk.Address) error
	GrantMinterRole(caller, addr vtk.Address) error
	RevokeMinterRole(caller, addr vtk.Address) error
	TransferOwnership(caller, newOwner vtk.Address) error
	IsPaused() (bool, error)
	TotalSupply() (*big.Int, error)
}
