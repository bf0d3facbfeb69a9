// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vtk

import (
	"math/big"
)

var (
	// Wei is the smallest unit of value.
	Wei = big.NewInt(1)
	// Ether is 10^18 wei.
	Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
)

// EtherOf returns n ether expressed in wei.
func EtherOf(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}

// Copy returns a copy of v, or zero if v is nil.
func Copy(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
