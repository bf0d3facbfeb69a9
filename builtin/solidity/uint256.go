// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/viewtoken/crowdsale/vtk"
)

// ErrOverflow is returned when arithmetic leaves the uint256 range.
var ErrOverflow = errors.New("uint256 overflow")

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// If the provided uint exceeds 256 bits, it will be truncated to fit into vtk.Bytes32
type Uint256 struct {
	context *Context
	pos     vtk.Bytes32
}

func NewUint256(context *Context, pos vtk.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	var storage vtk.Bytes32
	if value != nil {
		storage = vtk.BytesToBytes32(value.Bytes())
	}
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// InRange reports whether v is a non-negative value that fits in 256 bits.
func InRange(v *big.Int) bool {
	if v == nil || v.Sign() < 0 {
		return false
	}
	_, overflow := uint256.FromBig(v)
	return !overflow
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	if _, overflow := uint256.FromBig(storage); overflow {
		return ErrOverflow
	}
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Sub(storage, value).Sign() < 0 {
		return ErrOverflow
	}
	u.Set(storage)
	return nil
}

// Uint64 stores small counters and timestamps.
type Uint64 struct {
	u Uint256
}

func NewUint64(context *Context, pos vtk.Bytes32) *Uint64 {
	return &Uint64{Uint256{context: context, pos: pos}}
}

func (u *Uint64) Get() (uint64, error) {
	v, err := u.u.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.u.Set(new(big.Int).SetUint64(value))
}

// Bool stores a flag.
type Bool struct {
	u Uint256
}

func NewBool(context *Context, pos vtk.Bytes32) *Bool {
	return &Bool{Uint256{context: context, pos: pos}}
}

func (b *Bool) Get() (bool, error) {
	v, err := b.u.Get()
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

func (b *Bool) Set(value bool) {
	if value {
		b.u.Set(big.NewInt(1))
	} else {
		b.u.Set(nil)
	}
}
