// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/viewtoken/crowdsale/vtk"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
type Mapping[K Key, V any] struct {
	context *Context
	basePos vtk.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos vtk.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) vtk.Bytes32 {
	return vtk.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the zero value of V if the key was never set.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot so Get returns the zero value again.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
