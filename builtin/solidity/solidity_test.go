// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(vtk.Address{1}, state.New(db))
}

type record struct {
	Amount *big.Int
	Time   uint64
	Owner  vtk.Address
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, vtk.Bytes32{1})
	value := vtk.BytesToAddress([]byte("wallet"))

	address.Set(&value)
	got, err := address.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	address.Set(nil)
	got, err = address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, vtk.Address{1}, ctx.Address())
}

func TestAddressCorruptStorage(t *testing.T) {
	ctx := newContext(t)
	slot := vtk.BytesToBytes32([]byte("slot"))
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	addr, err := NewAddress(ctx, slot).Get()
	assert.Error(t, err)
	assert.True(t, addr.IsZero())
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, vtk.Bytes32{2})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	u.Set(big.NewInt(100))
	require.NoError(t, u.Add(big.NewInt(50)))
	require.NoError(t, u.Sub(big.NewInt(30)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(120), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(121)), ErrOverflow)
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	u.Set(maxU256)
	assert.ErrorIs(t, u.Add(big.NewInt(1)), ErrOverflow)
	v, _ = u.Get()
	assert.Equal(t, maxU256.String(), v.String())

	assert.True(t, InRange(maxU256))
	assert.True(t, InRange(big.NewInt(0)))
	assert.False(t, InRange(new(big.Int).Add(maxU256, big.NewInt(1))))
	assert.False(t, InRange(big.NewInt(-1)))
	assert.False(t, InRange(nil))
}

func TestUint64AndBool(t *testing.T) {
	ctx := newContext(t)
	n := NewUint64(ctx, vtk.Bytes32{3})
	b := NewBool(ctx, vtk.Bytes32{4})

	n.Set(1700000000)
	got, err := n.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), got)

	flag, err := b.Get()
	require.NoError(t, err)
	assert.False(t, flag)

	b.Set(true)
	flag, _ = b.Get()
	assert.True(t, flag)

	b.Set(false)
	flag, _ = b.Get()
	assert.False(t, flag)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)

	t.Run("big int values", func(t *testing.T) {
		m := NewMapping[vtk.Address, *big.Int](ctx, vtk.Bytes32{5})
		key := vtk.BytesToAddress([]byte("investor"))

		got, err := m.Get(key)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, m.Set(key, big.NewInt(7)))
		got, err = m.Get(key)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(7), got)

		m.Delete(key)
		got, err = m.Get(key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("struct pointer values", func(t *testing.T) {
		m := NewMapping[vtk.Bytes32, *record](ctx, vtk.Bytes32{6})
		key := vtk.Blake2b([]byte("k"))
		value := &record{Amount: big.NewInt(3), Time: 9, Owner: vtk.Address{9}}

		require.NoError(t, m.Set(key, value))
		got, err := m.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("bool values", func(t *testing.T) {
		m := NewMapping[vtk.Address, bool](ctx, vtk.Bytes32{7})
		key := vtk.Address{7}
		require.NoError(t, m.Set(key, true))
		got, err := m.Get(key)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("distinct base positions do not collide", func(t *testing.T) {
		a := NewMapping[vtk.Address, uint64](ctx, vtk.Bytes32{8})
		b := NewMapping[vtk.Address, uint64](ctx, vtk.Bytes32{9})
		key := vtk.Address{8}
		require.NoError(t, a.Set(key, 1))
		got, err := b.Get(key)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got)
	})

	t.Run("encode error", func(t *testing.T) {
		m := NewMapping[vtk.Address, chan int](ctx, vtk.Bytes32{10})
		assert.Error(t, m.Set(vtk.Address{1}, make(chan int)))
	})
}

func TestEmit(t *testing.T) {
	ctx := newContext(t)
	subject := vtk.Address{2}
	ctx.Emit("Deposited", subject, big.NewInt(5), "stage", "PreICO")

	logs := ctx.State().Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, ctx.Address(), logs[0].Address)
	assert.Equal(t, "Deposited", logs[0].Name)
	assert.Equal(t, subject, logs[0].Subject)
	assert.Equal(t, big.NewInt(5), logs[0].Amount)
	assert.Equal(t, "PreICO", logs[0].Fields["stage"])
}
