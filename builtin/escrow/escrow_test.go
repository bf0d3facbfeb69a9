// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	sale     = vtk.BytesToAddress([]byte("sale"))
	wallet   = vtk.BytesToAddress([]byte("wallet"))
	investor = vtk.BytesToAddress([]byte("investor"))
	other    = vtk.BytesToAddress([]byte("other"))
)

func newEscrow(t *testing.T) (*Escrow, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	st.SetBalance(investor, big.NewInt(100))
	st.SetBalance(other, big.NewInt(100))
	e := New(vtk.BytesToAddress([]byte("vault")), st)
	require.NoError(t, e.Init(sale, wallet))
	return e, st
}

func balanceOf(t *testing.T, st *state.State, addr vtk.Address) string {
	b, err := st.GetBalance(addr)
	require.NoError(t, err)
	return b.String()
}

func TestInit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	e := New(vtk.Address{1}, state.New(db))
	assert.ErrorIs(t, e.Init(sale, vtk.Address{}), reverts.ErrInvalidBeneficiary)
}

func TestDeposit(t *testing.T) {
	e, st := newEscrow(t)

	assert.ErrorIs(t, e.Deposit(other, investor, investor, big.NewInt(1)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, e.Deposit(sale, investor, investor, big.NewInt(101)), reverts.ErrInsufficientFunds)

	require.NoError(t, e.Deposit(sale, investor, investor, big.NewInt(10)))
	require.NoError(t, e.Deposit(sale, other, investor, big.NewInt(5)))

	d, err := e.DepositsOf(investor)
	require.NoError(t, err)
	assert.Equal(t, "15", d.String())
	held, _ := e.Held()
	assert.Equal(t, "15", held.String())
	assert.Equal(t, "90", balanceOf(t, st, investor))
}

func TestClose(t *testing.T) {
	e, st := newEscrow(t)
	require.NoError(t, e.Deposit(sale, investor, investor, big.NewInt(30)))

	assert.ErrorIs(t, e.Close(other), reverts.ErrUnauthorized)
	require.NoError(t, e.Close(sale))

	s, _ := e.State()
	assert.Equal(t, Closed, s)
	assert.Equal(t, "30", balanceOf(t, st, wallet))
	held, _ := e.Held()
	assert.Equal(t, 0, held.Sign())

	// terminal
	assert.ErrorIs(t, e.Close(sale), reverts.ErrInvalidState)
	assert.ErrorIs(t, e.EnableRefunds(sale), reverts.ErrInvalidState)
	assert.ErrorIs(t, e.Deposit(sale, investor, investor, big.NewInt(1)), reverts.ErrInvalidState)
	_, err := e.ClaimRefund(investor)
	assert.ErrorIs(t, err, reverts.ErrInvalidState)
}

func TestRefunds(t *testing.T) {
	e, st := newEscrow(t)
	require.NoError(t, e.Deposit(sale, investor, investor, big.NewInt(30)))

	_, err := e.ClaimRefund(investor)
	assert.ErrorIs(t, err, reverts.ErrInvalidState, "active vault does not refund")

	require.NoError(t, e.EnableRefunds(sale))
	assert.ErrorIs(t, e.Close(sale), reverts.ErrInvalidState)
	assert.ErrorIs(t, e.EnableRefunds(sale), reverts.ErrInvalidState)

	amount, err := e.ClaimRefund(investor)
	require.NoError(t, err)
	assert.Equal(t, "30", amount.String())
	assert.Equal(t, "100", balanceOf(t, st, investor))

	_, err = e.ClaimRefund(investor)
	assert.ErrorIs(t, err, reverts.ErrNothingToRefund)
	_, err = e.ClaimRefund(other)
	assert.ErrorIs(t, err, reverts.ErrNothingToRefund)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Refunding", Refunding.String())
	assert.Equal(t, "State(9)", State(9).String())
}
