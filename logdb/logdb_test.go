// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	sale    = vtk.BytesToAddress([]byte("sale"))
	escrow  = vtk.BytesToAddress([]byte("escrow"))
	alice   = vtk.BytesToAddress([]byte("alice"))
	bob     = vtk.BytesToAddress([]byte("bob"))
	purName = "TokensPurchased"
)

func newTestDB(t *testing.T) *LogDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Prepare(1, 100, "buyTokens").Insert(
		state.NewLog(sale, purName, alice, big.NewInt(10), "tokens", "5000"),
		state.NewLog(escrow, "Deposited", alice, big.NewInt(10)),
	).Commit())
	require.NoError(t, db.Prepare(2, 200, "buyTokens").Insert(
		state.NewLog(sale, purName, bob, big.NewInt(20)),
	).Commit())
	require.NoError(t, db.Prepare(3, 300, "finalize").Insert(
		state.NewLog(sale, "Finalized", sale, big.NewInt(30), "goalReached", "false"),
	).Commit())
	return db
}

func TestEmptyDB(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	n, err := db.LatestTxNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	assert.NoError(t, db.Prepare(1, 1, "noop").Commit())
	assert.NotEmpty(t, db.DriverVersion())
	assert.Equal(t, ":memory:", db.Path())
}

func TestInsertAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := db.LatestTxNumber()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	first := all[0]
	assert.Equal(t, uint64(1), first.TxNumber)
	assert.Equal(t, uint32(0), first.Index)
	assert.Equal(t, "buyTokens", first.Op)
	assert.Equal(t, sale, first.Address)
	assert.Equal(t, alice, first.Subject)
	assert.Equal(t, "10", first.Amount.String())
	assert.Equal(t, map[string]string{"tokens": "5000"}, first.Fields)
	assert.Nil(t, all[1].Fields)
	assert.Equal(t, uint32(1), all[1].Index)

	tests := []struct {
		name   string
		filter *EventFilter
		want   []uint64
	}{
		{
			"by name",
			&EventFilter{CriteriaSet: []*EventCriteria{{Name: &purName}}},
			[]uint64{1, 2},
		},
		{
			"by subject or address",
			&EventFilter{CriteriaSet: []*EventCriteria{{Subject: &bob}, {Address: &escrow}}},
			[]uint64{1, 2},
		},
		{
			"time range",
			&EventFilter{Range: &Range{Unit: Time, From: 150, To: 300}},
			[]uint64{2, 3},
		},
		{
			"open upper bound",
			&EventFilter{Range: &Range{Unit: TxNumber, From: 2}},
			[]uint64{2, 3},
		},
		{
			"descending with limit",
			&EventFilter{Order: DESC, Options: &Options{Offset: 0, Limit: 2}},
			[]uint64{3, 2},
		},
		{
			"offset",
			&EventFilter{Options: &Options{Offset: 3, Limit: 10}},
			[]uint64{3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint64
			for _, e := range events {
				got = append(got, e.TxNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterCanceled(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestDuplicateCommitRollsBack(t *testing.T) {
	db := newTestDB(t)
	batch := db.Prepare(4, 400, "buyTokens").Insert(state.NewLog(sale, purName, alice, nil))
	require.NoError(t, batch.Commit())

	// same tx number again violates the primary key, nothing of it is kept
	err := db.Prepare(4, 500, "buyTokens").Insert(
		state.NewLog(sale, "Other", alice, nil),
		state.NewLog(sale, "Other", bob, nil),
	).Commit()
	assert.Error(t, err)

	name := "Other"
	events, err := db.FilterEvents(context.Background(), &EventFilter{CriteriaSet: []*EventCriteria{{Name: &name}}})
	require.NoError(t, err)
	assert.Empty(t, events)
}
