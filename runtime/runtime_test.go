// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/genesis"
	"github.com/viewtoken/crowdsale/kv"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/runtime"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

const now = 1_700_000_000

type fixture struct {
	rt  *runtime.Runtime
	cfg *genesis.Config
	db  kv.Store
	ldb *logdb.LogDB
	clk *clock.Manual
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return newFixtureOn(t, db)
}

func newFixtureOn(t *testing.T, db kv.Store) *fixture {
	ldb, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })

	cfg := genesis.DefaultConfig(now)
	clk := clock.NewManual(now)
	st := state.New(db)
	tk := token.New(cfg.TokenAddress(), st)
	sale := crowdsale.New(cfg.SaleAddress(), st, tk, clk)

	rt, err := runtime.New(st, sale, tk, ldb, clk)
	require.NoError(t, err)
	require.NoError(t, rt.Execute("deploy", func() error {
		_, _, err := genesis.Deploy(cfg, st, clk)
		return err
	}))
	return &fixture{rt: rt, cfg: cfg, db: db, ldb: ldb, clk: clk}
}

func investor(i int) vtk.Address {
	return genesis.DevAccounts()[6+i].Address
}

func TestDeployIsCommitted(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, uint64(1), f.rt.TxNumber())

	// a fresh state over the same store sees the deployment
	st := state.New(f.db)
	sale := crowdsale.New(f.cfg.SaleAddress(), st, token.New(f.cfg.TokenAddress(), st), f.clk)
	deployed, err := sale.Deployed()
	require.NoError(t, err)
	assert.True(t, deployed)

	events, err := f.ldb.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, "deploy", e.Op)
		assert.Equal(t, uint64(1), e.TxNumber)
	}
}

func TestExecuteRevertsOnError(t *testing.T) {
	f := newFixture(t)

	_, err := f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	assert.ErrorIs(t, err, reverts.ErrNotOpen)
	assert.Equal(t, uint64(1), f.rt.TxNumber())
	assert.Empty(t, f.rt.State().Logs())

	w := f.rt.NewWaiter()
	f.clk.Set(f.cfg.Sale.OpeningTime)
	select {
	case <-w.C():
		t.Fatal("woken by a reverted tx")
	default:
	}
	issued, err := f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	require.NoError(t, err)
	<-w.C()
	assert.Equal(t, vtk.EtherOf(500).String(), issued.Tokens.String())
	assert.Equal(t, uint64(2), f.rt.TxNumber())

	name := "TokensPurchased"
	events, err := f.ldb.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Name: &name}},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "buyTokens", events[0].Op)
	assert.Equal(t, investor(0), events[0].Subject)
	assert.Equal(t, uint64(f.cfg.Sale.OpeningTime), events[0].TxTime)
}

func TestSaleLifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.cfg.Sale.Admin

	f.clk.Set(f.cfg.Sale.OpeningTime)
	assert.ErrorIs(t, f.rt.SetCrowdsaleStage(investor(0), stage.ICO), reverts.ErrUnauthorized)
	require.NoError(t, f.rt.SetCrowdsaleStage(admin, stage.ICO))

	outsider := vtk.BytesToAddress([]byte("outsider"))
	n, err := f.rt.AddAddressesToWhitelist(admin, []vtk.Address{outsider})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for i := 0; i < 2; i++ {
		_, err := f.rt.BuyTokens(investor(i), investor(i), vtk.EtherOf(26))
		require.NoError(t, err)
	}

	f.clk.Set(f.cfg.Sale.ClosingTime + 1)
	out, err := f.rt.Finalize(investor(0))
	require.NoError(t, err)
	assert.True(t, out.GoalReached)

	_, err = f.rt.ClaimRefund(investor(0))
	assert.ErrorIs(t, err, reverts.ErrInvalidState)

	lock, _, err := f.rt.Sale().Timelock(crowdsale.Founders)
	require.NoError(t, err)
	_, err = f.rt.ReleaseTimelock(lock)
	assert.ErrorIs(t, err, reverts.ErrLocked)
	_, err = f.rt.ReleaseTimelock(outsider)
	assert.ErrorIs(t, err, reverts.ErrInvalidState)

	f.clk.Set(f.cfg.Sale.ReleaseTime)
	released, err := f.rt.ReleaseTimelock(lock)
	require.NoError(t, err)
	assert.Equal(t, out.Shares[0].Amount.String(), released.String())

	var balance string
	require.NoError(t, f.rt.View(func() error {
		b, err := f.rt.Token().BalanceOf(f.cfg.Sale.FoundersFund)
		balance = b.String()
		return err
	}))
	assert.Equal(t, released.String(), balance)
}

func TestResumeTxNumber(t *testing.T) {
	f := newFixture(t)
	f.clk.Set(f.cfg.Sale.OpeningTime)
	_, err := f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	require.NoError(t, err)

	st := state.New(f.db)
	tk := token.New(f.cfg.TokenAddress(), st)
	rt, err := runtime.New(st, crowdsale.New(f.cfg.SaleAddress(), st, tk, f.clk), tk, f.ldb, f.clk)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rt.TxNumber())
}

// flakyStore fails the next bulk write when fail is set.
type flakyStore struct {
	kv.Store
	fail bool
}

func (s *flakyStore) Bulk() kv.Bulk {
	return &flakyBulk{Bulk: s.Store.Bulk(), store: s}
}

type flakyBulk struct {
	kv.Bulk
	store *flakyStore
}

func (b *flakyBulk) Write() error {
	if b.store.fail {
		b.store.fail = false
		return errors.New("disk full")
	}
	return b.Bulk.Write()
}

func contributionOf(t *testing.T, f *fixture, addr vtk.Address) string {
	st := state.New(f.db)
	sale := crowdsale.New(f.cfg.SaleAddress(), st, token.New(f.cfg.TokenAddress(), st), f.clk)
	c, err := sale.GetUserContribution(addr)
	require.NoError(t, err)
	return c.String()
}

func TestFailedCommitIsReverted(t *testing.T) {
	mem, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })
	store := &flakyStore{Store: mem}
	f := newFixtureOn(t, store)
	f.clk.Set(f.cfg.Sale.OpeningTime)

	store.fail = true
	_, err = f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, uint64(1), f.rt.TxNumber())
	assert.Empty(t, f.rt.State().Logs())

	// a later tx must not carry the failed one along
	require.NoError(t, f.rt.SetCrowdsaleStage(f.cfg.Sale.Admin, stage.ICO))
	assert.Equal(t, "0", contributionOf(t, f, investor(0)))

	var contribution string
	require.NoError(t, f.rt.View(func() error {
		c, err := f.rt.Sale().GetUserContribution(investor(0))
		contribution = c.String()
		return err
	}))
	assert.Equal(t, "0", contribution)

	_, err = f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	require.NoError(t, err)
	assert.Equal(t, vtk.EtherOf(1).String(), contributionOf(t, f, investor(0)))

	name := "TokensPurchased"
	events, err := f.ldb.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Name: &name}},
	})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventStoreFailureKeepsTx(t *testing.T) {
	f := newFixture(t)
	f.clk.Set(f.cfg.Sale.OpeningTime)
	require.NoError(t, f.ldb.Close())

	w := f.rt.NewWaiter()
	issued, err := f.rt.BuyTokens(investor(0), investor(0), vtk.EtherOf(1))
	require.NoError(t, err)
	assert.Equal(t, vtk.EtherOf(500).String(), issued.Tokens.String())
	assert.Equal(t, uint64(2), f.rt.TxNumber())
	assert.Equal(t, vtk.EtherOf(1).String(), contributionOf(t, f, investor(0)))
	<-w.C()
}

func TestFinalizeLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Root()
	log.SetDefault(log.NewLogger(log.JSONHandler(&buf)))
	t.Cleanup(func() { log.SetDefault(prev) })

	f := newFixture(t)
	f.clk.Set(f.cfg.Sale.ClosingTime + 1)
	_, err := f.rt.Finalize(investor(0))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"sale finalized"`))
}
