// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime serializes the operations driven from outside the process
// and makes each of them all-or-nothing.
package runtime

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/builtin/timelock"
	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/co"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var logger = log.WithContext("pkg", "runtime")

var errUnknownTimelock = reverts.New(reverts.InvalidState, "not a timelock of the sale")

// Runtime runs one operation at a time against the shared state. A failed
// operation leaves no trace. A successful one is committed to the store and
// its events to the log db.
type Runtime struct {
	mu       sync.Mutex
	state    *state.State
	sale     *crowdsale.Crowdsale
	token    *token.Token
	logDB    *logdb.LogDB
	clock    clock.Clock
	txNumber uint64
	commits  co.Signal
}

// New creates a runtime. logDB is optional.
func New(st *state.State, sale *crowdsale.Crowdsale, tk *token.Token, logDB *logdb.LogDB, clk clock.Clock) (*Runtime, error) {
	rt := &Runtime{
		state: st,
		sale:  sale,
		token: tk,
		logDB: logDB,
		clock: clk,
	}
	if logDB != nil {
		n, err := logDB.LatestTxNumber()
		if err != nil {
			return nil, errors.Wrap(err, "load latest tx number")
		}
		rt.txNumber = n
	}
	return rt, nil
}

func (rt *Runtime) Sale() *crowdsale.Crowdsale { return rt.sale }
func (rt *Runtime) Token() *token.Token         { return rt.token }
func (rt *Runtime) State() *state.State         { return rt.state }
func (rt *Runtime) LogDB() *logdb.LogDB         { return rt.logDB }
func (rt *Runtime) Clock() clock.Clock          { return rt.clock }

// TxNumber returns the number of the last committed operation.
func (rt *Runtime) TxNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.txNumber
}

// NewWaiter returns a waiter woken after every committed operation.
func (rt *Runtime) NewWaiter() co.Waiter {
	return rt.commits.NewWaiter()
}

// View runs a read-only fn under the runtime lock.
func (rt *Runtime) View(fn func() error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn()
}

// Execute runs fn as operation op. Changes made by fn are reverted when it
// fails and committed when it succeeds.
func (rt *Runtime) Execute(op string, fn func() error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	result := "ok"
	defer func() {
		metricTxCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		metricTxDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	checkpoint := rt.state.NewCheckpoint()
	if err := fn(); err != nil {
		rt.state.RevertTo(checkpoint)
		if kind, ok := reverts.KindOf(err); ok {
			result = "reverted"
			logger.Debug("tx reverted", "op", op, "kind", kind, "err", err)
		} else {
			result = "error"
			logger.Warn("tx failed", "op", op, "err", err)
		}
		return err
	}

	if err := rt.commit(op); err != nil {
		rt.state.RevertTo(checkpoint)
		result = "error"
		return err
	}
	rt.updateGauges()
	rt.commits.Broadcast()
	return nil
}

func (rt *Runtime) commit(op string) error {
	logs := rt.state.Logs()
	if err := rt.state.Commit(); err != nil {
		logger.Error("failed to commit state", "op", op, "err", err)
		return errors.WithMessage(err, "commit state")
	}
	rt.txNumber++
	if rt.logDB == nil || len(logs) == 0 {
		return nil
	}
	// the state is durable at this point, so the tx stands without its events
	if err := rt.logDB.Prepare(rt.txNumber, rt.clock.Now(), op).Insert(logs...).Commit(); err != nil {
		logger.Error("failed to write events", "op", op, "tx", rt.txNumber, "err", err)
		return nil
	}
	logger.Trace("tx committed", "op", op, "tx", rt.txNumber, "events", len(logs))
	return nil
}

func (rt *Runtime) updateGauges() {
	if n, err := rt.sale.Contributors(); err == nil {
		metricContributors().Set(int64(n))
	}
	if finalized, err := rt.sale.IsFinalized(); err == nil && finalized {
		metricFinalized().Set(1)
	}
}

// BuyTokens buys tokens for beneficiary, paid by purchaser.
func (rt *Runtime) BuyTokens(purchaser, beneficiary vtk.Address, value *big.Int) (issued *crowdsale.TokensIssued, err error) {
	err = rt.Execute("buyTokens", func() (err error) {
		issued, err = rt.sale.BuyTokens(purchaser, beneficiary, value)
		return
	})
	return
}

func (rt *Runtime) SetCrowdsaleStage(caller vtk.Address, s stage.Stage) error {
	return rt.Execute("setCrowdsaleStage", func() error {
		return rt.sale.SetCrowdsaleStage(caller, s)
	})
}

// AddAddressesToWhitelist returns how many addresses were newly listed.
func (rt *Runtime) AddAddressesToWhitelist(caller vtk.Address, addrs []vtk.Address) (added int, err error) {
	err = rt.Execute("addAddressesToWhitelist", func() (err error) {
		added, err = rt.sale.AddAddressesToWhitelist(caller, addrs)
		return
	})
	return
}

func (rt *Runtime) Finalize(caller vtk.Address) (out *crowdsale.Outcome, err error) {
	err = rt.Execute("finalize", func() (err error) {
		out, err = rt.sale.Finalize(caller)
		return
	})
	return
}

func (rt *Runtime) ClaimRefund(investor vtk.Address) (amount *big.Int, err error) {
	err = rt.Execute("claimRefund", func() (err error) {
		amount, err = rt.sale.ClaimRefund(investor)
		return
	})
	return
}

// ReleaseTimelock releases the tokens of one of the sale's distribution
// timelocks to its beneficiary.
func (rt *Runtime) ReleaseTimelock(lock vtk.Address) (amount *big.Int, err error) {
	err = rt.Execute("releaseTimelock", func() (err error) {
		if !rt.isTimelock(lock) {
			return errUnknownTimelock
		}
		amount, err = timelock.New(lock, rt.state).Release(rt.token, rt.clock.Now())
		return
	})
	return
}

func (rt *Runtime) isTimelock(addr vtk.Address) bool {
	for _, f := range []crowdsale.Fund{crowdsale.Founders, crowdsale.Foundation, crowdsale.Partners} {
		if crowdsale.TimelockAddress(rt.sale.Address(), f) == addr {
			return true
		}
	}
	return false
}
