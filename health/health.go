// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/viewtoken/crowdsale/co"
)

type LastTx struct {
	Number    uint64     `json:"number"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy     bool    `json:"healthy"`
	LastTx      *LastTx `json:"lastTx"`
	ClockOffset *string `json:"clockOffset"`
	ClockInSync bool    `json:"clockInSync"`
}

// Source is what the health watches for committed transactions.
type Source interface {
	NewWaiter() co.Waiter
	TxNumber() uint64
}

type Health struct {
	lock          sync.RWMutex
	maxOffset     time.Duration
	lastCommit    time.Time
	txNumber      uint64
	clockOffset   time.Duration
	clockObserved bool
}

// New creates a Health that reports unhealthy once the local clock is off
// by more than maxOffset.
func New(maxOffset time.Duration) *Health {
	return &Health{maxOffset: maxOffset}
}

func (h *Health) NewCommit(txNumber uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.txNumber = txNumber
}

func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = offset
	h.clockObserved = true
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{
		LastTx:      &LastTx{Number: h.txNumber},
		ClockInSync: true,
	}
	if !h.lastCommit.IsZero() {
		ts := h.lastCommit
		status.LastTx.Timestamp = &ts
	}
	if h.clockObserved {
		offset := h.clockOffset.String()
		status.ClockOffset = &offset
		status.ClockInSync = h.clockOffset <= h.maxOffset && h.clockOffset >= -h.maxOffset
	}
	status.Healthy = status.ClockInSync
	return status, nil
}

// Watch records every commit of src until ctx is done.
func (h *Health) Watch(ctx context.Context, src Source) {
	h.NewCommit(src.TxNumber())
	for {
		waiter := src.NewWaiter()
		select {
		case <-ctx.Done():
			return
		case <-waiter.C():
			h.NewCommit(src.TxNumber())
		}
	}
}
