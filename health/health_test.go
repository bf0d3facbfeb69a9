// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/co"
)

func TestHealth_NewCommit(t *testing.T) {
	h := New(time.Second)

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Nil(t, status.LastTx.Timestamp)
	assert.Nil(t, status.ClockOffset)

	h.NewCommit(7)
	status, err = h.Status()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), status.LastTx.Number)
	require.NotNil(t, status.LastTx.Timestamp)
	assert.WithinDuration(t, time.Now(), *status.LastTx.Timestamp, time.Second)
}

func TestHealth_ClockOffset(t *testing.T) {
	tests := []struct {
		offset  time.Duration
		healthy bool
	}{
		{0, true},
		{time.Second, true},
		{-time.Second, true},
		{2 * time.Second, false},
		{-2 * time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.offset.String(), func(t *testing.T) {
			h := New(time.Second)
			h.ClockOffset(tt.offset)

			status, err := h.Status()
			require.NoError(t, err)
			assert.Equal(t, tt.healthy, status.Healthy)
			assert.Equal(t, tt.healthy, status.ClockInSync)
			require.NotNil(t, status.ClockOffset)
			assert.Equal(t, tt.offset.String(), *status.ClockOffset)
		})
	}
}

type source struct {
	signal co.Signal
	tx     chan uint64
	last   uint64
}

func (s *source) NewWaiter() co.Waiter { return s.signal.NewWaiter() }

func (s *source) TxNumber() uint64 {
	select {
	case n := <-s.tx:
		s.last = n
	default:
	}
	return s.last
}

func TestHealth_Watch(t *testing.T) {
	h := New(time.Second)
	src := &source{tx: make(chan uint64, 1), last: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, src)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		status, _ := h.Status()
		return status.LastTx.Number == 1
	}, time.Second, 10*time.Millisecond)

	src.tx <- 2
	src.signal.Broadcast()
	assert.Eventually(t, func() bool {
		src.signal.Broadcast()
		status, _ := h.Status()
		return status.LastTx.Number == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
