// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the time source of the sale.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"

	"github.com/viewtoken/crowdsale/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock returns the current time in unix seconds.
type Clock interface {
	Now() uint64
}

// System is the wall clock.
type System struct{}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a clock moved explicitly, used by tests and simulations.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to now.
func (m *Manual) Set(now uint64) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

// Func adapts a function to Clock.
type Func func() uint64

func (f Func) Now() uint64 { return f() }

// QueryFunc queries a NTP server for the local clock offset.
type QueryFunc func(server string) (time.Duration, error)

// NTPQuery queries server with beevik/ntp.
func NTPQuery(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// CheckDrift warns when the local clock is off by more than tolerance. The
// sale window is evaluated against the local clock, so a large offset opens
// or closes the sale at the wrong moment.
func CheckDrift(query QueryFunc, server string, tolerance time.Duration) (time.Duration, error) {
	offset, err := query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return 0, err
	}
	if offset > tolerance || offset < -tolerance {
		logger.Warn("clock offset detected", "offset", offset, "server", server)
	}
	return offset, nil
}
