// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter hands out the channel to wait on for the next event.
type Waiter interface {
	C() <-chan struct{}
}

// Signal broadcasts an event to every goroutine waiting on it. Unlike
// sync.Cond the wait is a channel, so it can be part of a select.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// NewWaiter returns a waiter. Each call to its C returns the channel for the
// next broadcast after the previous one it observed.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	ref := s.current()
	s.mu.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref
		s.mu.Lock()
		ref = s.current()
		s.mu.Unlock()
		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
