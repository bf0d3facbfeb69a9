// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"
	"time"

	"github.com/viewtoken/crowdsale/co"
)

func TestSignalBroadcast(t *testing.T) {
	var sig co.Signal
	w1 := sig.NewWaiter()
	w2 := sig.NewWaiter()

	sig.Broadcast()
	<-w1.C()
	<-w2.C()
}

func TestSignalBroadcastBeforeWait(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Broadcast()

	// the broadcast happened after the waiter was created
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("missed broadcast")
	}
}

func TestSignalNoBroadcast(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Broadcast()
	<-w.C()

	select {
	case <-w.C():
		t.Fatal("woken without a broadcast")
	case <-time.After(10 * time.Millisecond):
	}
}
