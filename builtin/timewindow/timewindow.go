// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timewindow

import (
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	openingSlot = vtk.Blake2b([]byte("window-opening"))
	closingSlot = vtk.Blake2b([]byte("window-closing"))
)

// Window guards the opening and closing time of the sale. Times are unix seconds.
type Window struct {
	opening *solidity.Uint64
	closing *solidity.Uint64
}

func New(addr vtk.Address, state *state.State) *Window {
	ctx := solidity.NewContext(addr, state)
	return &Window{
		opening: solidity.NewUint64(ctx, openingSlot),
		closing: solidity.NewUint64(ctx, closingSlot),
	}
}

// Validate checks a schedule against the current time.
func Validate(opening, closing, now uint64) error {
	if opening <= now {
		return reverts.Newf(reverts.InvalidSchedule, "opening time %d is not after current time %d", opening, now)
	}
	if opening >= closing {
		return reverts.Newf(reverts.InvalidSchedule, "opening time %d is not before closing time %d", opening, closing)
	}
	return nil
}

// Init stores the schedule once it passes Validate.
func (w *Window) Init(opening, closing, now uint64) error {
	if err := Validate(opening, closing, now); err != nil {
		return err
	}
	w.opening.Set(opening)
	w.closing.Set(closing)
	return nil
}

func (w *Window) OpeningTime() (uint64, error) {
	return w.opening.Get()
}

func (w *Window) ClosingTime() (uint64, error) {
	return w.closing.Get()
}

// IsOpen reports opening <= now <= closing.
func (w *Window) IsOpen(now uint64) (bool, error) {
	opening, err := w.opening.Get()
	if err != nil {
		return false, err
	}
	closing, err := w.closing.Get()
	if err != nil {
		return false, err
	}
	return opening <= now && now <= closing, nil
}

// HasClosed reports now > closing.
func (w *Window) HasClosed(now uint64) (bool, error) {
	closing, err := w.closing.Get()
	if err != nil {
		return false, err
	}
	return now > closing, nil
}
