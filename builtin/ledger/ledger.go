// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger tracks per-investor and aggregate contributions and
// enforces the sale caps.
package ledger

import (
	"math/big"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/solidity"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

var (
	contributionsSlot = vtk.Blake2b([]byte("ledger-contributions"))
	totalSlot         = vtk.Blake2b([]byte("ledger-total"))
	contributorsSlot  = vtk.Blake2b([]byte("ledger-contributors"))
	minSlot           = vtk.Blake2b([]byte("ledger-investor-min"))
	hardCapSlot       = vtk.Blake2b([]byte("ledger-investor-hard-cap"))
	capSlot           = vtk.Blake2b([]byte("ledger-cap"))
)

// Limits are the contribution bounds, all in wei.
type Limits struct {
	InvestorMin     *big.Int // first contribution floor
	InvestorHardCap *big.Int // per investor ceiling
	Cap             *big.Int // aggregate ceiling
}

// Ledger is the sole writer of contributions.
type Ledger struct {
	contributions *solidity.Mapping[vtk.Address, *big.Int]
	total         *solidity.Uint256
	contributors  *solidity.Uint64
	min           *solidity.Uint256
	hardCap       *solidity.Uint256
	cap           *solidity.Uint256
}

func New(addr vtk.Address, state *state.State) *Ledger {
	ctx := solidity.NewContext(addr, state)
	return &Ledger{
		contributions: solidity.NewMapping[vtk.Address, *big.Int](ctx, contributionsSlot),
		total:         solidity.NewUint256(ctx, totalSlot),
		contributors:  solidity.NewUint64(ctx, contributorsSlot),
		min:           solidity.NewUint256(ctx, minSlot),
		hardCap:       solidity.NewUint256(ctx, hardCapSlot),
		cap:           solidity.NewUint256(ctx, capSlot),
	}
}

// Validate checks limits for consistency.
func (l Limits) Validate() error {
	if l.Cap == nil || l.Cap.Sign() <= 0 {
		return reverts.New(reverts.InvalidConfig, "cap must be positive")
	}
	if l.InvestorHardCap == nil || l.InvestorHardCap.Sign() <= 0 {
		return reverts.New(reverts.InvalidConfig, "investor hard cap must be positive")
	}
	if l.InvestorMin == nil || l.InvestorMin.Sign() < 0 {
		return reverts.New(reverts.InvalidConfig, "investor min cap must not be negative")
	}
	for _, v := range []*big.Int{l.Cap, l.InvestorHardCap, l.InvestorMin} {
		if !solidity.InRange(v) {
			return reverts.Newf(reverts.InvalidConfig, "limit %v exceeds uint256", v)
		}
	}
	if l.InvestorMin.Cmp(l.InvestorHardCap) > 0 {
		return reverts.New(reverts.InvalidConfig, "investor min cap exceeds investor hard cap")
	}
	return nil
}

// Init stores the limits.
func (l *Ledger) Init(limits Limits) error {
	if err := limits.Validate(); err != nil {
		return err
	}
	l.min.Set(limits.InvestorMin)
	l.hardCap.Set(limits.InvestorHardCap)
	l.cap.Set(limits.Cap)
	return nil
}

// Limits returns the stored limits.
func (l *Ledger) Limits() (limits Limits, err error) {
	if limits.InvestorMin, err = l.min.Get(); err != nil {
		return
	}
	if limits.InvestorHardCap, err = l.hardCap.Get(); err != nil {
		return
	}
	limits.Cap, err = l.cap.Get()
	return
}

// ContributionOf returns the cumulative contribution of investor.
func (l *Ledger) ContributionOf(investor vtk.Address) (*big.Int, error) {
	v, err := l.contributions.Get(investor)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// TotalRaised returns the sum of all contributions.
func (l *Ledger) TotalRaised() (*big.Int, error) {
	return l.total.Get()
}

// Contributors returns the number of investors with a nonzero record.
func (l *Ledger) Contributors() (uint64, error) {
	return l.contributors.Get()
}

// RecordContribution adds amount to investor's record. The first contribution
// must reach the investor minimum, then the investor hard cap and finally the
// aggregate cap are checked. Nothing is written when a check fails.
func (l *Ledger) RecordContribution(investor vtk.Address, amount *big.Int) error {
	limits, err := l.Limits()
	if err != nil {
		return err
	}
	current, err := l.ContributionOf(investor)
	if err != nil {
		return err
	}
	total, err := l.TotalRaised()
	if err != nil {
		return err
	}

	if current.Sign() == 0 && amount.Cmp(limits.InvestorMin) < 0 {
		return reverts.Newf(reverts.CapExceeded, "contribution %v is below investor minimum %v", amount, limits.InvestorMin)
	}
	updated := new(big.Int).Add(current, amount)
	if updated.Cmp(limits.InvestorHardCap) > 0 {
		return reverts.Newf(reverts.CapExceeded, "contribution would exceed investor hard cap %v", limits.InvestorHardCap)
	}
	newTotal := new(big.Int).Add(total, amount)
	if newTotal.Cmp(limits.Cap) > 0 {
		return reverts.Newf(reverts.CapExceeded, "contribution would exceed cap %v", limits.Cap)
	}

	if err := l.contributions.Set(investor, updated); err != nil {
		return err
	}
	l.total.Set(newTotal)
	if current.Sign() == 0 && updated.Sign() > 0 {
		n, err := l.contributors.Get()
		if err != nil {
			return err
		}
		l.contributors.Set(n + 1)
	}
	return nil
}
