// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crowdsale

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/viewtoken/crowdsale/builtin/escrow"
	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

func newMockedSale(t *testing.T) (*Crowdsale, *MockToken, *state.State, *clock.Manual) {
	ctrl := gomock.NewController(t)
	tk := NewMockToken(ctrl)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)
	st.SetBalance(investor1, vtk.EtherOf(100))

	clk := clock.NewManual(deployTime)
	sale, err := Deploy(saleAddr, st, testConfig(), tk, clk)
	require.NoError(t, err)
	clk.Set(openingTime)
	require.NoError(t, sale.SetCrowdsaleStage(admin, stage.ICO))
	return sale, tk, st, clk
}

func TestBuyTokensMintsThroughToken(t *testing.T) {
	sale, tk, _, _ := newMockedSale(t)

	tk.EXPECT().Mint(saleAddr, investor1, vtk.EtherOf(250)).Return(nil)
	issued, err := sale.BuyTokens(investor1, investor1, vtk.EtherOf(1))
	require.NoError(t, err)
	assert.Equal(t, ether(250), issued.Tokens.String())

	tk.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("role missing"))
	_, err = sale.BuyTokens(investor1, investor1, vtk.EtherOf(1))
	assert.ErrorIs(t, err, reverts.ErrMintFailed)
	assert.Contains(t, err.Error(), "role missing")

	c, _ := sale.GetUserContribution(investor1)
	assert.Equal(t, ether(1), c.String())
}

func TestFinalizeCallOrder(t *testing.T) {
	cfg := testConfig()
	sale, tk, st, clk := newMockedSale(t)
	st.SetBalance(investor1, vtk.EtherOf(100))

	tk.EXPECT().Mint(saleAddr, investor1, gomock.Any()).Return(nil)
	_, err := sale.BuyTokens(investor1, investor1, vtk.EtherOf(50))
	require.NoError(t, err)

	clk.Set(closingTime + 1)
	minted := vtk.EtherOf(7000)
	share := vtk.EtherOf(1000)
	gomock.InOrder(
		tk.EXPECT().TotalSupply().Return(minted, nil),
		tk.EXPECT().Mint(saleAddr, TimelockAddress(saleAddr, Founders), share).Return(nil),
		tk.EXPECT().Mint(saleAddr, TimelockAddress(saleAddr, Foundation), share).Return(nil),
		tk.EXPECT().Mint(saleAddr, TimelockAddress(saleAddr, Partners), share).Return(nil),
		tk.EXPECT().RevokeMinterRole(saleAddr, saleAddr).Return(nil),
		tk.EXPECT().IsPaused().Return(true, nil),
		tk.EXPECT().Unpause(saleAddr).Return(nil),
		tk.EXPECT().TransferOwnership(saleAddr, cfg.Wallet).Return(nil),
	)

	out, err := sale.Finalize(outsider)
	require.NoError(t, err)
	assert.True(t, out.GoalReached)
	require.Len(t, out.Shares, 3)
	assert.Equal(t, partners, out.Shares[2].Beneficiary)
}

func TestFinalizeRollsBackOnTokenFailure(t *testing.T) {
	sale, tk, st, clk := newMockedSale(t)

	tk.EXPECT().Mint(saleAddr, investor1, gomock.Any()).Return(nil)
	_, err := sale.BuyTokens(investor1, investor1, vtk.EtherOf(50))
	require.NoError(t, err)

	clk.Set(closingTime + 1)
	tk.EXPECT().TotalSupply().Return(vtk.EtherOf(12500), nil)
	tk.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
	tk.EXPECT().RevokeMinterRole(saleAddr, saleAddr).Return(nil)
	tk.EXPECT().IsPaused().Return(false, nil)
	tk.EXPECT().TransferOwnership(saleAddr, wallet).Return(reverts.ErrUnauthorized)

	_, err = sale.Finalize(outsider)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	finalized, _ := sale.IsFinalized()
	assert.False(t, finalized)
	es, _ := sale.EscrowState()
	assert.Equal(t, escrow.Active, es)
	bal, _ := st.GetBalance(wallet)
	assert.Equal(t, 0, bal.Sign())
	held, _ := st.GetBalance(EscrowAddress(saleAddr))
	assert.Equal(t, ether(50), held.String())
}

func TestFinalizeGoalMissedWithMock(t *testing.T) {
	sale, tk, _, clk := newMockedSale(t)
	clk.Set(closingTime + 1)

	tk.EXPECT().RevokeMinterRole(saleAddr, saleAddr).Return(nil)
	out, err := sale.Finalize(outsider)
	require.NoError(t, err)
	assert.False(t, out.GoalReached)
	assert.Equal(t, 0, out.TotalRaised.Sign())
}

func TestDistributionRounding(t *testing.T) {
	sale, tk, _, clk := newMockedSale(t)
	tk.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	_, err := sale.BuyTokens(investor1, investor1, vtk.EtherOf(50))
	require.NoError(t, err)
	clk.Set(closingTime + 1)

	// 1001 / 70 * 100 = 1400, each 10% share is 140
	tk.EXPECT().TotalSupply().Return(big.NewInt(1001), nil)
	tk.EXPECT().RevokeMinterRole(gomock.Any(), gomock.Any()).Return(nil)
	tk.EXPECT().IsPaused().Return(false, nil)
	tk.EXPECT().TransferOwnership(gomock.Any(), gomock.Any()).Return(nil)

	out, err := sale.Finalize(outsider)
	require.NoError(t, err)
	for _, s := range out.Shares {
		assert.Equal(t, "140", s.Amount.String())
	}
}
