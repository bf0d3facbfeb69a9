// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/state"
)

var logger = log.WithContext("pkg", "genesis")

// Deploy funds the accounts, creates the token and hands it to a freshly
// deployed sale. The token starts paused and the sale is its only minter.
func Deploy(cfg *Config, st *state.State, clk clock.Clock) (*token.Token, *crowdsale.Crowdsale, error) {
	if cfg.Deployer.IsZero() {
		return nil, nil, errors.New("deployer must be set")
	}
	for _, a := range cfg.Accounts {
		if a.Balance == nil {
			return nil, nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if bigOf(a.Balance).Sign() < 1 {
			return nil, nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		st.SetBalance(a.Address, bigOf(a.Balance))
	}

	deployer := cfg.Deployer
	saleAddr := cfg.SaleAddress()
	tk := token.New(cfg.TokenAddress(), st)
	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"init token", func() error { return tk.Init(cfg.tokenMeta(), deployer) }},
		{"pause token", func() error { return tk.Pause(deployer) }},
		{"grant sale minter", func() error { return tk.GrantMinterRole(deployer, saleAddr) }},
		{"renounce deployer minter", func() error { return tk.RevokeMinterRole(deployer, deployer) }},
		{"hand token to sale", func() error { return tk.TransferOwnership(deployer, saleAddr) }},
	} {
		if err := step.fn(); err != nil {
			return nil, nil, errors.WithMessage(err, step.name)
		}
	}

	sale, err := crowdsale.Deploy(saleAddr, st, cfg.SaleConfig(), tk, clk)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "deploy sale")
	}
	logger.Info("deployed", "token", tk.Address(), "sale", saleAddr, "accounts", len(cfg.Accounts))
	return tk, sale, nil
}
