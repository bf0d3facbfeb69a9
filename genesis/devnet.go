// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/vtk"
)

// DevAccount is a well known account for local development.
type DevAccount struct {
	Address    vtk.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the development accounts. The first one deploys, the
// second one is the wallet, the third one the admin, the next three hold the
// distribution funds and the rest are investors.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{vtk.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

const (
	day  = 24 * 60 * 60
	year = 365 * day
)

// DefaultConfig is a development deployment that opens a minute after now
// and runs for thirty days, with the View token defaults.
func DefaultConfig(now uint64) *Config {
	accs := DevAccounts()
	opening := now + 60
	closing := opening + 30*day

	cfg := &Config{
		Deployer: accs[0].Address,
		Token:    TokenConfig{Name: "View", Symbol: "VTK", Decimals: 18},
		Sale: SaleConfig{
			Wallet:          accs[1].Address,
			Admin:           accs[2].Address,
			Cap:             amount(vtk.EtherOf(100)),
			Goal:            amount(vtk.EtherOf(50)),
			InvestorMinCap:  amount(new(big.Int).Div(vtk.EtherOf(2), big.NewInt(1000))),
			InvestorHardCap: amount(vtk.EtherOf(50)),
			OpeningTime:     opening,
			ClosingTime:     closing,
			InitialStage:    stage.PreICO,
			Split: Split{
				TokenSale:  crowdsale.DefaultSplit.TokenSale,
				Founders:   crowdsale.DefaultSplit.Founders,
				Foundation: crowdsale.DefaultSplit.Foundation,
				Partners:   crowdsale.DefaultSplit.Partners,
			},
			FoundersFund:   accs[3].Address,
			FoundationFund: accs[4].Address,
			PartnersFund:   accs[5].Address,
			ReleaseTime:    closing + year,
		},
	}
	stages := crowdsale.DefaultStages()
	for _, s := range []stage.Stage{stage.PreICO, stage.ICO} {
		cfg.Sale.Stages = append(cfg.Sale.Stages, StageConfig{
			Stage:         s,
			Rate:          amount(stages[s].Rate),
			DirectForward: stages[s].DirectForward,
		})
	}
	for _, a := range accs[6:] {
		cfg.Accounts = append(cfg.Accounts, Account{Address: a.Address, Balance: amount(vtk.EtherOf(1000))})
		cfg.Whitelist = append(cfg.Whitelist, a.Address)
	}
	return cfg
}
