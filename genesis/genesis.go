// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes a sale deployment and sets it up on a fresh state.
package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/viewtoken/crowdsale/builtin/stage"
	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/vtk"
)

// Config is the deployment document. Amounts accept decimal or 0x-prefixed hex.
type Config struct {
	Deployer  vtk.Address   `yaml:"deployer" json:"deployer"`
	Token     TokenConfig   `yaml:"token" json:"token"`
	Sale      SaleConfig    `yaml:"sale" json:"sale"`
	Accounts  []Account     `yaml:"accounts,omitempty" json:"accounts,omitempty"`
	Whitelist []vtk.Address `yaml:"whitelist,omitempty" json:"whitelist,omitempty"`
}

type TokenConfig struct {
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals uint8  `yaml:"decimals" json:"decimals"`
}

type SaleConfig struct {
	Wallet          vtk.Address           `yaml:"wallet" json:"wallet"`
	Admin           vtk.Address           `yaml:"admin" json:"admin"`
	Rate            *math.HexOrDecimal256 `yaml:"rate,omitempty" json:"rate,omitempty"`
	Cap             *math.HexOrDecimal256 `yaml:"cap" json:"cap"`
	Goal            *math.HexOrDecimal256 `yaml:"goal" json:"goal"`
	InvestorMinCap  *math.HexOrDecimal256 `yaml:"investorMinCap" json:"investorMinCap"`
	InvestorHardCap *math.HexOrDecimal256 `yaml:"investorHardCap" json:"investorHardCap"`
	OpeningTime     uint64                `yaml:"openingTime" json:"openingTime"`
	ClosingTime     uint64                `yaml:"closingTime" json:"closingTime"`
	InitialStage    stage.Stage           `yaml:"initialStage" json:"initialStage"`
	Stages          []StageConfig         `yaml:"stages,omitempty" json:"stages,omitempty"`
	Split           Split                 `yaml:"split" json:"split"`
	FoundersFund    vtk.Address           `yaml:"foundersFund" json:"foundersFund"`
	FoundationFund  vtk.Address           `yaml:"foundationFund" json:"foundationFund"`
	PartnersFund    vtk.Address           `yaml:"partnersFund" json:"partnersFund"`
	ReleaseTime     uint64                `yaml:"releaseTime" json:"releaseTime"`
}

type StageConfig struct {
	Stage         stage.Stage           `yaml:"stage" json:"stage"`
	Rate          *math.HexOrDecimal256 `yaml:"rate" json:"rate"`
	DirectForward bool                  `yaml:"directForward" json:"directForward"`
}

type Split struct {
	TokenSale  uint8 `yaml:"tokenSale" json:"tokenSale"`
	Founders   uint8 `yaml:"founders" json:"founders"`
	Foundation uint8 `yaml:"foundation" json:"foundation"`
	Partners   uint8 `yaml:"partners" json:"partners"`
}

// Account is a settlement balance set at deployment.
type Account struct {
	Address vtk.Address           `yaml:"address" json:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance" json:"balance"`
}

// Load reads a yaml or json deployment document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read deployment document")
	}
	return Parse(data)
}

// Parse decodes a yaml document. JSON is accepted as a subset of yaml.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode deployment document")
	}
	return &cfg, nil
}

// Marshal encodes the document as yaml.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// TokenAddress is the address the token is deployed at.
func (c *Config) TokenAddress() vtk.Address {
	return vtk.CreateContractAddress(c.Deployer, 0)
}

// SaleAddress is the address the sale is deployed at.
func (c *Config) SaleAddress() vtk.Address {
	return vtk.CreateContractAddress(c.Deployer, 1)
}

func (c *Config) tokenMeta() token.Meta {
	meta := token.Meta{Name: c.Token.Name, Symbol: c.Token.Symbol, Decimals: c.Token.Decimals}
	if meta.Name == "" {
		meta = token.DefaultMeta
	}
	return meta
}

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(v))
}

// SaleConfig converts the document to the sale construction parameters.
func (c *Config) SaleConfig() *crowdsale.Config {
	s := c.Sale
	cfg := &crowdsale.Config{
		Wallet:          s.Wallet,
		Token:           c.TokenAddress(),
		Admin:           s.Admin,
		Cap:             bigOf(s.Cap),
		Goal:            bigOf(s.Goal),
		InvestorMinCap:  bigOf(s.InvestorMinCap),
		InvestorHardCap: bigOf(s.InvestorHardCap),
		OpeningTime:     s.OpeningTime,
		ClosingTime:     s.ClosingTime,
		InitialStage:    s.InitialStage,
		Split: crowdsale.DistributionSplit{
			TokenSale:  s.Split.TokenSale,
			Founders:   s.Split.Founders,
			Foundation: s.Split.Foundation,
			Partners:   s.Split.Partners,
		},
		FoundersFund:   s.FoundersFund,
		FoundationFund: s.FoundationFund,
		PartnersFund:   s.PartnersFund,
		ReleaseTime:    s.ReleaseTime,
		Whitelist:      c.Whitelist,
	}
	if len(s.Stages) > 0 {
		cfg.Stages = make(map[stage.Stage]stage.Config, len(s.Stages))
		for _, sc := range s.Stages {
			cfg.Stages[sc.Stage] = stage.Config{Rate: bigOf(sc.Rate), DirectForward: sc.DirectForward}
		}
	} else {
		cfg.Stages = crowdsale.DefaultStages()
		// a single rate overrides the rate of the initial stage
		if s.Rate != nil {
			sc := cfg.Stages[s.InitialStage]
			sc.Rate = bigOf(s.Rate)
			cfg.Stages[s.InitialStage] = sc
		}
	}
	return cfg
}
