// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/runtime"
	"github.com/viewtoken/crowdsale/vtk"
)

// Info describes the sold token.
type Info struct {
	Address     vtk.Address          `json:"address"`
	Name        string               `json:"name"`
	Symbol      string               `json:"symbol"`
	Decimals    uint8                `json:"decimals"`
	TotalSupply math.HexOrDecimal256 `json:"totalSupply"`
	Paused      bool                 `json:"paused"`
	Owner       vtk.Address          `json:"owner"`
}

type Balance struct {
	Address vtk.Address          `json:"address"`
	Balance math.HexOrDecimal256 `json:"balance"`
}

type Token struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Token {
	return &Token{rt}
}

func (t *Token) getInfo() (*Info, error) {
	tk := t.rt.Token()
	meta, err := tk.Meta()
	if err != nil {
		return nil, err
	}
	supply, err := tk.TotalSupply()
	if err != nil {
		return nil, err
	}
	paused, err := tk.IsPaused()
	if err != nil {
		return nil, err
	}
	owner, err := tk.Owner()
	if err != nil {
		return nil, err
	}
	return &Info{
		Address:     tk.Address(),
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    meta.Decimals,
		TotalSupply: math.HexOrDecimal256(*supply),
		Paused:      paused,
		Owner:       owner,
	}, nil
}

func (t *Token) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	var info *Info
	if err := t.rt.View(func() (err error) {
		info, err = t.getInfo()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (t *Token) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var b *big.Int
	if err := t.rt.View(func() (err error) {
		b, err = t.rt.Token().BalanceOf(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Balance: math.HexOrDecimal256(*b)})
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /token").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetInfo))

	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /token/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
