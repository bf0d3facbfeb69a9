// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/runtime"
)

// Account is the settlement view of an address.
type Account struct {
	Balance math.HexOrDecimal256 `json:"balance"`
}

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var b *big.Int
	if err := a.rt.View(func() (err error) {
		b, err = a.rt.State().GetBalance(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: math.HexOrDecimal256(*b)})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
