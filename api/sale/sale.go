// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sale

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/runtime"
	"github.com/viewtoken/crowdsale/vtk"
)

type Sale struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Sale {
	return &Sale{rt}
}

func (s *Sale) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	var sum *crowdsale.Summary
	if err := s.rt.View(func() (err error) {
		sum, err = s.rt.Sale().Summary()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSummary(sum))
}

// handleGetAmount serves a per-address amount read by get.
func (s *Sale) handleGetAmount(get func(*crowdsale.Crowdsale, vtk.Address) (*big.Int, error)) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
		if err != nil {
			return err
		}
		var v *big.Int
		if err := s.rt.View(func() (err error) {
			v, err = get(s.rt.Sale(), addr)
			return
		}); err != nil {
			return err
		}
		return utils.WriteJSON(w, &Amount{Address: addr, Amount: amount(v)})
	}
}

func (s *Sale) handleGetWhitelisted(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var listed bool
	if err := s.rt.View(func() (err error) {
		listed, err = s.rt.Sale().IsWhitelisted(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"address": addr, "whitelisted": listed})
}

func (s *Sale) handlePurchase(w http.ResponseWriter, req *http.Request) error {
	var body PurchaseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Value == nil {
		return utils.BadRequest(errors.New("body: value is required"))
	}
	beneficiary := body.Purchaser
	if body.Beneficiary != nil {
		beneficiary = *body.Beneficiary
	}
	issued, err := s.rt.BuyTokens(body.Purchaser, beneficiary, (*big.Int)(body.Value))
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPurchase(issued))
}

func (s *Sale) handleSetStage(w http.ResponseWriter, req *http.Request) error {
	var body StageRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.SetCrowdsaleStage(body.Caller, body.Stage); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"stage": body.Stage})
}

func (s *Sale) handleWhitelist(w http.ResponseWriter, req *http.Request) error {
	var body WhitelistRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	added, err := s.rt.AddAddressesToWhitelist(body.Caller, body.Addresses)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"added": added})
}

func (s *Sale) handleFinalize(w http.ResponseWriter, req *http.Request) error {
	var body FinalizeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	out, err := s.rt.Finalize(body.Caller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertOutcome(out))
}

func (s *Sale) handleRefund(w http.ResponseWriter, req *http.Request) error {
	var body RefundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	refunded, err := s.rt.ClaimRefund(body.Investor)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Amount{Address: body.Investor, Amount: amount(refunded)})
}

func (s *Sale) handleRelease(w http.ResponseWriter, req *http.Request) error {
	lock, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	released, err := s.rt.ReleaseTimelock(lock)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Amount{Address: lock, Amount: amount(released)})
}

func (s *Sale) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /sale").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSummary))
	sub.Path("/contributions/{address}").
		Methods(http.MethodGet).
		Name("GET /sale/contributions/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAmount((*crowdsale.Crowdsale).GetUserContribution)))
	sub.Path("/deposits/{address}").
		Methods(http.MethodGet).
		Name("GET /sale/deposits/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAmount((*crowdsale.Crowdsale).DepositsOf)))
	sub.Path("/whitelist/{address}").
		Methods(http.MethodGet).
		Name("GET /sale/whitelist/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetWhitelisted))
	sub.Path("/purchases").
		Methods(http.MethodPost).
		Name("POST /sale/purchases").
		HandlerFunc(utils.WrapHandlerFunc(s.handlePurchase))
	sub.Path("/stage").
		Methods(http.MethodPost).
		Name("POST /sale/stage").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetStage))
	sub.Path("/whitelist").
		Methods(http.MethodPost).
		Name("POST /sale/whitelist").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWhitelist))
	sub.Path("/finalize").
		Methods(http.MethodPost).
		Name("POST /sale/finalize").
		HandlerFunc(utils.WrapHandlerFunc(s.handleFinalize))
	sub.Path("/refunds").
		Methods(http.MethodPost).
		Name("POST /sale/refunds").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRefund))
	sub.Path("/timelocks/{address}/release").
		Methods(http.MethodPost).
		Name("POST /sale/timelocks/{address}/release").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRelease))
}
