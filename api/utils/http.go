// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/builtin/reverts"
	"github.com/viewtoken/crowdsale/vtk"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError creates an error responded with the given status.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// RevertResponse is the body responded for a rejected operation.
type RevertResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Data  string `json:"data"` // ABI encoded Error(string)
}

// RevertStatus maps a revert kind to a response status.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.Unauthorized:
		return http.StatusForbidden
	case reverts.NotOpen, reverts.NotClosed, reverts.AlreadyFinalized, reverts.InvalidState,
		reverts.Paused, reverts.Locked:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// HandlerFunc is like http.HandlerFunc but returns an error.
// An httpError is responded with its status, a revert error with
// RevertStatus and a revert body, anything else with 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var (
			he *httpError
			re *reverts.Error
		)
		switch {
		case errors.As(err, &he):
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
		case errors.As(err, &re):
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(RevertStatus(re.Kind()))
			_ = json.NewEncoder(w).Encode(&RevertResponse{
				Error: err.Error(),
				Kind:  re.Kind().String(),
				Data:  hexutil.Encode(re.Bytes()),
			})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parses a JSON object in strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParseAddress parses a path or query parameter, failing with 400.
func ParseAddress(name, s string) (vtk.Address, error) {
	addr, err := vtk.ParseAddress(s)
	if err != nil {
		return vtk.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// M shortcut for type map[string]any.
type M map[string]any
