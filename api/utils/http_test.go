// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/builtin/reverts"
)

func serve(f utils.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	utils.WrapHandlerFunc(f)(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	rec := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, utils.M{"ok": true})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, utils.JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return utils.BadRequest(errors.New("bad body"))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad body", strings.TrimSpace(rec.Body.String()))

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return utils.HTTPError(nil, http.StatusTeapot)
	})
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = serve(func(http.ResponseWriter, *http.Request) error {
		return errors.New("disk on fire")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRevertResponse(t *testing.T) {
	rec := serve(func(http.ResponseWriter, *http.Request) error {
		return reverts.New(reverts.NotWhitelisted, "not listed")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body utils.RevertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not listed", body.Error)
	assert.Equal(t, reverts.NotWhitelisted.String(), body.Kind)
	data, err := hexutil.Decode(body.Data)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0xc3, 0x79, 0xa0}, data[:4])

	for kind, status := range map[reverts.Kind]int{
		reverts.Unauthorized:     http.StatusForbidden,
		reverts.NotClosed:        http.StatusConflict,
		reverts.AlreadyFinalized: http.StatusConflict,
		reverts.CapExceeded:      http.StatusBadRequest,
		reverts.ZeroValue:        http.StatusBadRequest,
	} {
		assert.Equal(t, status, utils.RevertStatus(kind), kind.String())
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, utils.ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, utils.ParseJSON(strings.NewReader(`{"b":1}`), &v))

	_, err := utils.ParseAddress("address", "0x12")
	assert.Error(t, err)
}
