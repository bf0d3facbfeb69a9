// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewtoken/crowdsale/api/events"
	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/genesis"
	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/metrics"
	"github.com/viewtoken/crowdsale/runtime"
	"github.com/viewtoken/crowdsale/state"
	"github.com/viewtoken/crowdsale/vtk"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

const now = 1_700_000_000

type testServer struct {
	*httptest.Server
	rt  *runtime.Runtime
	cfg *genesis.Config
	clk *clock.Manual
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	ldb, err := logdb.NewMem()
	require.NoError(t, err)

	cfg := genesis.DefaultConfig(now)
	clk := clock.NewManual(now)
	st := state.New(db)
	tk := token.New(cfg.TokenAddress(), st)
	rt, err := runtime.New(st, crowdsale.New(cfg.SaleAddress(), st, tk, clk), tk, ldb, clk)
	require.NoError(t, err)
	require.NoError(t, rt.Execute("deploy", func() error {
		_, _, err := genesis.Deploy(cfg, st, clk)
		return err
	}))

	var reqLogs atomic.Bool
	handler, closeFunc := New(rt, Options{
		AllowedOrigins:  "*",
		EnableReqLogger: &reqLogs,
		EnableMetrics:   true,
		LogsLimit:       100,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFunc()
		ts.Close()
		ldb.Close()
		db.Close()
	})
	return &testServer{Server: ts, rt: rt, cfg: cfg, clk: clk}
}

func (ts *testServer) get(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func (ts *testServer) post(t *testing.T, path string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func investor(i int) vtk.Address {
	return genesis.DevAccounts()[6+i].Address
}

func ether(n int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(vtk.EtherOf(n))
}

func decodeRevert(t *testing.T, body []byte) utils.RevertResponse {
	var res utils.RevertResponse
	require.NoError(t, json.Unmarshal(body, &res), string(body))
	return res
}

func TestSaleAPI(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.cfg.Sale.Admin

	body, code := ts.get(t, "/sale")
	require.Equal(t, http.StatusOK, code, string(body))
	var summary struct {
		Address vtk.Address `json:"address"`
		Stage   string      `json:"stage"`
		IsOpen  bool        `json:"isOpen"`
		Funds   []any       `json:"funds"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, ts.cfg.SaleAddress(), summary.Address)
	assert.Equal(t, "PreICO", summary.Stage)
	assert.False(t, summary.IsOpen)
	assert.Len(t, summary.Funds, 3)

	purchase := map[string]any{"purchaser": investor(0), "value": ether(1)}
	body, code = ts.post(t, "/sale/purchases", purchase)
	assert.Equal(t, http.StatusConflict, code)
	res := decodeRevert(t, body)
	assert.Equal(t, "NotOpen", res.Kind)
	assert.True(t, strings.HasPrefix(res.Data, "0x08c379a0"))

	ts.clk.Set(ts.cfg.Sale.OpeningTime)
	body, code = ts.post(t, "/sale/purchases", purchase)
	require.Equal(t, http.StatusOK, code, string(body))
	var issued struct {
		Tokens    math.HexOrDecimal256 `json:"tokens"`
		Stage     string               `json:"stage"`
		Forwarded bool                 `json:"forwarded"`
	}
	require.NoError(t, json.Unmarshal(body, &issued))
	assert.Equal(t, vtk.EtherOf(500).String(), (*big.Int)(&issued.Tokens).String())
	assert.Equal(t, "PreICO", issued.Stage)
	assert.True(t, issued.Forwarded)

	_, code = ts.post(t, "/sale/purchases", map[string]any{"purchaser": investor(0)})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = ts.post(t, "/sale/purchases", map[string]any{"buyer": investor(0)})
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = ts.post(t, "/sale/stage", map[string]any{"caller": investor(0), "stage": "ICO"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized", decodeRevert(t, body).Kind)
	body, code = ts.post(t, "/sale/stage", map[string]any{"caller": admin, "stage": "ICO"})
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = ts.post(t, "/sale/purchases", map[string]any{"purchaser": investor(1), "value": ether(2)})
	require.Equal(t, http.StatusOK, code, string(body))

	var amt struct {
		Address vtk.Address          `json:"address"`
		Amount  math.HexOrDecimal256 `json:"amount"`
	}
	body, code = ts.get(t, "/sale/contributions/"+investor(0).String())
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &amt))
	assert.Equal(t, vtk.EtherOf(1).String(), (*big.Int)(&amt.Amount).String())

	body, code = ts.get(t, "/sale/deposits/"+investor(1).String())
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &amt))
	assert.Equal(t, vtk.EtherOf(2).String(), (*big.Int)(&amt.Amount).String())

	body, code = ts.get(t, "/sale/whitelist/"+investor(0).String())
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(body), `"whitelisted":true`)

	_, code = ts.get(t, "/sale/contributions/0x01")
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = ts.post(t, "/sale/finalize", map[string]any{"caller": admin})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NotClosed", decodeRevert(t, body).Kind)

	ts.clk.Set(ts.cfg.Sale.ClosingTime + 1)
	body, code = ts.post(t, "/sale/finalize", map[string]any{"caller": admin})
	require.Equal(t, http.StatusOK, code, string(body))
	var outcome struct {
		GoalReached bool `json:"goalReached"`
	}
	require.NoError(t, json.Unmarshal(body, &outcome))
	assert.False(t, outcome.GoalReached)

	body, code = ts.post(t, "/sale/refunds", map[string]any{"investor": investor(1)})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &amt))
	assert.Equal(t, vtk.EtherOf(2).String(), (*big.Int)(&amt.Amount).String())

	body, code = ts.post(t, "/sale/refunds", map[string]any{"investor": investor(1)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "NothingToRefund", decodeRevert(t, body).Kind)

	var account struct {
		Balance math.HexOrDecimal256 `json:"balance"`
	}
	body, code = ts.get(t, "/accounts/"+investor(1).String())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, vtk.EtherOf(1000).String(), (*big.Int)(&account.Balance).String())

	_, code = ts.post(t, "/sale/timelocks/"+investor(0).String()+"/release", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestTokenAPI(t *testing.T) {
	ts := newTestServer(t)
	ts.clk.Set(ts.cfg.Sale.OpeningTime)
	_, err := ts.rt.BuyTokens(investor(0), investor(2), vtk.EtherOf(1))
	require.NoError(t, err)

	body, code := ts.get(t, "/token")
	require.Equal(t, http.StatusOK, code, string(body))
	var info struct {
		Address     vtk.Address          `json:"address"`
		Symbol      string               `json:"symbol"`
		Decimals    uint8                `json:"decimals"`
		TotalSupply math.HexOrDecimal256 `json:"totalSupply"`
		Paused      bool                 `json:"paused"`
		Owner       vtk.Address          `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, ts.cfg.TokenAddress(), info.Address)
	assert.Equal(t, "VTK", info.Symbol)
	assert.Equal(t, uint8(18), info.Decimals)
	assert.Equal(t, vtk.EtherOf(500).String(), (*big.Int)(&info.TotalSupply).String())
	assert.True(t, info.Paused)
	assert.Equal(t, ts.cfg.SaleAddress(), info.Owner)

	var balance struct {
		Balance math.HexOrDecimal256 `json:"balance"`
	}
	body, code = ts.get(t, "/token/balances/"+investor(2).String())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &balance))
	assert.Equal(t, vtk.EtherOf(500).String(), (*big.Int)(&balance.Balance).String())
}

func TestEventsAPI(t *testing.T) {
	ts := newTestServer(t)
	ts.clk.Set(ts.cfg.Sale.OpeningTime)
	for i := 0; i < 3; i++ {
		_, err := ts.rt.BuyTokens(investor(i), investor(i), vtk.EtherOf(1))
		require.NoError(t, err)
	}

	name := "TokensPurchased"
	body, code := ts.post(t, "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Name: &name}},
		Order:       logdb.DESC,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	var evs []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &evs))
	require.Len(t, evs, 3)
	assert.Equal(t, investor(2), evs[0].Subject)
	assert.Equal(t, uint64(4), evs[0].Meta.TxNumber)
	assert.Equal(t, "buyTokens", evs[0].Meta.Op)
	assert.Equal(t, ts.cfg.SaleAddress(), evs[0].Address)
	assert.Equal(t, vtk.EtherOf(500).String(), evs[0].Fields["tokens"])

	from := uint64(3)
	body, code = ts.post(t, "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Name: &name}},
		Range:       &events.Range{Unit: logdb.TxNumber, From: &from},
	})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &evs))
	assert.Len(t, evs, 2)

	_, code = ts.post(t, "/logs/event", &events.EventFilter{Options: &events.Options{Limit: 1000}})
	assert.Equal(t, http.StatusForbidden, code)

	to := uint64(1)
	_, code = ts.post(t, "/logs/event", &events.EventFilter{Range: &events.Range{From: &from, To: &to}})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = ts.post(t, "/logs/event", map[string]any{"order": "sideways"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSubscribeEvents(t *testing.T) {
	ts := newTestServer(t)
	ts.clk.Set(ts.cfg.Sale.OpeningTime)

	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/event",
		RawQuery: fmt.Sprintf("pos=%d&name=TokensPurchased", ts.rt.TxNumber()),
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	_, err = ts.rt.BuyTokens(investor(0), investor(1), vtk.EtherOf(1))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev events.FilteredEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "TokensPurchased", ev.Name)
	assert.Equal(t, investor(1), ev.Subject)
	assert.Equal(t, uint64(2), ev.Meta.TxNumber)
	assert.Equal(t, vtk.EtherOf(1).String(), (*big.Int)(ev.Amount).String())

	bad := u
	bad.RawQuery = "pos=abc"
	_, resp, err = websocket.DefaultDialer.Dial(bad.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t)
	ts.get(t, "/sale")
	ts.get(t, "/accounts/0x")

	families, err := metrics.Gatherer().Gather()
	require.NoError(t, err)
	codes := map[string]bool{}
	for _, f := range families {
		if f.GetName() != "crowdsale_api_request_count" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			codes[labels["name"]+" "+labels["code"]] = true
		}
	}
	assert.True(t, codes["sale 200"])
	assert.True(t, codes["accounts_address 400"])
}
