// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/metrics"
)

var (
	metricHTTPReqCounter       = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration      = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
	metricActiveWebsocketGauge = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

// metricsResponseWriter is a wrapper around http.ResponseWriter that captures the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (m *metricsResponseWriter) WriteHeader(code int) {
	m.statusCode = code
	m.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the wrapper.
func (m *metricsResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := m.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

// metricsMiddleware records metrics for each matched route.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route == nil || route.GetName() == "" {
			next.ServeHTTP(w, r)
			return
		}
		name := route.GetName()
		// "GET /sale/contributions/{address}" => "sale_contributions_address"
		if i := strings.IndexByte(name, ' '); i >= 0 {
			name = name[i+1:]
		}
		name = strings.Trim(strings.NewReplacer("/", "_", "{", "", "}", "").Replace(name), "_")

		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			subject := name[strings.LastIndexByte(name, '_')+1:]
			metricActiveWebsocketGauge().AddWithLabel(1, map[string]string{"subject": subject})
			defer metricActiveWebsocketGauge().AddWithLabel(-1, map[string]string{"subject": subject})
		}

		now := time.Now()
		mrw := newMetricsResponseWriter(w)
		next.ServeHTTP(mrw, r)

		labels := map[string]string{"name": name, "code": strconv.Itoa(mrw.statusCode), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(now).Milliseconds(), labels)
	})
}
