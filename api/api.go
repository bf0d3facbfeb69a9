// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/viewtoken/crowdsale/api/accounts"
	"github.com/viewtoken/crowdsale/api/events"
	"github.com/viewtoken/crowdsale/api/middleware"
	"github.com/viewtoken/crowdsale/api/sale"
	"github.com/viewtoken/crowdsale/api/subscriptions"
	"github.com/viewtoken/crowdsale/api/token"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
	SkipLogs             bool
}

// New return api router
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	sale.New(rt).
		Mount(router, "/sale")
	token.New(rt).
		Mount(router, "/token")
	accounts.New(rt).
		Mount(router, "/accounts")

	closeSubs := func() {}
	if !opts.SkipLogs && rt.LogDB() != nil {
		events.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
		subs := subscriptions.New(rt, origins)
		subs.Mount(router, "/subscriptions")
		closeSubs = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, closeSubs // subscriptions handles hijacked conns, which need to be closed
}
