// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/health"
)

// New returns the handler of the admin server, which tunes logging at
// runtime and reports health.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(getLogLevelHandler(logLevel)))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(postLogLevelHandler(logLevel)))

	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(getAPILogsHandler(apiLogs)))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(postAPILogsHandler(apiLogs)))

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(healthHandler(h)))

	return handlers.CompressHandler(router).ServeHTTP
}
