// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/viewtoken/crowdsale/api/utils"
	"github.com/viewtoken/crowdsale/health"
	"github.com/viewtoken/crowdsale/log"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type logStatus struct {
	Enabled bool `json:"enabled"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func getLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, logLevelResponse{
			CurrentLevel: log.LevelString(logLevel.Level()),
		})
	}
}

func postLogLevelHandler(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req logLevelRequest
		if err := utils.ParseJSON(r.Body, &req); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
		}
		level, ok := levels[req.Level]
		if !ok {
			return utils.BadRequest(errors.New("invalid verbosity level"))
		}
		logLevel.Set(level)
		log.Info("log level changed", "pkg", "admin", "level", req.Level)

		return utils.WriteJSON(w, logLevelResponse{
			CurrentLevel: log.LevelString(logLevel.Level()),
		})
	}
}

func getAPILogsHandler(enabled *atomic.Bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, logStatus{Enabled: enabled.Load()})
	}
}

func postAPILogsHandler(enabled *atomic.Bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req logStatus
		if err := utils.ParseJSON(r.Body, &req); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "invalid request body"))
		}
		enabled.Store(req.Enabled)
		log.Info("api logs updated", "pkg", "admin", "enabled", req.Enabled)

		return utils.WriteJSON(w, logStatus{Enabled: enabled.Load()})
	}
}

func healthHandler(h *health.Health) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		status, err := h.Status()
		if err != nil {
			return err
		}
		if !status.Healthy {
			w.Header().Set("Content-Type", utils.JSONContentType)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		return utils.WriteJSON(w, status)
	}
}
