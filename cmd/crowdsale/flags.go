// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		EnvVar: "CROWDSALE_CONFIG",
		Usage:  "path to the sale genesis file (yaml), the dev sale is used if not set",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		EnvVar: "CROWDSALE_DATA_DIR",
		Value:  defaultDataDir(),
		Usage:  "directory for sale databases",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save state to disk instead of keeping it in memory",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		EnvVar: "CROWDSALE_API_ADDR",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		EnvVar: "CROWDSALE_API_CORS",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with execution time(ms) above threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all API requests answered with a server error",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip writing event logs (/logs API and subscriptions will be disabled)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		EnvVar: "CROWDSALE_METRICS_ADDR",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		EnvVar: "CROWDSALE_ADMIN_ADDR",
		Value:  "localhost:2113",
		Usage:  "admin service listening address",
	}
	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		EnvVar: "CROWDSALE_NTP_SERVER",
		Value:  "pool.ntp.org",
		Usage:  "NTP server to check the local clock against (disabled if empty)",
	}
	debugFlag = cli.BoolFlag{
		Name:  "debug",
		Usage: "dump the full sale state",
	}
)
