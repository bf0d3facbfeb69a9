// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/viewtoken/crowdsale/admin"
	"github.com/viewtoken/crowdsale/api"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/co"
	"github.com/viewtoken/crowdsale/genesis"
	"github.com/viewtoken/crowdsale/health"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "crowdsale",
		Usage:     "View token sale controller",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "inspect",
				Usage: "print the state of a persisted sale",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					verbosityFlag,
					debugFlag,
				},
				Action: inspectAction,
			},
			{
				Name:   "default-config",
				Usage:  "print the dev sale genesis, a starting point for --config",
				Action: defaultConfigAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadGenesis(ctx, uint64(time.Now().Unix()))
	if err != nil {
		return err
	}

	instanceDir := "Memory"
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx.String(dataDirFlag.Name), cfg); err != nil {
			return err
		}
	}
	mainDB, err := openMainDB(instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	logDB, err := openLogDB(instanceDir, ctx.Bool(skipLogsFlag.Name))
	if err != nil {
		return err
	}
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	var goes co.Goes
	defer goes.Wait()
	watchCtx, stopWatch := context.WithCancel(exitSignal)
	defer stopWatch()

	healthStatus := health.New(clockTolerance)
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		goes.Go(func() { watchClock(watchCtx, clock.NTPQuery, server, healthStatus.ClockOffset) })
	}

	rt, err := initRuntime(cfg, mainDB, logDB, clock.System{})
	if err != nil {
		return err
	}
	goes.Go(func() { healthStatus.Watch(watchCtx, rt) })

	var enableReqLogger atomic.Bool
	enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeAPI := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      &enableReqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
	})
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	servers := []*server{newAPIServer(ctx.String(apiAddrFlag.Name), handler)}
	if ctx.Bool(enableMetricsFlag.Name) {
		servers = append(servers, newMetricsServer(ctx.String(metricsAddrFlag.Name)))
	}
	if ctx.Bool(enableAdminFlag.Name) {
		adminHandler := admin.New(logLevel, &enableReqLogger, healthStatus)
		servers = append(servers, newAdminServer(ctx.String(adminAddrFlag.Name), adminHandler))
	}
	for _, srv := range servers {
		if err := srv.listen(); err != nil {
			return err
		}
	}

	printStartupMessage(cfg, rt, instanceDir, servers)
	return serve(exitSignal, servers...)
}

func inspectAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	cfg, err := loadGenesis(ctx, uint64(time.Now().Unix()))
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx.String(dataDirFlag.Name), cfg)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(instanceDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	sale := newSale(cfg, mainDB, clock.System{})
	deployed, err := sale.Deployed()
	if err != nil {
		return err
	}
	if !deployed {
		return errors.Errorf("no sale deployed in %v", instanceDir)
	}
	summary, err := sale.Summary()
	if err != nil {
		return err
	}
	if ctx.Bool(debugFlag.Name) {
		spew.Fdump(os.Stdout, summary)
		return nil
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func defaultConfigAction(*cli.Context) error {
	data, err := genesis.DefaultConfig(uint64(time.Now().Unix())).Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
