// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/viewtoken/crowdsale/builtin/token"
	"github.com/viewtoken/crowdsale/clock"
	"github.com/viewtoken/crowdsale/crowdsale"
	"github.com/viewtoken/crowdsale/genesis"
	"github.com/viewtoken/crowdsale/log"
	"github.com/viewtoken/crowdsale/logdb"
	"github.com/viewtoken/crowdsale/lvldb"
	"github.com/viewtoken/crowdsale/metrics"
	sruntime "github.com/viewtoken/crowdsale/runtime"
	"github.com/viewtoken/crowdsale/state"
)

const (
	clockCheckInterval = time.Hour
	clockTolerance     = 5 * time.Second
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity := ctx.Int(verbosityFlag.Name)
	if verbosity < 0 || verbosity > 9 {
		return nil, errors.Errorf("invalid verbosity %d, must be 0-9", verbosity)
	}
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromLegacyLevel(verbosity))

	log.SetDefault(log.NewLogger(newLogHandler(os.Stderr, lvl, ctx.Bool(jsonLogsFlag.Name))))
	return lvl, nil
}

func newLogHandler(w io.Writer, lvl *slog.LevelVar, jsonLogs bool) slog.Handler {
	if jsonLogs {
		return log.JSONHandlerWithLevel(w, lvl)
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
	}
	return log.NewTerminalHandlerWithLevel(w, lvl, useColor)
}

// loadGenesis reads the genesis given by --config, or builds the dev sale
// opening shortly after now.
func loadGenesis(ctx *cli.Context, now uint64) (*genesis.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return genesis.DefaultConfig(now), nil
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis [%v]", path)
	}
	return cfg, nil
}

func makeInstanceDir(dataDir string, cfg *genesis.Config) (string, error) {
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", cfg.SaleAddress().Bytes()[:8]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(instanceDir string) (*lvldb.LevelDB, error) {
	if instanceDir == "Memory" {
		return lvldb.NewMem()
	}
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              16,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	return db, nil
}

// openLogDB returns a nil db when logs are skipped.
func openLogDB(instanceDir string, skip bool) (*logdb.LogDB, error) {
	if skip {
		return nil, nil
	}
	if instanceDir == "Memory" {
		return logdb.NewMem()
	}
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open log database [%v]", dir)
	}
	return db, nil
}

func newSale(cfg *genesis.Config, db *lvldb.LevelDB, clk clock.Clock) *crowdsale.Crowdsale {
	st := state.New(db)
	return crowdsale.New(cfg.SaleAddress(), st, token.New(cfg.TokenAddress(), st), clk)
}

// initRuntime opens the sale kept in db, deploying it from cfg on first run.
func initRuntime(cfg *genesis.Config, db *lvldb.LevelDB, logDB *logdb.LogDB, clk clock.Clock) (*sruntime.Runtime, error) {
	st := state.New(db)
	tk := token.New(cfg.TokenAddress(), st)
	sale := crowdsale.New(cfg.SaleAddress(), st, tk, clk)

	rt, err := sruntime.New(st, sale, tk, logDB, clk)
	if err != nil {
		return nil, err
	}
	deployed, err := sale.Deployed()
	if err != nil {
		return nil, err
	}
	if deployed {
		logger.Info("sale loaded", "sale", cfg.SaleAddress(), "tx", rt.TxNumber())
		return rt, nil
	}
	if err := rt.Execute("deploy", func() error {
		_, _, err := genesis.Deploy(cfg, st, clk)
		return err
	}); err != nil {
		return nil, errors.WithMessage(err, "deploy sale")
	}
	return rt, nil
}

// watchClock checks the local clock against server until ctx is done,
// passing each measured offset to observe.
func watchClock(ctx context.Context, query clock.QueryFunc, server string, observe func(time.Duration)) {
	ticker := time.NewTicker(clockCheckInterval)
	defer ticker.Stop()
	for {
		if offset, err := clock.CheckDrift(query, server, clockTolerance); err == nil {
			observe(offset)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type server struct {
	name     string
	addr     string
	path     string
	srv      *http.Server
	listener net.Listener
}

func newAPIServer(addr string, handler http.HandlerFunc) *server {
	return &server{
		name: "API",
		addr: addr,
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
	}
}

func newMetricsServer(addr string) *server {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return &server{
		name: "metrics",
		addr: addr,
		path: "metrics",
		srv:  &http.Server{Handler: handlers.CompressHandler(router), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
	}
}

func newAdminServer(addr string, handler http.HandlerFunc) *server {
	return &server{
		name: "admin",
		addr: addr,
		path: "admin",
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
	}
}

func (s *server) listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Wrapf(err, "listen %v addr [%v]", s.name, s.addr)
	}
	s.listener = listener
	return nil
}

func (s *server) URL() string {
	return "http://" + s.listener.Addr().String() + "/" + s.path
}

// serve runs the servers until ctx is done or one of them fails.
func serve(ctx context.Context, servers ...*server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			if err := s.srv.Serve(s.listener); err != http.ErrServerClosed {
				return errors.Wrapf(err, "%v server", s.name)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		for _, s := range servers {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.srv.Shutdown(shutdownCtx)
			cancel()
		}
		return nil
	})
	return g.Wait()
}

func printStartupMessage(cfg *genesis.Config, rt *sruntime.Runtime, instanceDir string, servers []*server) {
	fmt.Printf(`Starting crowdsale %v
    Sale         [ %v ]
    Token        [ %v ]
    Window       [ %v - %v ]
    Last tx      [ #%v ]
    Instance dir [ %v ]
`,
		fullVersion(),
		cfg.SaleAddress(),
		cfg.TokenAddress(),
		time.Unix(int64(cfg.Sale.OpeningTime), 0).UTC(), time.Unix(int64(cfg.Sale.ClosingTime), 0).UTC(),
		rt.TxNumber(),
		instanceDir)
	for _, s := range servers {
		fmt.Printf("    %-12s [ %v ]\n", s.name, s.URL())
	}
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.viewtoken.crowdsale")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.viewtoken.crowdsale")
		}
		return filepath.Join(home, ".org.viewtoken.crowdsale")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
