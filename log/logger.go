// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12

	levelMaxVerbosity slog.Level = LevelTrace
)

// FromLegacyLevel converts the 0..9 verbosity of the command line into a slog level.
// 0 silences everything but crit, 3 is info, 5 and above is trace.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= 0:
		return LevelCrit
	case lvl == 1:
		return LevelError
	case lvl == 2:
		return LevelWarn
	case lvl == 3:
		return LevelInfo
	case lvl == 4:
		return LevelDebug
	}
	return LevelTrace
}

// LevelAlignedString returns a 5-character string containing the name of a level.
func LevelAlignedString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO "
	case slog.LevelWarn:
		return "WARN "
	case slog.LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT "
	}
	return "unknown"
}

// LevelString returns a short lower case name of a level.
func LevelString(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trce"
	case slog.LevelDebug:
		return "dbug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "eror"
	case LevelCrit:
		return "crit"
	}
	return "unknown"
}

// Logger writes key/value pairs to a Handler.
type Logger interface {
	// With returns a new Logger that has this logger's attributes plus the given attributes
	With(ctx ...any) Logger

	// New is an alias of With.
	New(ctx ...any) Logger

	Log(level slog.Level, msg string, ctx ...any)
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs a message at the crit level and exits with status 1.
	Crit(msg string, ctx ...any)

	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the specified handler set.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) Log(level slog.Level, msg string, attrs ...any) {
	l.write(level, msg, attrs...)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(slog.LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(slog.LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(slog.LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(slog.LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

type rootLogger struct{ Logger }

var root atomic.Value

func init() {
	root.Store(rootLogger{NewLogger(DiscardHandler())})
}

// SetDefault sets the default global logger.
func SetDefault(l Logger) {
	root.Store(rootLogger{l})
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(rootLogger).Logger
}

// WithContext returns a logger that forwards to the current root logger with
// the given context attached. The root is resolved at every call, so package
// level loggers follow SetDefault.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() Logger {
	return Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger {
	return l.With(ctx...)
}

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.resolve().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }
func (l *lazyLogger) Handler() slog.Handler        { return Root().Handler() }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
