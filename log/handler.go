// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (h *discardHandler) WithGroup(_ string) slog.Handler              { return h }
func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler         { return h }

// TerminalHandler formats records for humans:
//
//	INFO [01-02|15:04:05.000] sale finalized                           pkg=crowdsale goalReached=true
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandler returns a terminal handler printing every level.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return NewTerminalHandlerWithLevel(wr, &level, useColor)
}

// NewTerminalHandlerWithLevel returns a terminal handler printing records at or above lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		mu:       new(sync.Mutex),
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	buf := h.format(r)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf)
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		mu:       h.mu,
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func levelColor(l slog.Level) int {
	switch {
	case l >= LevelCrit:
		return 35
	case l >= slog.LevelError:
		return 31
	case l >= slog.LevelWarn:
		return 33
	case l >= slog.LevelInfo:
		return 32
	case l >= slog.LevelDebug:
		return 36
	}
	return 34
}

func (h *TerminalHandler) format(r slog.Record) []byte {
	buf := make([]byte, 0, 128)
	lvl := LevelAlignedString(r.Level)
	if h.useColor {
		buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m", levelColor(r.Level), lvl)
	} else {
		buf = append(buf, lvl...)
	}
	buf = append(buf, " ["...)
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)
	if pad := termMsgJust - len(r.Message); pad > 0 && (len(h.attrs) > 0 || r.NumAttrs() > 0) {
		for i := 0; i < pad; i++ {
			buf = append(buf, ' ')
		}
	}

	appendAttr := func(a slog.Attr) bool {
		a = builtinReplace(nil, a, true)
		buf = append(buf, ' ')
		if h.useColor {
			buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m=", levelColor(r.Level), a.Key)
		} else {
			buf = append(buf, a.Key...)
			buf = append(buf, '=')
		}
		buf = append(buf, formatValue(a.Value)...)
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	return append(buf, '\n')
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return fmt.Sprintf("%q", s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return fmt.Sprintf("%q", err.Error())
		}
	}
	return v.String()
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r > '~' {
			return true
		}
	}
	return false
}

type leveler struct{ minLevel *slog.LevelVar }

func (l *leveler) Level() slog.Level {
	return l.minLevel.Level()
}

// JSONHandler returns a handler which prints records in JSON format.
func JSONHandler(wr io.Writer) slog.Handler {
	var level slog.LevelVar
	level.Set(levelMaxVerbosity)
	return JSONHandlerWithLevel(wr, &level)
}

// JSONHandlerWithLevel returns a JSON handler printing records at or above level.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceJSON,
		Level:       &leveler{level},
	})
}

// LogfmtHandlerWithLevel returns a logfmt handler printing records at or above level.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceLogfmt,
		Level:       &leveler{level},
	})
}

func builtinReplaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, true)
}

func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(nil, attr, false)
}

func builtinReplace(_ []string, attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormat))
		}
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
