// Package logging builds the bridge's stderr logger. Stdout carries the
// JSON-RPC stream, so every diagnostic goes to stderr: ANSI-colored lines
// when stderr is a terminal, JSON records otherwise.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

// New returns a logger writing to stderr at the given level
// (debug, info, warn, error).
func New(level string) *slog.Logger {
	lvl := ParseLevel(level)

	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(newTermHandler(os.Stderr, lvl))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ParseLevel maps a config level string to a slog.Level. Unknown strings
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// termHandler renders compact colored log lines for interactive use.
type termHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func newTermHandler(w io.Writer, level slog.Level) *termHandler {
	return &termHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *termHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *termHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(ansiGray + r.Time.Format("15:04:05") + ansiReset + " ")

	switch {
	case r.Level >= slog.LevelError:
		b.WriteString(ansiBold + ansiRed + r.Message + ansiReset)
	case r.Level >= slog.LevelWarn:
		b.WriteString(ansiYellow + r.Message + ansiReset)
	case r.Level < slog.LevelInfo:
		b.WriteString(ansiDim + r.Message + ansiReset)
	default:
		b.WriteString(r.Message)
	}

	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	fmt.Fprintf(b, " %s%s=%v%s", ansiDim, a.Key, a.Value, ansiReset)
}

func (h *termHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *termHandler) WithGroup(name string) slog.Handler {
	// Groups are not used by the bridge; flatten them.
	return h
}
