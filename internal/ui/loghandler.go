package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// CLIHandler is a slog.Handler that prints one "LEVEL message key=value"
// line per record, with the level colored when color is enabled.
type CLIHandler struct {
	mu      *sync.Mutex
	w       io.Writer
	level   slog.Leveler
	attrs   []slog.Attr
	group   string
	noColor bool
}

// NewCLIHandler creates a handler writing to w. Records below level are
// dropped; pass a *slog.LevelVar to change the level later.
func NewCLIHandler(w io.Writer, level slog.Leveler, noColor bool) *CLIHandler {
	return &CLIHandler{
		mu:      &sync.Mutex{},
		w:       w,
		level:   level,
		noColor: noColor,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CLIHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as a single line.
func (h *CLIHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.levelLabel(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	// Handler attrs are qualified when added.
	for _, a := range h.attrs {
		appendAttr(&b, a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.qualifiedKey(a.Key), a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs returns a new handler with the given attributes.
func (h *CLIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		qualified[i] = slog.Attr{Key: h.qualifiedKey(a.Key), Value: a.Value}
	}
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, qualified...)

	nh := *h
	nh.attrs = newAttrs
	return &nh
}

// WithGroup returns a new handler with the given group name.
func (h *CLIHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.group = h.qualifiedKey(name)
	return &nh
}

func appendAttr(b *strings.Builder, key string, v slog.Value) {
	if key == "" {
		return
	}
	fmt.Fprintf(b, " %s=%s", key, formatValue(v.Resolve()))
}

func (h *CLIHandler) qualifiedKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgCyan),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

func (h *CLIHandler) levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if h.noColor {
		return label
	}
	c, ok := levelColors[level]
	if !ok {
		return label
	}
	return c.Sprint(label)
}

func formatValue(v slog.Value) string {
	s := v.String()
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// ParseLogLevel converts a string log level to slog.Level.
// Accepted values: "debug", "info", "warn", "error" (case-insensitive).
// Defaults to slog.LevelInfo for unrecognized values.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
