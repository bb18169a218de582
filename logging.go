package roam

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes human-readable lines through slog. Debug output can be
// switched on and off at runtime.
type DefaultLogger struct {
	level  *slog.LevelVar
	base   slog.Level
	prefix string
	lg     *slog.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	level := "info"
	if debug {
		level = "debug"
	}
	return NewLogger(prefix, level, os.Stdout, os.Stderr)
}

// NewLogger logs at level ("debug", "info", "warn" or "error"); warnings and
// errors go to errOut.
func NewLogger(prefix, level string, out, errOut io.Writer) *DefaultLogger {
	base := parseLevel(level)
	lv := new(slog.LevelVar)
	lv.Set(base)
	return &DefaultLogger{
		level:  lv,
		base:   base,
		prefix: prefix,
		lg:     slog.New(&consoleHandler{out: out, errOut: errOut, level: lv, mu: new(sync.Mutex)}),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	return l.level.Level() <= slog.LevelDebug
}

// SetDebug lowers the level to debug, or restores the configured level (at
// least info) when disabled.
func (l *DefaultLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(max(l.base, slog.LevelInfo))
}

// Slog exposes the underlying logger for structured attributes.
func (l *DefaultLogger) Slog() *slog.Logger {
	return l.lg
}

func (l *DefaultLogger) logf(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.lg.Enabled(ctx, level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = "[" + l.prefix + "] " + msg
	}
	l.lg.Log(ctx, level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(slog.LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(slog.LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(slog.LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(slog.LevelError, format, args...) }

func parseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler outputs lines like:
//
//	12:00:00 INFO  [roam] level built  triangles=226
type consoleHandler struct {
	out    io.Writer
	errOut io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
	mu     *sync.Mutex
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("%s %s %s", r.Time.Format(time.TimeOnly), levelTag(r.Level), r.Message)
	for _, a := range h.attrs {
		line += formatAttr(h.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += formatAttr(h.group, a)
		return true
	})
	line += "\n"

	w := h.out
	if r.Level >= slog.LevelWarn && h.errOut != nil {
		w = h.errOut
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(w, line)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr{}, h.attrs...)
	c.group = name
	if h.group != "" {
		c.group = h.group + "." + name
	}
	return &c
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return fmt.Sprintf("  %s=%v", key, a.Value)
}

// LoggingModule installs a DefaultLogger as a resource.
type LoggingModule struct {
	Prefix string
	Level  string
	// Output defaults to stdout, with warnings and errors on stderr.
	Output io.Writer
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)
	if m.Output != nil {
		out, errOut = m.Output, m.Output
	}
	app.addResources(NewLogger(m.Prefix, m.Level, out, errOut))
}

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
