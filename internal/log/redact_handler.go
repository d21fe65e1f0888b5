package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// contentKeys are attribute keys that carry note text.
var contentKeys = map[string]bool{
	"content": true,
	"block":   true,
	"body":    true,
	"text":    true,
	"markup":  true,
}

// MaxContentRunes is how much of a content attribute survives redaction.
const MaxContentRunes = 40

// RedactHandler wraps an slog.Handler so that logs can be shared without
// leaking the vault layout or note text. String attributes have the
// user's home directory replaced by "~", and content attributes are
// truncated to MaxContentRunes.
type RedactHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler

	// home is the home directory prefix to hide. Empty disables it.
	home string
}

// RedactOption configures a RedactHandler.
type RedactOption func(*RedactHandler)

// WithHomeDir overrides the home directory that is replaced by "~".
func WithHomeDir(home string) RedactOption {
	return func(h *RedactHandler) {
		if home == "" {
			h.home = ""
			return
		}
		h.home = filepath.Clean(home)
	}
}

// NewRedactHandler creates a RedactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler, opts ...RedactOption) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &RedactHandler{handler: handler}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		h.home = filepath.Clean(home)
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and message and passes the record
// to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, h.redactString(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are redacted before being added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// redactAttr redacts a single attribute, recursively handling groups.
func (h *RedactHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindString:
		s := a.Value.String()
		if contentKeys[strings.ToLower(a.Key)] {
			return slog.String(a.Key, truncate(s))
		}
		return slog.String(a.Key, h.redactString(s))
	case slog.KindAny:
		// errors and Stringers carry paths too
		switch v := a.Value.Any().(type) {
		case error:
			return slog.String(a.Key, h.redactString(v.Error()))
		case fmt.Stringer:
			return slog.String(a.Key, h.redactString(v.String()))
		}
	}

	return a
}

// redactString replaces every occurrence of the home directory with "~".
func (h *RedactHandler) redactString(s string) string {
	if h.home == "" || h.home == string(filepath.Separator) {
		return s
	}
	return strings.ReplaceAll(s, h.home, "~")
}

// truncate shortens s to MaxContentRunes and notes the original size.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxContentRunes {
		return s
	}
	runes := []rune(s)
	return fmt.Sprintf("%s... (%d bytes)", string(runes[:MaxContentRunes]), len(s))
}

// NewLogger creates a text logger on w with redaction.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool, opts ...RedactOption) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactHandler(textHandler, opts...))
}

// NewJSONLogger creates a JSON logger on w with redaction. Useful for
// structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool, opts ...RedactOption) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactHandler(jsonHandler, opts...))
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
