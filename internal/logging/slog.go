// slog.go adapts log/slog to Logger. Attributes that could carry clipboard
// contents are redacted before they reach a handler.

package logging

import (
	"context"
	"io"
	"log/slog"
)

// Redacted replaces the value of any attribute named in redactedKeys.
const Redacted = "[redacted]"

var redactedKeys = map[string]bool{
	"payload":   true,
	"plaintext": true,
	"data":      true,
}

// SlogLogger is the Logger used everywhere outside tests.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l as is; no redaction is added.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// New writes text records to w at Info, or Debug when debug is set.
func New(w io.Writer, debug bool) *SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: redact})
	return NewSlogLogger(slog.New(h))
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if redactedKeys[a.Key] {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// Nop discards everything.
func Nop() *SlogLogger {
	return New(io.Discard, false)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, args...)
}

// With returns a child logger; component tags are attached this way.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
