package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLogEnv selects the default verbosity for the whole harness.
const DefaultLogEnv = "DEFAULT_LOG"

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// New builds the process-wide logger: a text handler writing to w with
// source locations enabled, so every line carries its call site.
func New(w io.Writer, level slog.Level) *SlogLogger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	return NewSlogLogger(slog.New(h))
}

// LevelFromEnv reads the DEFAULT_LOG environment variable. Unset or
// unrecognized values fall back to info.
func LevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv(DefaultLogEnv)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
