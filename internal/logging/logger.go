// Package logging defines the structured-logging contract for the harness
// and its slog-backed implementation. The logger is constructed once at
// process start and passed down explicitly; there is no package-level state.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "file uploaded", "artifact", name)
type Logger interface {
	// Debug logs connection-level detail useful when diagnosing a scenario.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
