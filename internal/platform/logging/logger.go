// Package logging is the logger the rest of the service depends on, with an
// slog backend in slog.go.
package logging

import "context"

// Logger writes leveled records. Every call takes the request context first,
// then a message and alternating attribute keys and values:
//
//	log.Warn(ctx, "content cache read failed", "key", key, "error", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds attributes to every record of the returned logger.
	With(args ...any) Logger
}
