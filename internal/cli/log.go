package cli

import (
	"context"

	"github.com/charmbracelet/log"
)

// loggerKey is the context key for the CLI logger.
type loggerKey struct{}

// withLogger returns a context carrying logger.
func withLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFromContext returns the logger stored in ctx, falling back to the
// package default when none was attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
