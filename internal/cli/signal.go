package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals stop the long-running commands (serve, mcp over SSE).
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NotifyShutdown returns a context cancelled on the first shutdown signal
// or when parent is done. Callers must call stop to release the handler.
func NotifyShutdown(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, ShutdownSignals...)
}
