package client

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals stop a running client.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NotifyShutdown returns a copy of parent that is cancelled on the first
// shutdown signal. The returned stop function unregisters the handler.
func NotifyShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, ShutdownSignals...)
}
