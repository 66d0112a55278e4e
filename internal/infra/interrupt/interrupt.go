// Package interrupt cancels a context on process termination signals.
//
// Commands pass the returned context down through the request layer, so a
// Ctrl-C during a retry backoff or an in-flight request aborts promptly
// instead of finishing the schedule. A second signal while cleanup is in
// progress terminates the process immediately.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Context returns a copy of parent that is canceled on SIGINT or SIGTERM.
// The returned stop function releases the signal handlers; after the first
// signal a second one exits the process with the conventional 130 status.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}
		<-sigCh
		os.Exit(130)
	}()

	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
