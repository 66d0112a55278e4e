// Package main provides the entry point for skycli.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skycli/skycli/internal/cli/command"
	"github.com/skycli/skycli/internal/infra/interrupt"
)

func main() {
	ctx, stop := interrupt.Context(context.Background())
	defer stop()

	app := command.App()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
