// Package main is the entry point for the prosetree command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/prosetree/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	gs := cli.NewGlobalState(ctx)
	gs.Version = version + " (" + commit + ", " + date + ")"
	code := cli.Execute(gs)
	stop()
	os.Exit(code)
}
