package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/lineup/internal/cli"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM so a long solve stops
	// cleanly and still prints the best lineup found so far upstream.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
