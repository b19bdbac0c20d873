// Package main is the entry point for the chartmap CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/chartmap/cmd"
	"github.com/huangsam/chartmap/internal/contract"
	"github.com/huangsam/chartmap/internal/log"
	"github.com/huangsam/chartmap/internal/tracking"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer tracking.CloseStore()
	defer log.Sync()

	err := cmd.Execute(ctx)
	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn stopping profiler: %v\n", perr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return contract.ExitCode(err)
}
