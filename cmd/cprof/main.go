package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbjs97/cprof/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := cli.NewApp().NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(int(cli.MapExitCode(err)))
	}
}
