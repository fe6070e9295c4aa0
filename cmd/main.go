package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/secretsanta/internal/cli"
	"github.com/okian/secretsanta/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Root context with cancel on SIGINT/SIGTERM so an endless draw can be interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		_ = logger.Sync()
	}()

	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		cli.PrintError(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}
