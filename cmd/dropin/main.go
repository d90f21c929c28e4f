package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dropin/internal/cli"
	"github.com/arthur-debert/dropin/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if r, rerr := output.NewRenderer(os.Stderr, output.FormatText, output.ColorEnabled(os.Stderr)); rerr == nil {
			_ = r.RenderError(err)
		}
		stop()
		os.Exit(1)
	}
}
