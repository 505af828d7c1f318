package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/polyglot/internal/cli"
	"codeberg.org/snonux/polyglot/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// The processor reads the configuration lazily, after InitConfig ran
	proc := processor.NewProcessor(flags)

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, proc)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	proc.Close()

	if err != nil {
		os.Exit(1)
	}
}
