package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lunchctl",
	Short: "Operator tools for the lunch log backend",
	Long: `lunchctl runs restaurant enrichment and prints recommendations against the
configured database. Configuration is read from the environment or .env files.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(enrichCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(recommendCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
