package main

import (
	"context"
	"os"

	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/adpollak/pngchunk/internal/chunk"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.L.WithError(err).WithField("code", chunk.ErrorCode(err)).Error("pngchunks failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "pngchunks",
		Short:         "Inspect the chunk structure of PNG files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetLevel(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newLsCmd(), newHeaderCmd(), newIdatCmd(), newSizeCmd())
	return rootCmd
}
