// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command audiobench drives concat and mix workloads through ffmpeg, either
// once from the command line or on demand over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "audiobench",
		Short:         "Benchmark audio concatenation and mixing through ffmpeg",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (YAML)")

	root.AddCommand(
		newServeCmd(opts),
		newRunCmd(opts),
		newOperationCmd(opts, opMerge),
		newOperationCmd(opts, opMix),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
