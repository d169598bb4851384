// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/audiobench/internal/audio"
)

const (
	opMerge = audio.OpMerge
	opMix   = audio.OpMix
)

// newOperationCmd exposes one leaf operation on arbitrary files.
func newOperationCmd(opts *rootOptions, op string) *cobra.Command {
	var out string
	short := "Concatenate A followed by B into OUT"
	if op == opMix {
		short = "Overlay A and B into OUT, as long as the longer input"
	}

	cmd := &cobra.Command{
		Use:   op + " A B -o OUT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts.configPath)
			if err != nil {
				return err
			}
			res, err := a.operation(ctx, op, args[0], args[1], out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, size: %d bytes\n", op, res.Path, res.Size)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "destination file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) operation(ctx context.Context, op, inA, inB, dest string) (*audio.Output, error) {
	fa, fb := audio.FileArtifact(inA), audio.FileArtifact(inB)
	var (
		res *audio.Output
		err error
	)
	switch op {
	case opMerge:
		res, err = a.service.Concatenate(ctx, fa, fb, dest)
	case opMix:
		res, err = a.service.Superimpose(ctx, fa, fb, dest)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	return res, nil
}
