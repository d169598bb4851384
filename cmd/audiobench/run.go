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

	"github.com/ManuGH/audiobench/internal/bench"
	"github.com/ManuGH/audiobench/internal/telemetry"
)

const runAll = "all"

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <flow1|flow2|flow3|flow4|merge|mix|all>",
		Short: "Run one benchmark pattern, a bare operation, or every pattern in turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts.configPath)
			if err != nil {
				return err
			}
			tp, err := telemetry.NewProvider(ctx, a.telemetryConfig())
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			defer func() { _ = tp.Shutdown(context.Background()) }()

			return a.run(ctx, args[0], func(rep bench.Report) {
				fmt.Fprintln(cmd.OutOrStdout(), rep.String())
			})
		},
	}
}

type namedRun struct {
	name string
	fn   func(context.Context) (bench.Report, error)
}

// run executes name and hands each report to emit. "all" runs the four
// patterns in order and stops at the first failure.
func (a *app) run(ctx context.Context, name string, emit func(bench.Report)) error {
	var runs []namedRun
	switch name {
	case opMerge:
		runs = append(runs, namedRun{opMerge, a.driver.Merge})
	case opMix:
		runs = append(runs, namedRun{opMix, a.driver.Mix})
	case runAll:
		for _, p := range a.patterns() {
			runs = append(runs, a.patternRun(p))
		}
	default:
		p, err := bench.Find(a.patterns(), name)
		if err != nil {
			return err
		}
		runs = append(runs, a.patternRun(p))
	}

	for _, r := range runs {
		rep, err := r.fn(ctx)
		if err != nil {
			return fmt.Errorf("%s failed: %w", r.name, err)
		}
		emit(rep)
	}
	return nil
}

func (a *app) patternRun(p bench.Pattern) namedRun {
	return namedRun{p.Name, func(ctx context.Context) (bench.Report, error) {
		return a.driver.Run(ctx, p)
	}}
}
