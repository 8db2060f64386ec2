package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/museqc/internal/ports/primary"
	"github.com/example/museqc/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [maxPerBatch] [maxTotal]",
		Short: "Run one pipeline pass over the upload buckets",
		Long: `Run one full pipeline pass: list the configured bucket roots, download
the oldest unprocessed recordings in batches, run the signal quality
analyzer on each batch and persist the results.

Batch bounds fall back to the configured defaults when omitted or
malformed.

Examples:
  museqc run
  museqc run 10
  museqc run 10 50`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := wire.Load()
			if err != nil {
				return err
			}

			req := primary.RunCycleRequest{
				MaxPerBatch: intArg(args, 0, cfg.MaxPerBatch),
				MaxTotal:    intArg(args, 1, cfg.MaxTotal),
			}

			svc, err := wire.PipelineService(ctx)
			if err != nil {
				return err
			}

			resp, err := svc.RunCycle(ctx, req)
			if err != nil {
				return fmt.Errorf("pipeline pass failed: %w", err)
			}

			fmt.Printf("✓ Pipeline pass complete\n")
			fmt.Printf("  Listed:      %d\n", resp.Listed)
			fmt.Printf("  Eligible:    %d\n", resp.Eligible)
			fmt.Printf("  Registered:  %d\n", resp.Registered)
			fmt.Printf("  Downloaded:  %d\n", resp.Downloaded)
			fmt.Printf("  Analyzed:    %d\n", resp.Analyzed)
			if resp.Quarantined > 0 {
				color.New(color.FgYellow).Printf("  Quarantined: %d\n", resp.Quarantined)
			}
			return nil
		},
	}

	return cmd
}

// intArg parses the positional argument at i, falling back to def when the
// argument is missing or not a positive integer.
func intArg(args []string, i, def int) int {
	if i >= len(args) {
		return def
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		color.New(color.FgYellow).Printf("ignoring invalid bound %q, using %d\n", args[i], def)
		return def
	}
	return n
}
