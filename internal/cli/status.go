package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/museqc/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show pipeline totals and the download watermark",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			svc, err := wire.PipelineService(ctx)
			if err != nil {
				return err
			}

			status, err := svc.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to read pipeline status: %w", err)
			}

			fmt.Println("Muse QC Pipeline Status")
			fmt.Println()
			fmt.Printf("  Collections:   %d\n", status.Total)
			fmt.Printf("  Awaiting edf:  %d\n", status.AwaitingEdf)
			fmt.Printf("  With quality:  %d\n", status.WithQuality)
			fmt.Printf("  Failed:        %d\n", status.Failed)
			if status.HasDownloads {
				fmt.Printf("  Last download: %s\n", status.LastDownload.Format(time.DateTime))
			} else {
				fmt.Println("  Last download: (never)")
			}
			return nil
		},
	}

	return cmd
}
