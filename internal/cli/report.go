package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/museqc/internal/ports/primary"
	"github.com/example/museqc/internal/wire"
)

// ReportCmd returns the report command
func ReportCmd() *cobra.Command {
	var skipRoster bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the monthly quality reports",
		Long: `Generate the quality reports for the last finished month:
- the per-site summary table (csv and pdf)
- the per-site in-depth listings (csv and pdf)
- the number-of-days-per-participant table (csv)

Participant sites are refreshed from the roster service first unless
--skip-roster is given or no roster endpoint is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := wire.Load()
			if err != nil {
				return err
			}

			svc, err := wire.ReportService()
			if err != nil {
				return err
			}

			resp, err := svc.GenerateReports(ctx, primary.GenerateReportsRequest{
				SkipRosterRefresh: skipRoster || cfg.RosterURL == "",
			})
			if err != nil {
				return fmt.Errorf("report generation failed: %w", err)
			}

			if resp.SummarySkipped {
				fmt.Println("Summary already exists, left untouched")
			} else {
				fmt.Printf("✓ Summary: %s\n", resp.SummaryPath)
			}
			for _, path := range resp.InDepthPaths {
				fmt.Printf("✓ In-depth: %s\n", path)
			}
			fmt.Printf("✓ Days per participant: %s\n", resp.NumDaysPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipRoster, "skip-roster", false, "generate from the sites already on file")

	return cmd
}
