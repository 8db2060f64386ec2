package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/museqc/internal/cli"
	"github.com/example/museqc/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "museqc",
		Short:   "museqc - Muse EEG recording quality pipeline",
		Version: version.String(),
		Long: `museqc ingests Muse headband EEG recordings from cloud storage, runs
the signal quality analyzer on each one and generates the monthly
per-site quality reports.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
