package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gowake/wakesim/internal/optimize"
	"github.com/gowake/wakesim/internal/report"
	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/config"
)

var (
	optimizeCSV      string
	optimizeMarkdown string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search yaw offsets that maximize farm power",
	Long: `Runs the serial-refine yaw search for every scenario in the case and
prints the per-scenario uplift. The search settings come from the case
file's optimization block; absent settings use the built-in defaults.`,
	Example: `  # Optimize and print the uplift table
  wakectl optimize --case farm.yaml

  # Also write CSV and Markdown reports
  wakectl optimize --case farm.yaml --csv results.csv --markdown report.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if casePath == "" {
			return fmt.Errorf("--case is required")
		}
		c, err := config.LoadCase(casePath)
		if err != nil {
			return err
		}
		batch, err := config.BuildBatch(c)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opt := optimize.New(wake.NewSolver(), config.BuildOptions(c))
		table, err := opt.Optimize(ctx, batch)
		if err != nil {
			return err
		}

		fmt.Printf("%10s %8s %14s %14s %10s %9s\n",
			"direction", "speed", "baseline (W)", "optimized (W)", "uplift %", "converged")
		for _, row := range table {
			fmt.Printf("%10.1f %8.1f %14.0f %14.0f %10.2f %9t\n",
				row.Direction, row.Speed, row.FarmPowerBaseline, row.FarmPowerOpt,
				row.UpliftPercent(), row.Converged)
		}
		fmt.Printf("\nfrequency-weighted uplift: %.0f W\n", table.WeightedUplift())

		if optimizeCSV != "" {
			if err := os.WriteFile(optimizeCSV, []byte(report.RenderCSV(table)), 0o644); err != nil {
				return fmt.Errorf("failed to write CSV report: %w", err)
			}
		}
		if optimizeMarkdown != "" {
			md := report.RenderMarkdown(c.Name, table, time.Now().UTC())
			if err := os.WriteFile(optimizeMarkdown, []byte(md), 0o644); err != nil {
				return fmt.Errorf("failed to write Markdown report: %w", err)
			}
		}
		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeCSV, "csv", "", "write the results table as CSV to this path")
	optimizeCmd.Flags().StringVar(&optimizeMarkdown, "markdown", "", "write a Markdown report to this path")
	rootCmd.AddCommand(optimizeCmd)
}
