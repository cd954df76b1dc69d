package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/config"
)

var evaluateJSON bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate farm power for every scenario in the case",
	Example: `  # Evaluate a case and print per-scenario farm power
  wakectl evaluate --case farm.yaml

  # Machine-readable output
  wakectl evaluate --case farm.yaml --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := loadBatch()
		if err != nil {
			return err
		}

		solver := wake.NewSolver()
		results, err := solver.Evaluate(batch)
		if err != nil {
			return err
		}

		if evaluateJSON {
			rows := make([]map[string]any, len(results))
			for i, res := range results {
				cond := batch.Scenarios[i].Condition
				rows[i] = map[string]any{
					"wind_direction":       cond.Direction,
					"wind_speed":           cond.Speed,
					"turbulence_intensity": cond.TI,
					"farm_power":           res.FarmPower,
					"turbine_powers":       res.Powers,
					"turbine_speeds":       res.Speeds,
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}

		fmt.Printf("%10s %8s %6s %16s\n", "direction", "speed", "ti", "farm power (W)")
		for i, res := range results {
			cond := batch.Scenarios[i].Condition
			fmt.Printf("%10.1f %8.1f %6.3f %16.0f\n", cond.Direction, cond.Speed, cond.TI, res.FarmPower)
		}
		return nil
	},
}

// loadBatch reads the case flag and builds the scenario batch.
func loadBatch() (wake.Batch, error) {
	if casePath == "" {
		return wake.Batch{}, fmt.Errorf("--case is required")
	}
	c, err := config.LoadCase(casePath)
	if err != nil {
		return wake.Batch{}, err
	}
	return config.BuildBatch(c)
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(evaluateCmd)
}
