package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gowake/wakesim/internal/wake"
)

var (
	fieldOrientation string
	fieldScenario    int
	fieldHeight      float64
	fieldCrossStream float64
	fieldDownstream  float64
	fieldBounds      []float64
	fieldRes         []int
)

var fieldCmd = &cobra.Command{
	Use:   "field",
	Short: "Sample the velocity field over a plane",
	Long: `Solves one scenario of the case and samples the waked wind speed over a
2D plane, printed as CSV (axis2 rows by axis1 columns).`,
	Example: `  # Hub-height horizontal cut, 2km x 1km around the farm
  wakectl field --case farm.yaml --orientation horizontal --height 90 \
    --bounds=-500,1500,-500,500 --resolution 200,100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := loadBatch()
		if err != nil {
			return err
		}
		if fieldScenario < 0 || fieldScenario >= len(batch.Scenarios) {
			return fmt.Errorf("scenario index %d out of range (%d scenarios)", fieldScenario, len(batch.Scenarios))
		}
		if len(fieldBounds) != 4 {
			return fmt.Errorf("--bounds needs exactly 4 values: a1min,a1max,a2min,a2max")
		}
		if len(fieldRes) != 2 {
			return fmt.Errorf("--resolution needs exactly 2 values: n1,n2")
		}

		plane := wake.FieldPlane{
			Orientation: wake.PlaneOrientation(fieldOrientation),
			Height:      fieldHeight,
			CrossStream: fieldCrossStream,
			Downstream:  fieldDownstream,
			Axis1Min:    fieldBounds[0],
			Axis1Max:    fieldBounds[1],
			Axis2Min:    fieldBounds[2],
			Axis2Max:    fieldBounds[3],
			N1:          fieldRes[0],
			N2:          fieldRes[1],
		}

		solver := wake.NewSolver()
		grid, err := solver.SampleField(batch.Layout, batch.Scenarios[fieldScenario], plane)
		if err != nil {
			return err
		}

		for _, row := range grid.Speed {
			parts := make([]string, len(row))
			for i, v := range row {
				parts[i] = fmt.Sprintf("%.3f", v)
			}
			fmt.Println(strings.Join(parts, ","))
		}
		return nil
	},
}

func init() {
	fieldCmd.Flags().StringVar(&fieldOrientation, "orientation", "horizontal", "plane orientation (horizontal, streamwise, cross)")
	fieldCmd.Flags().IntVar(&fieldScenario, "scenario", 0, "scenario index within the case")
	fieldCmd.Flags().Float64Var(&fieldHeight, "height", 90, "horizontal plane height (m)")
	fieldCmd.Flags().Float64Var(&fieldCrossStream, "cross-stream", 0, "streamwise plane offset (m)")
	fieldCmd.Flags().Float64Var(&fieldDownstream, "downstream", 0, "cross plane position (m)")
	fieldCmd.Flags().Float64SliceVar(&fieldBounds, "bounds", nil, "plane bounds: a1min,a1max,a2min,a2max")
	fieldCmd.Flags().IntSliceVar(&fieldRes, "resolution", []int{100, 100}, "grid resolution: n1,n2")
	rootCmd.AddCommand(fieldCmd)
}
