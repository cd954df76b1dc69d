// Package report renders optimization tables for export: CSV for
// downstream tooling and Markdown for humans.
package report

import (
	"fmt"
	"strings"

	"github.com/gowake/wakesim/internal/optimize"
)

// RenderCSV renders the optimization table as a CSV string, one row per
// scenario. Vector columns (per-turbine powers, yaw angles) are
// semicolon-joined so the row stays one CSV record.
func RenderCSV(table optimize.Table) string {
	var sb strings.Builder

	sb.WriteString("wind_direction,wind_speed,turbulence_intensity,frequency,")
	sb.WriteString("farm_power_baseline,farm_power_opt,uplift_w,uplift_pct,")
	sb.WriteString("yaw_angles_opt,converged,verified\n")

	for _, r := range table {
		sb.WriteString(fmt.Sprintf("%.2f,%.2f,%.4f,%.6f,%.2f,%.2f,%.2f,%.4f,%s,%t,%t\n",
			r.Direction,
			r.Speed,
			r.TI,
			r.Frequency,
			r.FarmPowerBaseline,
			r.FarmPowerOpt,
			r.Uplift(),
			r.UpliftPercent(),
			joinFloats(r.YawOpt, "%.2f"),
			r.Converged,
			r.Verified,
		))
	}

	return sb.String()
}

func joinFloats(vals []float64, format string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, ";")
}
