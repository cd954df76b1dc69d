package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gowake/wakesim/internal/optimize"
)

// RenderMarkdown renders the optimization table as a Markdown report.
func RenderMarkdown(name string, table optimize.Table, generatedAt time.Time) string {
	var sb strings.Builder

	if name == "" {
		name = "Yaw Optimization Report"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", name))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Scenarios: %d\n\n", len(table)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Frequency-weighted uplift (W) | %.2f |\n", table.WeightedUplift()))
	sb.WriteString(fmt.Sprintf("| Converged scenarios | %d / %d |\n", countConverged(table), len(table)))
	sb.WriteString(fmt.Sprintf("| Verifier-reverted scenarios | %d |\n", countVerified(table)))
	sb.WriteString("\n")

	// Per-scenario results
	sb.WriteString("## Scenarios\n\n")
	if len(table) > 0 {
		sb.WriteString("| Direction | Speed | TI | Baseline (W) | Optimized (W) | Uplift | Uplift % | Yaw (deg) | Converged |\n")
		sb.WriteString("|-----------|-------|----|--------------|---------------|--------|----------|-----------|----------|\n")
		for _, r := range table {
			sb.WriteString(fmt.Sprintf("| %.1f | %.1f | %.3f | %.0f | %.0f | %.0f | %.2f | %s | %t |\n",
				r.Direction, r.Speed, r.TI,
				r.FarmPowerBaseline, r.FarmPowerOpt, r.Uplift(), r.UpliftPercent(),
				joinFloats(r.YawOpt, "%.1f"), r.Converged))
		}
	} else {
		sb.WriteString("No scenarios evaluated.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func countConverged(table optimize.Table) int {
	n := 0
	for _, r := range table {
		if r.Converged {
			n++
		}
	}
	return n
}

func countVerified(table optimize.Table) int {
	n := 0
	for _, r := range table {
		if r.Verified {
			n++
		}
	}
	return n
}
