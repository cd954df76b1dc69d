package report

import (
	"strings"
	"testing"
	"time"

	"github.com/gowake/wakesim/internal/optimize"
)

func sampleTable() optimize.Table {
	return optimize.Table{
		{
			Direction: 270, Speed: 8, TI: 0.06, Frequency: 0.6,
			FarmPowerBaseline:     4.0e6,
			FarmPowerOpt:          4.2e6,
			TurbinePowersBaseline: []float64{2.0e6, 1.0e6, 1.0e6},
			TurbinePowersOpt:      []float64{1.9e6, 1.2e6, 1.1e6},
			YawOpt:                []float64{20, 10, 0},
			Converged:             true,
		},
		{
			Direction: 0, Speed: 12, TI: 0.08, Frequency: 0.4,
			FarmPowerBaseline:     6.0e6,
			FarmPowerOpt:          6.0e6,
			TurbinePowersBaseline: []float64{2.0e6, 2.0e6, 2.0e6},
			TurbinePowersOpt:      []float64{2.0e6, 2.0e6, 2.0e6},
			YawOpt:                []float64{0, 0, 0},
			Converged:             true,
			Verified:              true,
		},
	}
}

func TestRenderCSV(t *testing.T) {
	out := RenderCSV(sampleTable())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "wind_direction,wind_speed") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "20.00;10.00;0.00") {
		t.Fatalf("yaw vector not joined in row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], "true,true") {
		t.Fatalf("converged/verified flags missing: %s", lines[2])
	}
}

func TestRenderCSVEmpty(t *testing.T) {
	out := RenderCSV(nil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestRenderMarkdown(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	out := RenderMarkdown("Three Row Study", sampleTable(), now)

	for _, want := range []string{
		"# Three Row Study",
		"Scenarios: 2",
		"| Converged scenarios | 2 / 2 |",
		"| Verifier-reverted scenarios | 1 |",
		"20.0;10.0;0.0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	out := RenderMarkdown("", nil, time.Now())
	if !strings.Contains(out, "# Yaw Optimization Report") {
		t.Fatalf("default title missing:\n%s", out)
	}
	if !strings.Contains(out, "No scenarios evaluated.") {
		t.Fatalf("empty table note missing:\n%s", out)
	}
}
