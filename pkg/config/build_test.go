package config

import (
	"testing"

	"github.com/gowake/wakesim/internal/optimize"
)

func TestBuildBatchFromConditions(t *testing.T) {
	c, err := ParseCaseYAMLString(validCaseYAML)
	if err != nil {
		t.Fatalf("ParseCaseYAMLString failed: %v", err)
	}

	batch, err := BuildBatch(c)
	if err != nil {
		t.Fatalf("BuildBatch failed: %v", err)
	}
	if batch.Layout.Len() != 3 {
		t.Fatalf("expected 3 turbines, got %d", batch.Layout.Len())
	}
	if len(batch.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(batch.Scenarios))
	}
	sc := batch.Scenarios[0]
	if sc.Condition.Direction != 270 || sc.Condition.Speed != 8 {
		t.Fatalf("unexpected condition: %+v", sc.Condition)
	}
	for i, y := range sc.Yaw {
		if y != 0 {
			t.Fatalf("expected zero initial yaw, turbine %d has %g", i, y)
		}
	}
}

func TestBuildBatchFromRose(t *testing.T) {
	c, err := ParseCaseYAMLString(`
name: rose-case
turbine_types:
  - name: nrel5
    ref: nrel_5mw
layout:
  - {x: 0, y: 0, hub_height: 90, rotor_diameter: 126, type: nrel5}
  - {x: 630, y: 0, hub_height: 90, rotor_diameter: 126, type: nrel5}
wind:
  shear: 0.12
  rose:
    directions: [270, 0]
    speeds: [8, 10]
    ti: 0.06
`)
	if err != nil {
		t.Fatalf("ParseCaseYAMLString failed: %v", err)
	}

	batch, err := BuildBatch(c)
	if err != nil {
		t.Fatalf("BuildBatch failed: %v", err)
	}
	if len(batch.Scenarios) != 4 {
		t.Fatalf("expected 4 scenarios from 2x2 rose, got %d", len(batch.Scenarios))
	}
	for i, sc := range batch.Scenarios {
		if sc.Condition.Shear != 0.12 {
			t.Fatalf("scenario %d: shear not propagated, got %g", i, sc.Condition.Shear)
		}
		if sc.Condition.Frequency != 0.25 {
			t.Fatalf("scenario %d: expected uniform frequency 0.25, got %g", i, sc.Condition.Frequency)
		}
	}
}

func TestBuildBatchInlineCurve(t *testing.T) {
	c, err := ParseCaseYAMLString(`
name: inline-curve
turbine_types:
  - name: simple
    cut_in_speed: 3
    cut_out_speed: 25
    curve:
      - {speed: 3, power: 0, ct: 0.9}
      - {speed: 11, power: 5000000, ct: 0.7}
      - {speed: 25, power: 5000000, ct: 0.2}
layout:
  - {x: 0, y: 0, hub_height: 90, rotor_diameter: 126, type: simple}
wind:
  conditions:
    - {direction: 270, speed: 8, ti: 0.06}
`)
	if err != nil {
		t.Fatalf("ParseCaseYAMLString failed: %v", err)
	}
	batch, err := BuildBatch(c)
	if err != nil {
		t.Fatalf("BuildBatch failed: %v", err)
	}
	tt := batch.Layout.Turbine(0).Type
	if tt.Name != "simple" {
		t.Fatalf("expected turbine type simple, got %q", tt.Name)
	}
}

func TestBuildBatchRejectsBadCurve(t *testing.T) {
	c, err := ParseCaseYAMLString(`
name: bad-curve
turbine_types:
  - name: broken
    cut_in_speed: 3
    cut_out_speed: 25
    curve:
      - {speed: 3, power: 0, ct: 0.9}
layout:
  - {x: 0, y: 0, hub_height: 90, rotor_diameter: 126, type: broken}
wind:
  conditions:
    - {direction: 270, speed: 8, ti: 0.06}
`)
	if err != nil {
		t.Fatalf("ParseCaseYAMLString failed: %v", err)
	}
	if _, err := BuildBatch(c); err == nil {
		t.Fatalf("expected error for a single-point curve")
	}
}

func TestBuildOptions(t *testing.T) {
	c, err := ParseCaseYAMLString(validCaseYAML)
	if err != nil {
		t.Fatalf("ParseCaseYAMLString failed: %v", err)
	}
	opts := BuildOptions(c)
	if opts.LowerBound != -25 || opts.UpperBound != 25 {
		t.Fatalf("bounds not mapped: %g..%g", opts.LowerBound, opts.UpperBound)
	}
	if len(opts.StepSchedule) != 3 || opts.StepSchedule[0] != 5 {
		t.Fatalf("step schedule not mapped: %v", opts.StepSchedule)
	}

	// Absent block keeps defaults.
	c.Optimization = nil
	def := optimize.DefaultOptions()
	opts = BuildOptions(c)
	if opts.MaxSweeps != def.MaxSweeps || opts.Order != def.Order {
		t.Fatalf("expected defaults without optimization block, got %+v", opts)
	}
}
