package wake

import (
	"errors"
	"fmt"
	"math"

	"github.com/gowake/wakesim/internal/farm"
)

// Condition is one fully specified inflow: direction and speed with
// turbulence intensity, an optional power-law shear exponent and an
// optional frequency weight (used by wind-rose aggregation, never by the
// solver itself).
type Condition struct {
	Direction float64 // degrees, meteorological (wind blowing from)
	Speed     float64 // m/s at the layout reference hub height
	TI        float64 // turbulence intensity, fraction
	Shear     float64 // power-law exponent, 0 = uniform profile
	Frequency float64 // occurrence weight, informational
}

// Scenario pairs a condition with a per-turbine yaw vector in degrees.
// Positive yaw deflects the wake toward positive crosswind.
type Scenario struct {
	Condition Condition
	Yaw       []float64
}

// Batch is an immutable set of scenarios sharing one farm layout. Every
// scenario's yaw vector must match the layout's turbine count.
type Batch struct {
	Layout    farm.Layout
	Scenarios []Scenario
}

// ErrEmptyBatch is returned when a batch holds no scenarios.
var ErrEmptyBatch = errors.New("scenario batch has no scenarios")

// InvalidYawError reports a yaw vector the solver refuses to evaluate.
type InvalidYawError struct {
	Scenario int
	Reason   string
}

func (e *InvalidYawError) Error() string {
	return fmt.Sprintf("invalid yaw for scenario %d: %s", e.Scenario, e.Reason)
}

// NewBatch builds a batch with zero yaw everywhere from a layout and a list
// of conditions.
func NewBatch(layout farm.Layout, conditions []Condition) Batch {
	scenarios := make([]Scenario, len(conditions))
	for i, c := range conditions {
		scenarios[i] = Scenario{
			Condition: c,
			Yaw:       make([]float64, layout.Len()),
		}
	}
	return Batch{Layout: layout, Scenarios: scenarios}
}

// WithYaw returns a copy of the scenario carrying the given yaw vector.
func (s Scenario) WithYaw(yaw []float64) Scenario {
	out := make([]float64, len(yaw))
	copy(out, yaw)
	return Scenario{Condition: s.Condition, Yaw: out}
}

// Validate checks the batch against the layout and a yaw magnitude limit in
// degrees. It fails fast: the first problem aborts the whole batch.
func (b Batch) Validate(yawLimit float64) error {
	if b.Layout.Len() == 0 {
		return &farm.InvalidLayoutError{Reason: "batch has no layout"}
	}
	if len(b.Scenarios) == 0 {
		return ErrEmptyBatch
	}
	for i, sc := range b.Scenarios {
		if len(sc.Yaw) != b.Layout.Len() {
			return &InvalidYawError{
				Scenario: i,
				Reason:   fmt.Sprintf("yaw vector length %d does not match turbine count %d", len(sc.Yaw), b.Layout.Len()),
			}
		}
		for t, y := range sc.Yaw {
			if math.IsNaN(y) || math.Abs(y) > yawLimit {
				return &InvalidYawError{
					Scenario: i,
					Reason:   fmt.Sprintf("turbine %d yaw %g exceeds limit %g", t, y, yawLimit),
				}
			}
		}
		if sc.Condition.Speed < 0 {
			return &InvalidYawError{Scenario: i, Reason: fmt.Sprintf("negative wind speed %g", sc.Condition.Speed)}
		}
	}
	return nil
}

// WindRose is a direction x speed cross-product with a shared turbulence
// intensity and optional per-cell frequencies (row-major by direction).
type WindRose struct {
	Directions  []float64
	Speeds      []float64
	TI          float64
	Shear       float64
	Frequencies []float64
}

// Conditions expands the rose into one condition per (direction, speed)
// cell. Missing frequencies default to uniform weights summing to 1.
func (r WindRose) Conditions() ([]Condition, error) {
	if len(r.Directions) == 0 || len(r.Speeds) == 0 {
		return nil, errors.New("wind rose needs at least one direction and one speed")
	}
	n := len(r.Directions) * len(r.Speeds)
	if len(r.Frequencies) != 0 && len(r.Frequencies) != n {
		return nil, fmt.Errorf("wind rose has %d frequencies for %d cells", len(r.Frequencies), n)
	}
	out := make([]Condition, 0, n)
	for i, wd := range r.Directions {
		for j, ws := range r.Speeds {
			freq := 1.0 / float64(n)
			if len(r.Frequencies) == n {
				freq = r.Frequencies[i*len(r.Speeds)+j]
			}
			out = append(out, Condition{
				Direction: wd,
				Speed:     ws,
				TI:        r.TI,
				Shear:     r.Shear,
				Frequency: freq,
			})
		}
	}
	return out, nil
}
