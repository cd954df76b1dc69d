package farm

import (
	"fmt"
	"math"
)

// Turbine is one machine in the farm. Position is in a shared planar
// coordinate frame (meters, x east / y north). Turbines are identified by
// index within the layout; the index order is the order serial yaw
// refinement visits them when the input-order policy is selected.
type Turbine struct {
	X             float64
	Y             float64
	HubHeight     float64
	RotorDiameter float64
	Type          *TurbineType
}

// Layout is an ordered, immutable sequence of turbines sharing one
// coordinate frame. Build it once with NewLayout; any change means a new
// layout.
type Layout struct {
	turbines []Turbine
}

// InvalidLayoutError reports a farm layout the solver cannot work with.
type InvalidLayoutError struct {
	Reason string
}

func (e *InvalidLayoutError) Error() string {
	return "invalid layout: " + e.Reason
}

// minSeparation is the smallest allowed distance between two hubs, in
// meters. Closer than this the positions are treated as coincident.
const minSeparation = 1.0

// NewLayout validates and constructs a layout. It fails with
// InvalidLayoutError when there are no turbines, a turbine is missing its
// type or has a non-positive rotor, or two turbines are coincident.
func NewLayout(turbines []Turbine) (Layout, error) {
	if len(turbines) == 0 {
		return Layout{}, &InvalidLayoutError{Reason: "layout has no turbines"}
	}
	for i, tb := range turbines {
		if tb.Type == nil {
			return Layout{}, &InvalidLayoutError{Reason: fmt.Sprintf("turbine %d has no turbine type", i)}
		}
		if tb.RotorDiameter <= 0 {
			return Layout{}, &InvalidLayoutError{Reason: fmt.Sprintf("turbine %d has non-positive rotor diameter", i)}
		}
		if tb.HubHeight <= 0 {
			return Layout{}, &InvalidLayoutError{Reason: fmt.Sprintf("turbine %d has non-positive hub height", i)}
		}
	}
	for i := 0; i < len(turbines); i++ {
		for j := i + 1; j < len(turbines); j++ {
			dx := turbines[i].X - turbines[j].X
			dy := turbines[i].Y - turbines[j].Y
			if math.Hypot(dx, dy) < minSeparation {
				return Layout{}, &InvalidLayoutError{Reason: fmt.Sprintf("turbines %d and %d are coincident", i, j)}
			}
		}
	}
	out := make([]Turbine, len(turbines))
	copy(out, turbines)
	return Layout{turbines: out}, nil
}

// Len returns the number of turbines.
func (l Layout) Len() int {
	return len(l.turbines)
}

// Turbine returns the turbine at index i.
func (l Layout) Turbine(i int) Turbine {
	return l.turbines[i]
}

// Turbines returns a copy of the turbine sequence.
func (l Layout) Turbines() []Turbine {
	out := make([]Turbine, len(l.turbines))
	copy(out, l.turbines)
	return out
}

// RefHubHeight is the reference height used for vertical wind shear: the
// hub height of the first turbine.
func (l Layout) RefHubHeight() float64 {
	if len(l.turbines) == 0 {
		return 0
	}
	return l.turbines[0].HubHeight
}
