package wake

import (
	"fmt"
	"math"

	"github.com/gowake/wakesim/internal/farm"
)

// PlaneOrientation selects how a field query plane is cut through the farm.
type PlaneOrientation string

const (
	// PlaneHorizontal samples world x/y at a fixed height.
	PlaneHorizontal PlaneOrientation = "horizontal"
	// PlaneStreamwise samples a vertical plane parallel to the flow at a
	// fixed cross-stream offset; axes are downwind distance and height.
	PlaneStreamwise PlaneOrientation = "streamwise"
	// PlaneCross samples a vertical plane perpendicular to the flow at a
	// fixed downwind distance; axes are cross-stream offset and height.
	PlaneCross PlaneOrientation = "cross"
)

// FieldPlane describes a 2D sampling plane. Axis1/Axis2 bounds are world
// x/y for horizontal planes and flow-frame distance/height for vertical
// ones. Read-only, derived, never engine state.
type FieldPlane struct {
	Orientation PlaneOrientation
	Height      float64 // horizontal plane height, m
	CrossStream float64 // streamwise plane offset, m
	Downstream  float64 // cross plane position, m
	Axis1Min    float64
	Axis1Max    float64
	Axis2Min    float64
	Axis2Max    float64
	N1          int
	N2          int
}

func (p FieldPlane) validate() error {
	switch p.Orientation {
	case PlaneHorizontal, PlaneStreamwise, PlaneCross:
	default:
		return fmt.Errorf("unknown plane orientation %q", p.Orientation)
	}
	if p.N1 < 2 || p.N2 < 2 {
		return fmt.Errorf("plane resolution %dx%d too small", p.N1, p.N2)
	}
	if p.Axis1Max <= p.Axis1Min || p.Axis2Max <= p.Axis2Min {
		return fmt.Errorf("plane bounds are degenerate")
	}
	if p.Orientation == PlaneHorizontal && p.Height <= 0 {
		return fmt.Errorf("horizontal plane height must be positive, got %g", p.Height)
	}
	return nil
}

// FieldGrid is the sampled velocity field: Speed[i2][i1] is the wind speed
// at (Axis1[i1], Axis2[i2]).
type FieldGrid struct {
	Plane FieldPlane
	Axis1 []float64
	Axis2 []float64
	Speed [][]float64
}

// SampleField solves the scenario and samples the resulting velocity field
// over the plane. It is the expensive query mode; optimization never calls
// it.
func (s *Solver) SampleField(layout farm.Layout, sc Scenario, plane FieldPlane) (*FieldGrid, error) {
	batch := Batch{Layout: layout, Scenarios: []Scenario{sc}}
	if err := batch.Validate(s.yawLimit); err != nil {
		return nil, err
	}
	if err := plane.validate(); err != nil {
		return nil, fmt.Errorf("invalid field plane: %w", err)
	}

	states, err := s.solveStates(layout, sc)
	if err != nil {
		return nil, err
	}

	angle := flowAngle(sc.Condition.Direction)
	sin, cos := math.Sin(angle), math.Cos(angle)
	refHeight := layout.RefHubHeight()

	grid := &FieldGrid{
		Plane: plane,
		Axis1: axis(plane.Axis1Min, plane.Axis1Max, plane.N1),
		Axis2: axis(plane.Axis2Min, plane.Axis2Max, plane.N2),
		Speed: make([][]float64, plane.N2),
	}

	for i2, a2 := range grid.Axis2 {
		row := make([]float64, plane.N1)
		for i1, a1 := range grid.Axis1 {
			var down, cross, height float64
			switch plane.Orientation {
			case PlaneHorizontal:
				down, cross = toFlow(a1, a2, sin, cos)
				height = plane.Height
			case PlaneStreamwise:
				down, cross, height = a1, plane.CrossStream, a2
			case PlaneCross:
				down, cross, height = plane.Downstream, a1, a2
			}
			row[i1] = s.sampleSpeed(states, sc.Condition, refHeight, down, cross, height)
		}
		grid.Speed[i2] = row
	}
	return grid, nil
}

// sampleSpeed is the free-stream speed at the point minus the
// root-sum-square of all turbine wake deficits.
func (s *Solver) sampleSpeed(states []TurbineState, cond Condition, refHeight, down, cross, height float64) float64 {
	free := shearSpeed(cond.Speed, height, refHeight, cond.Shear)
	sumSq := 0.0
	for _, u := range states {
		frac := s.model.Deficit(u, down, cross, height)
		if frac > 0 {
			d := frac * u.Speed
			sumSq += d * d
		}
	}
	speed := free - math.Sqrt(sumSq)
	if speed < 0 {
		speed = 0
	}
	return speed
}

func axis(min, max float64, n int) []float64 {
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}
