package config

import (
	"fmt"

	"github.com/gowake/wakesim/internal/farm"
	"github.com/gowake/wakesim/internal/optimize"
	"github.com/gowake/wakesim/internal/wake"
)

// BuiltinNREL5MW is the ref value for the embedded NREL 5MW reference
// machine.
const BuiltinNREL5MW = "nrel_5mw"

// BuildBatch turns a validated case into engine objects: the layout and the
// scenario batch with zero yaw. Curve and layout numeric validation happens
// here, through the engine constructors.
func BuildBatch(c *Case) (wake.Batch, error) {
	layout, err := buildLayout(c)
	if err != nil {
		return wake.Batch{}, err
	}
	conds, err := buildConditions(&c.Wind)
	if err != nil {
		return wake.Batch{}, err
	}
	return wake.NewBatch(layout, conds), nil
}

// BuildOptions maps the case's optimization settings onto optimizer
// options; absent settings keep the defaults.
func BuildOptions(c *Case) optimize.Options {
	opts := optimize.DefaultOptions()
	spec := c.Optimization
	if spec == nil {
		return opts
	}
	if spec.LowerBound != 0 || spec.UpperBound != 0 {
		opts.LowerBound, opts.UpperBound = spec.LowerBound, spec.UpperBound
	}
	opts.LowerBounds = spec.LowerBounds
	opts.UpperBounds = spec.UpperBounds
	if len(spec.StepSchedule) > 0 {
		opts.StepSchedule = spec.StepSchedule
	}
	if spec.MaxSweeps > 0 {
		opts.MaxSweeps = spec.MaxSweeps
	}
	if spec.Order != "" {
		opts.Order = optimize.OrderPolicy(spec.Order)
	}
	if spec.MaxParallel > 0 {
		opts.MaxParallel = spec.MaxParallel
	}
	return opts
}

func buildLayout(c *Case) (farm.Layout, error) {
	types := make(map[string]*farm.TurbineType, len(c.TurbineTypes))
	for _, spec := range c.TurbineTypes {
		tt, err := buildTurbineType(spec)
		if err != nil {
			return farm.Layout{}, fmt.Errorf("turbine type %s: %w", spec.Name, err)
		}
		types[spec.Name] = tt
	}

	turbines := make([]farm.Turbine, len(c.Layout))
	for i, ts := range c.Layout {
		turbines[i] = farm.Turbine{
			X:             ts.X,
			Y:             ts.Y,
			HubHeight:     ts.HubHeight,
			RotorDiameter: ts.RotorDiameter,
			Type:          types[ts.Type],
		}
	}
	return farm.NewLayout(turbines)
}

func buildTurbineType(spec TurbineTypeSpec) (*farm.TurbineType, error) {
	if spec.Ref == BuiltinNREL5MW {
		return farm.RefNREL5MW(), nil
	}
	points := make([]farm.CurvePoint, len(spec.Curve))
	for i, p := range spec.Curve {
		points[i] = farm.CurvePoint{Speed: p.Speed, Power: p.Power, Ct: p.Ct}
	}
	return farm.NewTurbineType(spec.Name, spec.CutInSpeed, spec.CutOutSpeed, points)
}

func buildConditions(w *WindSpec) ([]wake.Condition, error) {
	if w.Rose != nil {
		rose := wake.WindRose{
			Directions:  w.Rose.Directions,
			Speeds:      w.Rose.Speeds,
			TI:          w.Rose.TI,
			Shear:       w.Shear,
			Frequencies: w.Rose.Frequencies,
		}
		return rose.Conditions()
	}

	conds := make([]wake.Condition, len(w.Conditions))
	for i, c := range w.Conditions {
		conds[i] = wake.Condition{
			Direction: c.Direction,
			Speed:     c.Speed,
			TI:        c.TI,
			Shear:     w.Shear,
			Frequency: c.Frequency,
		}
	}
	return conds, nil
}
