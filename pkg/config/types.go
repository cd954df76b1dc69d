package config

import "time"

// Config represents the daemon configuration
type Config struct {
	LogLevel        string `yaml:"log_level"`
	ListenAddr      string `yaml:"listen_addr"`
	MaxParallel     int    `yaml:"max_parallel,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// Case represents one wind farm study: the machines, the layout, the wind
// resource and optionally the yaw optimization settings
type Case struct {
	Name         string            `yaml:"name"`
	TurbineTypes []TurbineTypeSpec `yaml:"turbine_types"`
	Layout       []TurbineSpec     `yaml:"layout"`
	Wind         WindSpec          `yaml:"wind"`
	Optimization *OptimizationSpec `yaml:"optimization,omitempty"`
}

// TurbineTypeSpec represents a turbine model. Either Ref names a built-in
// machine, or Curve carries the performance table directly.
type TurbineTypeSpec struct {
	Name        string           `yaml:"name"`
	Ref         string           `yaml:"ref,omitempty"` // e.g. nrel_5mw
	CutInSpeed  float64          `yaml:"cut_in_speed,omitempty"`
	CutOutSpeed float64          `yaml:"cut_out_speed,omitempty"`
	Curve       []CurvePointSpec `yaml:"curve,omitempty"`
}

// CurvePointSpec represents one row of a performance table
type CurvePointSpec struct {
	Speed float64 `yaml:"speed"`
	Power float64 `yaml:"power"`
	Ct    float64 `yaml:"ct"`
}

// TurbineSpec represents one installed turbine
type TurbineSpec struct {
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	HubHeight     float64 `yaml:"hub_height"`
	RotorDiameter float64 `yaml:"rotor_diameter"`
	Type          string  `yaml:"type"`
}

// WindSpec represents the wind resource: either an explicit condition list
// or a wind rose, never both
type WindSpec struct {
	Conditions []ConditionSpec `yaml:"conditions,omitempty"`
	Rose       *RoseSpec       `yaml:"rose,omitempty"`
	Shear      float64         `yaml:"shear,omitempty"`
}

// ConditionSpec represents one inflow condition
type ConditionSpec struct {
	Direction float64 `yaml:"direction"`
	Speed     float64 `yaml:"speed"`
	TI        float64 `yaml:"ti"`
	Frequency float64 `yaml:"frequency,omitempty"`
}

// RoseSpec represents a direction/speed cross product
type RoseSpec struct {
	Directions  []float64 `yaml:"directions"`
	Speeds      []float64 `yaml:"speeds"`
	TI          float64   `yaml:"ti"`
	Frequencies []float64 `yaml:"frequencies,omitempty"`
}

// OptimizationSpec represents serial-refine settings; zero values fall back
// to the optimizer defaults
type OptimizationSpec struct {
	LowerBound   float64   `yaml:"lower_bound,omitempty"`
	UpperBound   float64   `yaml:"upper_bound,omitempty"`
	LowerBounds  []float64 `yaml:"lower_bounds,omitempty"`
	UpperBounds  []float64 `yaml:"upper_bounds,omitempty"`
	StepSchedule []float64 `yaml:"step_schedule,omitempty"`
	MaxSweeps    int       `yaml:"max_sweeps,omitempty"`
	Order        string    `yaml:"order,omitempty"` // streamwise or input
	MaxParallel  int       `yaml:"max_parallel,omitempty"`
}

// GetShutdownTimeout parses the shutdown timeout to time.Duration
func (c *Config) GetShutdownTimeout() (time.Duration, error) {
	if c.ShutdownTimeout == "" {
		return 10 * time.Second, nil
	}
	return time.ParseDuration(c.ShutdownTimeout)
}
