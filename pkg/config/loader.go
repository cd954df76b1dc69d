package config

import (
	"fmt"
	"os"
)

// LoadConfig loads and parses a daemon configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadCase loads and parses a case file
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file %s: %w", path, err)
	}
	c, err := ParseCaseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse case file %s: %w", path, err)
	}
	return c, nil
}

// validateConfig performs validation on the daemon configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if cfg.MaxParallel < 0 {
		return fmt.Errorf("max_parallel cannot be negative, got %d", cfg.MaxParallel)
	}
	if _, err := cfg.GetShutdownTimeout(); err != nil {
		return fmt.Errorf("invalid shutdown_timeout %s: %w", cfg.ShutdownTimeout, err)
	}

	return nil
}

// validateCase performs validation on a case. Shape and reference checks
// happen here; numeric checks on curves and layouts happen when the case is
// built into engine objects.
func validateCase(c *Case) error {
	if len(c.TurbineTypes) == 0 {
		return fmt.Errorf("at least one turbine type must be defined")
	}
	typeNames := make(map[string]bool)
	for _, tt := range c.TurbineTypes {
		if tt.Name == "" {
			return fmt.Errorf("turbine type name cannot be empty")
		}
		if typeNames[tt.Name] {
			return fmt.Errorf("duplicate turbine type name: %s", tt.Name)
		}
		typeNames[tt.Name] = true

		if tt.Ref != "" && len(tt.Curve) > 0 {
			return fmt.Errorf("turbine type %s: ref and curve are mutually exclusive", tt.Name)
		}
		if tt.Ref == "" && len(tt.Curve) == 0 {
			return fmt.Errorf("turbine type %s: either ref or curve must be set", tt.Name)
		}
		if tt.Ref != "" && tt.Ref != BuiltinNREL5MW {
			return fmt.Errorf("turbine type %s: unknown ref %s", tt.Name, tt.Ref)
		}
	}

	if len(c.Layout) == 0 {
		return fmt.Errorf("at least one turbine must be defined in the layout")
	}
	for i, ts := range c.Layout {
		if ts.Type == "" {
			return fmt.Errorf("turbine %d: type cannot be empty", i)
		}
		if !typeNames[ts.Type] {
			return fmt.Errorf("turbine %d references unknown type: %s", i, ts.Type)
		}
	}

	if err := validateWind(&c.Wind); err != nil {
		return fmt.Errorf("wind validation failed: %w", err)
	}

	if c.Optimization != nil {
		if err := validateOptimization(c.Optimization); err != nil {
			return fmt.Errorf("optimization validation failed: %w", err)
		}
	}

	return nil
}

// validateWind validates the wind resource
func validateWind(w *WindSpec) error {
	if len(w.Conditions) > 0 && w.Rose != nil {
		return fmt.Errorf("conditions and rose are mutually exclusive")
	}
	if len(w.Conditions) == 0 && w.Rose == nil {
		return fmt.Errorf("either conditions or rose must be set")
	}

	for i, cond := range w.Conditions {
		if cond.Speed < 0 {
			return fmt.Errorf("condition %d: speed cannot be negative, got %g", i, cond.Speed)
		}
		if cond.TI < 0 {
			return fmt.Errorf("condition %d: ti cannot be negative, got %g", i, cond.TI)
		}
		if cond.Frequency < 0 {
			return fmt.Errorf("condition %d: frequency cannot be negative, got %g", i, cond.Frequency)
		}
	}

	if w.Rose != nil {
		if len(w.Rose.Directions) == 0 {
			return fmt.Errorf("rose: at least one direction must be defined")
		}
		if len(w.Rose.Speeds) == 0 {
			return fmt.Errorf("rose: at least one speed must be defined")
		}
		if w.Rose.TI < 0 {
			return fmt.Errorf("rose: ti cannot be negative, got %g", w.Rose.TI)
		}
		n := len(w.Rose.Directions) * len(w.Rose.Speeds)
		if len(w.Rose.Frequencies) != 0 && len(w.Rose.Frequencies) != n {
			return fmt.Errorf("rose: frequencies length %d does not match %d direction/speed pairs", len(w.Rose.Frequencies), n)
		}
	}

	if w.Shear < 0 {
		return fmt.Errorf("shear exponent cannot be negative, got %g", w.Shear)
	}

	return nil
}

// validateOptimization validates the serial-refine settings
func validateOptimization(o *OptimizationSpec) error {
	for i, step := range o.StepSchedule {
		if step <= 0 {
			return fmt.Errorf("step_schedule entry %d must be positive, got %g", i, step)
		}
	}
	if o.MaxSweeps < 0 {
		return fmt.Errorf("max_sweeps cannot be negative, got %d", o.MaxSweeps)
	}
	if o.Order != "" && o.Order != "streamwise" && o.Order != "input" {
		return fmt.Errorf("order must be 'streamwise' or 'input', got %s", o.Order)
	}
	if o.MaxParallel < 0 {
		return fmt.Errorf("max_parallel cannot be negative, got %d", o.MaxParallel)
	}
	return nil
}
