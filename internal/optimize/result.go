package optimize

// Result is one row of the optimization table: the scenario identity, the
// baseline (zero yaw) and optimized evaluations, and the chosen yaw vector.
// Rows are immutable once the optimizer returns them.
type Result struct {
	Direction float64 `json:"wind_direction"`
	Speed     float64 `json:"wind_speed"`
	TI        float64 `json:"turbulence_intensity"`
	Frequency float64 `json:"frequency"`

	FarmPowerBaseline     float64   `json:"farm_power_baseline"`
	FarmPowerOpt          float64   `json:"farm_power_opt"`
	TurbinePowersBaseline []float64 `json:"turbine_powers_baseline"`
	TurbinePowersOpt      []float64 `json:"turbine_powers_opt"`
	YawOpt                []float64 `json:"yaw_angles_opt"`

	// Converged is false when a refinement pass hit its sweep cap before
	// stabilizing, or the scenario degraded to baseline after a numerical
	// failure.
	Converged bool `json:"converged"`
	// Verified is true when the convergence verifier suppressed a
	// negligible uplift and reverted this row to baseline.
	Verified bool `json:"verified"`
}

// Uplift is the absolute farm power gain in W.
func (r Result) Uplift() float64 {
	return r.FarmPowerOpt - r.FarmPowerBaseline
}

// UpliftPercent is the relative farm power gain.
func (r Result) UpliftPercent() float64 {
	if r.FarmPowerBaseline == 0 {
		return 0
	}
	return 100 * r.Uplift() / r.FarmPowerBaseline
}

// Table is the per-scenario results in batch order.
type Table []Result

// WeightedUplift sums each row's uplift scaled by its scenario frequency.
func (t Table) WeightedUplift() float64 {
	total := 0.0
	for _, r := range t {
		total += r.Frequency * r.Uplift()
	}
	return total
}
