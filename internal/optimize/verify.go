package optimize

import (
	"github.com/gowake/wakesim/internal/farm"
	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/utils"
)

// Verifier guards against yaw vectors whose reported uplift is numerical
// noise rather than real wake steering, which happens where the power curve
// is nearly flat (above rated speed) and sub-watt interpolation differences
// can pick a nonzero angle. It re-derives the optimized power through a
// perturbed evaluation and reverts rows whose uplift is negligible; it
// never changes the sign of a genuine uplift.
type Verifier struct {
	AbsTol       float64 // absolute uplift floor, W
	RelTol       float64 // relative uplift floor, fraction of baseline
	Perturbation float64 // yaw perturbation for the re-derivation, degrees
}

const defaultPerturbation = 0.05

// Verify re-derives the row's optimized power as the mean of evaluations
// at yaw +/- Perturbation (clamped to bounds). If the re-derived uplift
// over the baseline falls below the threshold the row reverts to zero yaw
// with uplift zero and Verified set; otherwise the row passes through
// unchanged.
func (v *Verifier) Verify(solver *wake.Solver, layout farm.Layout, sc wake.Scenario, base wake.Result, row Result, lower, upper []float64) Result {
	eps := v.Perturbation
	if eps <= 0 {
		eps = defaultPerturbation
	}

	rederived, ok := v.rederive(solver, layout, sc, row.YawOpt, eps, lower, upper)
	if !ok {
		// The perturbed evaluations failed; keep the optimizer's answer.
		return row
	}

	threshold := v.AbsTol
	if rel := v.RelTol * base.FarmPower; rel > threshold {
		threshold = rel
	}
	if rederived-base.FarmPower > threshold {
		return row
	}

	row.FarmPowerOpt = base.FarmPower
	row.TurbinePowersOpt = append([]float64(nil), base.Powers...)
	row.YawOpt = make([]float64, len(row.YawOpt))
	row.Verified = true
	return row
}

// rederive evaluates the candidate yaw vector through an independent path:
// symmetric perturbations of every angle, averaged. On a genuinely flat
// power response the perturbed powers agree with the baseline and the
// noise-only uplift cancels; a real steering gain survives the averaging.
func (v *Verifier) rederive(solver *wake.Solver, layout farm.Layout, sc wake.Scenario, yaw []float64, eps float64, lower, upper []float64) (float64, bool) {
	shift := func(delta float64) (float64, bool) {
		out := make([]float64, len(yaw))
		for i, y := range yaw {
			out[i] = utils.ClampFloat64(y+delta, lower[i], upper[i])
		}
		res, err := solver.EvaluateScenario(layout, sc.WithYaw(out))
		if err != nil {
			return 0, false
		}
		return res.FarmPower, true
	}

	up, ok := shift(eps)
	if !ok {
		return 0, false
	}
	down, ok := shift(-eps)
	if !ok {
		return 0, false
	}
	return (up + down) / 2, true
}
