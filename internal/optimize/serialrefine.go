package optimize

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/gowake/wakesim/internal/farm"
	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/logger"
)

// optimizeScenario runs the serial-refine search for one scenario: zero-yaw
// baseline, then for each step of the schedule repeated turbine sweeps that
// hold all other angles fixed, until a sweep changes nothing or the sweep
// cap is hit. Candidate evaluations within one turbine decision are
// independent and fan out in parallel.
func (o *Optimizer) optimizeScenario(ctx context.Context, layout farm.Layout, sc wake.Scenario, lower, upper []float64) (Result, error) {
	n := layout.Len()
	cond := sc.Condition
	row := Result{
		Direction: cond.Direction,
		Speed:     cond.Speed,
		TI:        cond.TI,
		Frequency: cond.Frequency,
	}

	zero := make([]float64, n)
	base, err := o.solver.EvaluateScenario(layout, sc.WithYaw(zero))
	if err != nil {
		// A wake-model singularity for this condition; report an empty
		// baseline row rather than aborting the batch.
		logger.Warn("baseline evaluation failed, degrading scenario",
			"direction", cond.Direction, "speed", cond.Speed, "error", err)
		row.TurbinePowersBaseline = zero
		row.TurbinePowersOpt = zero
		row.YawOpt = make([]float64, n)
		return row, nil
	}
	row.FarmPowerBaseline = base.FarmPower
	row.TurbinePowersBaseline = base.Powers

	order := o.turbineOrder(layout, cond.Direction)

	yaw := make([]float64, n)
	current := base.FarmPower
	converged := false
	degraded := false

	for _, step := range o.opts.StepSchedule {
		stable := false
		for sweep := 0; sweep < o.opts.MaxSweeps && !stable && !degraded; sweep++ {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			changed := false
			for _, t := range order {
				angles := candidateAngles(yaw[t], lower[t], upper[t], step)
				best, bestPower, ok := o.bestCandidate(ctx, layout, sc, yaw, t, angles)
				if err := ctx.Err(); err != nil {
					return Result{}, err
				}
				if !ok {
					// Every candidate failed to evaluate; give up on the
					// scenario and fall back to baseline.
					degraded = true
					break
				}
				if best != yaw[t] {
					yaw[t] = best
					current = bestPower
					changed = true
				} else {
					current = bestPower
				}
			}
			if !changed {
				stable = true
			}
		}
		converged = stable
	}

	if degraded || current < base.FarmPower {
		// Never report a regression: fall back to the zero-yaw baseline.
		row.FarmPowerOpt = base.FarmPower
		row.TurbinePowersOpt = append([]float64(nil), base.Powers...)
		row.YawOpt = make([]float64, n)
		row.Converged = false
		return row, nil
	}

	opt, err := o.solver.EvaluateScenario(layout, sc.WithYaw(yaw))
	if err != nil {
		row.FarmPowerOpt = base.FarmPower
		row.TurbinePowersOpt = append([]float64(nil), base.Powers...)
		row.YawOpt = make([]float64, n)
		row.Converged = false
		return row, nil
	}
	row.FarmPowerOpt = opt.FarmPower
	row.TurbinePowersOpt = opt.Powers
	row.YawOpt = yaw
	row.Converged = converged

	return o.verifier.Verify(o.solver, layout, sc, base, row, lower, upper), nil
}

// turbineOrder resolves the visiting order policy for one scenario.
func (o *Optimizer) turbineOrder(layout farm.Layout, direction float64) []int {
	if o.opts.Order == OrderInput {
		order := make([]int, layout.Len())
		for i := range order {
			order[i] = i
		}
		return order
	}
	return wake.StreamwiseOrder(layout, direction)
}

// candidateAngles is the angular grid for one turbine decision: every
// multiple of step reachable from the current angle within bounds, plus the
// current angle itself.
func candidateAngles(current, lower, upper, step float64) []float64 {
	kMin := int(math.Ceil((lower - current) / step))
	kMax := int(math.Floor((upper - current) / step))
	angles := make([]float64, 0, kMax-kMin+2)
	seen := false
	for k := kMin; k <= kMax; k++ {
		a := current + float64(k)*step
		if a < lower || a > upper {
			continue
		}
		if a == current {
			seen = true
		}
		angles = append(angles, a)
	}
	if !seen {
		angles = append(angles, current)
	}
	return angles
}

// bestCandidate evaluates farm power for every candidate angle of turbine t
// with all other angles fixed, in parallel, and reduces to the best. Ties
// prefer the smallest yaw magnitude, then the smaller angle, so a flat
// power response keeps zero yaw and the reduction order never matters.
func (o *Optimizer) bestCandidate(ctx context.Context, layout farm.Layout, sc wake.Scenario, yaw []float64, t int, angles []float64) (best, bestPower float64, ok bool) {
	powers := make([]float64, len(angles))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxParallel)
	for i, angle := range angles {
		i, angle := i, angle
		g.Go(func() error {
			candidate := append([]float64(nil), yaw...)
			candidate[t] = angle
			res, err := o.solver.EvaluateScenario(layout, sc.WithYaw(candidate))
			if err != nil || math.IsNaN(res.FarmPower) {
				powers[i] = math.Inf(-1)
				return nil
			}
			powers[i] = res.FarmPower
			return nil
		})
	}
	// Candidate failures are encoded as -Inf, never as errors.
	_ = g.Wait()

	bestPower = math.Inf(-1)
	for i, p := range powers {
		a := angles[i]
		if p > bestPower {
			best, bestPower = a, p
			continue
		}
		if p == bestPower && (math.Abs(a) < math.Abs(best) || (math.Abs(a) == math.Abs(best) && a < best)) {
			best = a
		}
	}
	return best, bestPower, !math.IsInf(bestPower, -1)
}
