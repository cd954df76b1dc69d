// Package optimize searches per-turbine yaw offsets that maximize total
// farm power, independently for every scenario in a batch, using the
// serial-refine method: coordinate sweeps over turbines at coarse-to-fine
// angular resolution.
package optimize

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/logger"
)

// OrderPolicy selects the turbine visiting order within a sweep. Which
// order finds the better local optimum is layout-dependent; it is a policy,
// not a proven-optimal choice.
type OrderPolicy string

const (
	// OrderStreamwise visits turbines upstream to downstream for each
	// scenario's wind direction.
	OrderStreamwise OrderPolicy = "streamwise"
	// OrderInput visits turbines in layout order.
	OrderInput OrderPolicy = "input"
)

// Options configure a yaw optimization. Zero values fall back to defaults.
type Options struct {
	// LowerBound and UpperBound are uniform per-turbine yaw bounds in
	// degrees. LowerBounds/UpperBounds override them per turbine.
	LowerBound  float64
	UpperBound  float64
	LowerBounds []float64
	UpperBounds []float64

	// StepSchedule is the coarse-to-fine angular resolution per refinement
	// pass, degrees.
	StepSchedule []float64
	// MaxSweeps caps the sweeps per refinement pass.
	MaxSweeps int
	// Order is the turbine visiting order policy.
	Order OrderPolicy
	// MaxParallel caps concurrently optimized scenarios.
	MaxParallel int

	// VerifyAbsTol and VerifyRelTol are the convergence verifier's
	// negligible-uplift thresholds (absolute W, fraction of baseline).
	VerifyAbsTol float64
	VerifyRelTol float64
}

// DefaultOptions mirror the serial-refine defaults: +/-25 degrees, 5
// degree steps halved down to 1.25, eight sweeps per pass.
func DefaultOptions() Options {
	return Options{
		LowerBound:   -25,
		UpperBound:   25,
		StepSchedule: []float64{5, 2.5, 1.25},
		MaxSweeps:    8,
		Order:        OrderStreamwise,
		MaxParallel:  runtime.GOMAXPROCS(0),
		VerifyAbsTol: 1.0,
		VerifyRelTol: 1e-4,
	}
}

// InvalidBoundsError reports a turbine whose lower yaw bound exceeds its
// upper bound.
type InvalidBoundsError struct {
	Turbine int
	Lower   float64
	Upper   float64
}

func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf("invalid bounds for turbine %d: lower %g > upper %g", e.Turbine, e.Lower, e.Upper)
}

// Optimizer runs serial-refine yaw optimization against a wake solver.
type Optimizer struct {
	solver   *wake.Solver
	opts     Options
	verifier *Verifier
}

// New builds an optimizer. Zero-valued options are filled from
// DefaultOptions.
func New(solver *wake.Solver, opts Options) *Optimizer {
	def := DefaultOptions()
	if opts.LowerBound == 0 && opts.UpperBound == 0 {
		opts.LowerBound, opts.UpperBound = def.LowerBound, def.UpperBound
	}
	if len(opts.StepSchedule) == 0 {
		opts.StepSchedule = def.StepSchedule
	}
	if opts.MaxSweeps <= 0 {
		opts.MaxSweeps = def.MaxSweeps
	}
	if opts.Order == "" {
		opts.Order = def.Order
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = def.MaxParallel
	}
	if opts.VerifyAbsTol == 0 {
		opts.VerifyAbsTol = def.VerifyAbsTol
	}
	if opts.VerifyRelTol == 0 {
		opts.VerifyRelTol = def.VerifyRelTol
	}
	return &Optimizer{
		solver:   solver,
		opts:     opts,
		verifier: &Verifier{AbsTol: opts.VerifyAbsTol, RelTol: opts.VerifyRelTol},
	}
}

// resolveBounds expands uniform or per-turbine bounds to one pair per
// turbine and validates them.
func (o *Optimizer) resolveBounds(n int) (lower, upper []float64, err error) {
	if len(o.opts.LowerBounds) != 0 && len(o.opts.LowerBounds) != n {
		return nil, nil, fmt.Errorf("lower bounds length %d does not match turbine count %d", len(o.opts.LowerBounds), n)
	}
	if len(o.opts.UpperBounds) != 0 && len(o.opts.UpperBounds) != n {
		return nil, nil, fmt.Errorf("upper bounds length %d does not match turbine count %d", len(o.opts.UpperBounds), n)
	}
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := 0; i < n; i++ {
		lo, hi := o.opts.LowerBound, o.opts.UpperBound
		if len(o.opts.LowerBounds) == n {
			lo = o.opts.LowerBounds[i]
		}
		if len(o.opts.UpperBounds) == n {
			hi = o.opts.UpperBounds[i]
		}
		if lo > hi {
			return nil, nil, &InvalidBoundsError{Turbine: i, Lower: lo, Upper: hi}
		}
		lower[i], upper[i] = lo, hi
	}
	return lower, upper, nil
}

// Optimize runs serial-refine for every scenario in the batch and returns
// the results table in batch order. Validation failures abort the whole
// call; per-scenario numerical failures degrade that scenario to baseline
// with Converged=false. Cancelling the context abandons the batch.
func (o *Optimizer) Optimize(ctx context.Context, batch wake.Batch) (Table, error) {
	if err := batch.Validate(o.solver.YawLimit()); err != nil {
		return nil, err
	}
	lower, upper, err := o.resolveBounds(batch.Layout.Len())
	if err != nil {
		return nil, err
	}

	table := make(Table, len(batch.Scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.MaxParallel)
	for i, sc := range batch.Scenarios {
		i, sc := i, sc
		g.Go(func() error {
			row, err := o.optimizeScenario(gctx, batch.Layout, sc, lower, upper)
			if err != nil {
				return err
			}
			table[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("optimization finished",
		"scenarios", len(table), "weighted_uplift_w", table.WeightedUplift())
	return table, nil
}
