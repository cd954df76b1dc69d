package wake

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/gowake/wakesim/internal/farm"
	"github.com/gowake/wakesim/pkg/utils"
)

// cosineExponent governs the power lost by a yawed rotor: P scales with
// cos(yaw)^cosineExponent.
const cosineExponent = 1.88

// defaultYawLimit bounds the yaw magnitude Validate accepts, in degrees.
const defaultYawLimit = 45.0

// Solver evaluates scenario batches against a wake model. It holds no
// mutable state and is safe for concurrent use; every evaluation is a pure
// function of (layout, condition, yaw).
type Solver struct {
	model    Model
	yawLimit float64
}

// Option configures a Solver.
type Option func(*Solver)

// WithYawLimit sets the maximum yaw magnitude in degrees accepted by
// validation.
func WithYawLimit(deg float64) Option {
	return func(s *Solver) { s.yawLimit = deg }
}

// WithModel swaps the wake model.
func WithModel(m Model) Option {
	return func(s *Solver) { s.model = m }
}

// NewSolver builds a solver with the Gaussian model unless overridden.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{model: NewGaussian(), yawLimit: defaultYawLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// YawLimit returns the configured yaw magnitude bound in degrees.
func (s *Solver) YawLimit() float64 {
	return s.yawLimit
}

// Result is the aggregate-mode output for one scenario.
type Result struct {
	Speeds    []float64 // effective inflow per turbine, m/s
	Powers    []float64 // power per turbine, W
	FarmPower float64   // sum of Powers, W
}

// Evaluate computes aggregate results for every scenario in the batch.
// Validation failures abort the whole call before any scenario is solved;
// scenarios are evaluated in parallel and never observe each other.
func (s *Solver) Evaluate(batch Batch) ([]Result, error) {
	if err := batch.Validate(s.yawLimit); err != nil {
		return nil, err
	}

	results := make([]Result, len(batch.Scenarios))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sc := range batch.Scenarios {
		i, sc := i, sc
		g.Go(func() error {
			res, err := s.EvaluateScenario(batch.Layout, sc)
			if err != nil {
				return fmt.Errorf("scenario %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EvaluateScenario computes the aggregate result for a single scenario.
// The yaw vector length is assumed validated by the caller; physics
// failures (non-finite speeds) surface as errors.
func (s *Solver) EvaluateScenario(layout farm.Layout, sc Scenario) (Result, error) {
	states, err := s.solveStates(layout, sc)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Speeds: make([]float64, len(states)),
		Powers: make([]float64, len(states)),
	}
	for i, st := range states {
		tb := layout.Turbine(i)
		yawRad := utils.Radians(st.Yaw)
		res.Speeds[i] = st.Speed
		res.Powers[i] = tb.Type.Power(st.Speed) * math.Pow(math.Cos(yawRad), cosineExponent)
	}
	res.FarmPower = utils.Sum(res.Powers)
	return res, nil
}

// flowAngle returns the rotation angle such that the flow for the given
// meteorological direction runs along +down. 270 degrees (wind from west)
// is the identity.
func flowAngle(direction float64) float64 {
	return utils.Radians(direction - 270)
}

// toFlow maps world (x, y) into flow-aligned (down, cross).
func toFlow(x, y, sin, cos float64) (down, cross float64) {
	return x*cos - y*sin, x*sin + y*cos
}

// shearSpeed applies the power-law vertical profile relative to the layout
// reference height.
func shearSpeed(speed, height, refHeight, exponent float64) float64 {
	if exponent == 0 || height == refHeight || refHeight <= 0 || height <= 0 {
		return speed
	}
	return speed * math.Pow(height/refHeight, exponent)
}

// solveStates walks turbines in streamwise order for the scenario's
// direction, superposing upstream deficits by root-sum-square, and returns
// the solved per-turbine states in layout order.
func (s *Solver) solveStates(layout farm.Layout, sc Scenario) ([]TurbineState, error) {
	n := layout.Len()
	angle := flowAngle(sc.Condition.Direction)
	sin, cos := math.Sin(angle), math.Cos(angle)
	refHeight := layout.RefHubHeight()

	states := make([]TurbineState, n)
	for i := 0; i < n; i++ {
		tb := layout.Turbine(i)
		down, cross := toFlow(tb.X, tb.Y, sin, cos)
		states[i] = TurbineState{
			Down:          down,
			Cross:         cross,
			HubHeight:     tb.HubHeight,
			RotorDiameter: tb.RotorDiameter,
			Yaw:           sc.Yaw[i],
			TI:            sc.Condition.TI,
		}
	}

	order := streamwiseOrder(states)

	for pos, i := range order {
		tb := layout.Turbine(i)
		free := shearSpeed(sc.Condition.Speed, tb.HubHeight, refHeight, sc.Condition.Shear)

		sumSq := 0.0
		for _, j := range order[:pos] {
			u := states[j]
			frac := s.model.Deficit(u, states[i].Down, states[i].Cross, states[i].HubHeight)
			if frac > 0 {
				d := frac * u.Speed
				sumSq += d * d
			}
		}
		eff := free - math.Sqrt(sumSq)
		if eff < 0 {
			eff = 0
		}
		if math.IsNaN(eff) || math.IsInf(eff, 0) {
			return nil, fmt.Errorf("non-finite inflow at turbine %d (direction %g, speed %g)",
				i, sc.Condition.Direction, sc.Condition.Speed)
		}
		states[i].Speed = eff
		states[i].Ct = tb.Type.Thrust(eff)
	}
	return states, nil
}

// StreamwiseOrder returns turbine indices sorted upstream to downstream
// for the given wind direction. The yaw optimizer uses this as its default
// refinement order.
func StreamwiseOrder(layout farm.Layout, direction float64) []int {
	angle := flowAngle(direction)
	sin, cos := math.Sin(angle), math.Cos(angle)
	states := make([]TurbineState, layout.Len())
	for i := range states {
		tb := layout.Turbine(i)
		down, cross := toFlow(tb.X, tb.Y, sin, cos)
		states[i] = TurbineState{Down: down, Cross: cross}
	}
	return streamwiseOrder(states)
}

// streamwiseOrder returns turbine indices sorted upstream to downstream.
// The sort is stable so coincident downwind positions keep layout order.
func streamwiseOrder(states []TurbineState) []int {
	order := make([]int, len(states))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return states[order[a]].Down < states[order[b]].Down
	})
	return order
}
