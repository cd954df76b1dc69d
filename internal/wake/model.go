package wake

// TurbineState is the solved state of one turbine in flow-aligned
// coordinates: its hub position (Down grows downwind, Cross to the left of
// the flow), geometry, effective inflow and thrust at that inflow.
type TurbineState struct {
	Down          float64
	Cross         float64
	HubHeight     float64
	RotorDiameter float64
	Speed         float64 // effective inflow, m/s
	Ct            float64 // thrust coefficient at Speed
	Yaw           float64 // degrees
	TI            float64 // ambient turbulence intensity
}

// Model is the pluggable wake physics: given an upstream turbine's solved
// state, it returns the fractional velocity deficit it induces at a sample
// point (flow-aligned coordinates, height above ground). Implementations
// must be deterministic, return 0 for points not influenced by the wake,
// and deflect the wake centerline monotonically with yaw magnitude.
type Model interface {
	Deficit(upstream TurbineState, down, cross, height float64) float64
	Name() string
}
