// Package wake computes steady-state wind-farm flow: per-turbine effective
// wind speeds and power under wake interaction, for batches of independent
// wind scenarios, plus dense velocity fields over query planes.
//
// The deficit/deflection physics is a pluggable Model; the solver itself
// only fixes the frame (streamwise ordering, root-sum-square superposition,
// power-law vertical shear) and is a pure function of its inputs.
package wake
