package wake

import (
	"math"

	"github.com/gowake/wakesim/pkg/utils"
)

// Gaussian is the default wake model: a self-similar Gaussian deficit
// profile whose width grows linearly with downwind distance and ambient
// turbulence, with a Jimenez-style lateral deflection of the centerline
// under yaw.
type Gaussian struct {
	KA float64 // wake expansion per unit TI
	KB float64 // baseline wake expansion
	KD float64 // deflection decay coefficient
}

// NewGaussian returns the model with its standard coefficients.
func NewGaussian() *Gaussian {
	return &Gaussian{KA: 0.38, KB: 0.004, KD: 0.05}
}

func (g *Gaussian) Name() string {
	return "gauss"
}

// Deficit implements Model.
func (g *Gaussian) Deficit(u TurbineState, down, cross, height float64) float64 {
	d := u.RotorDiameter
	dx := down - u.Down
	// No upstream influence; the near-wake guard keeps sigma finite.
	if dx < 0.1*d {
		return 0
	}

	yaw := utils.Radians(u.Yaw)
	ct := u.Ct * math.Cos(yaw)
	if ct <= 0 {
		return 0
	}
	if ct > 0.999 {
		ct = 0.999
	}

	k := g.KA*u.TI + g.KB
	beta := 0.5 * (1 + math.Sqrt(1-ct)) / math.Sqrt(1-ct)
	sigma := k*dx + 0.2*math.Sqrt(beta)*d

	centre := 1 - math.Sqrt(math.Max(0, 1-ct*d*d/(8*sigma*sigma)))

	dy := cross - u.Cross - g.deflection(u, dx)
	dz := height - u.HubHeight
	r2 := dy*dy + dz*dz

	return centre * math.Exp(-r2/(2*sigma*sigma))
}

// deflection returns the lateral offset of the wake centerline at downwind
// distance dx, positive toward positive crosswind for positive yaw. Odd in
// yaw, zero at zero yaw, saturating far downstream.
func (g *Gaussian) deflection(u TurbineState, dx float64) float64 {
	yaw := utils.Radians(u.Yaw)
	cosYaw := math.Cos(yaw)
	xi := 0.5 * cosYaw * cosYaw * math.Sin(yaw) * u.Ct
	if xi == 0 {
		return 0
	}
	d := u.RotorDiameter
	kd := g.KD
	grown := 2*kd*dx/d + 1
	decayed := xi * (15*math.Pow(grown, 4) + xi*xi) / ((30 * kd / d) * math.Pow(grown, 5))
	initial := xi * d * (15 + xi*xi) / (30 * kd)
	return initial - decayed
}
