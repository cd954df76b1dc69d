package wake

import (
	"math"
	"testing"
)

func upstreamState(yaw float64) TurbineState {
	return TurbineState{
		Down:          0,
		Cross:         0,
		HubHeight:     90,
		RotorDiameter: 126,
		Speed:         8,
		Ct:            0.78,
		Yaw:           yaw,
		TI:            0.06,
	}
}

func TestGaussianNoDeficitUpstream(t *testing.T) {
	g := NewGaussian()
	u := upstreamState(0)

	if got := g.Deficit(u, -100, 0, 90); got != 0 {
		t.Fatalf("expected zero deficit upstream, got %g", got)
	}
	if got := g.Deficit(u, 0, 0, 90); got != 0 {
		t.Fatalf("expected zero deficit at the rotor plane, got %g", got)
	}
}

func TestGaussianDeficitDecaysDownstream(t *testing.T) {
	g := NewGaussian()
	u := upstreamState(0)

	near := g.Deficit(u, 3*126, 0, 90)
	far := g.Deficit(u, 10*126, 0, 90)
	if near <= far {
		t.Fatalf("deficit should decay downstream: near %g, far %g", near, far)
	}
	if far <= 0 {
		t.Fatalf("far wake should still carry a deficit, got %g", far)
	}
}

func TestGaussianDeficitDecaysOffCenter(t *testing.T) {
	g := NewGaussian()
	u := upstreamState(0)

	center := g.Deficit(u, 5*126, 0, 90)
	offset := g.Deficit(u, 5*126, 100, 90)
	high := g.Deficit(u, 5*126, 0, 190)
	if offset >= center {
		t.Fatalf("deficit should decay off-center laterally: center %g, offset %g", center, offset)
	}
	if high >= center {
		t.Fatalf("deficit should decay off-center vertically: center %g, high %g", center, high)
	}
}

func TestGaussianDeflectionMonotoneInYaw(t *testing.T) {
	g := NewGaussian()
	dx := 5 * 126.0

	prev := 0.0
	for _, yaw := range []float64{5, 10, 15, 20, 25} {
		d := g.deflection(upstreamState(yaw), dx)
		if d <= prev {
			t.Fatalf("deflection should grow with yaw: %g at %g deg after %g", d, yaw, prev)
		}
		prev = d
	}
}

func TestGaussianDeflectionOddInYaw(t *testing.T) {
	g := NewGaussian()
	dx := 5 * 126.0

	pos := g.deflection(upstreamState(18), dx)
	neg := g.deflection(upstreamState(-18), dx)
	if math.Abs(pos+neg) > 1e-9 {
		t.Fatalf("deflection should be odd in yaw: %g vs %g", pos, neg)
	}
	if zero := g.deflection(upstreamState(0), dx); zero != 0 {
		t.Fatalf("zero yaw should not deflect, got %g", zero)
	}
}

func TestGaussianYawShiftsWakeCenter(t *testing.T) {
	g := NewGaussian()
	u := upstreamState(20)
	dx := 5 * 126.0

	onAxis := g.Deficit(u, dx, 0, 90)
	shifted := g.Deficit(u, dx, g.deflection(u, dx), 90)
	if shifted <= onAxis {
		t.Fatalf("deficit peak should follow the deflected centerline: on-axis %g, shifted %g", onAxis, shifted)
	}
}

func TestGaussianWidensWithTurbulence(t *testing.T) {
	g := NewGaussian()
	calm := upstreamState(0)
	calm.TI = 0.02
	rough := upstreamState(0)
	rough.TI = 0.15

	// Higher TI spreads the wake: weaker at the centerline far downstream.
	dx := 8 * 126.0
	if g.Deficit(rough, dx, 0, 90) >= g.Deficit(calm, dx, 0, 90) {
		t.Fatalf("turbulent wake should recover faster at the centerline")
	}
}
