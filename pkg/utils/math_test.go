package utils

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestClampFloat64(t *testing.T) {
	if got := ClampFloat64(-30.5, -25, 25); got != -25 {
		t.Fatalf("expected -25, got %f", got)
	}
	if got := ClampFloat64(12.5, -25, 25); got != 12.5 {
		t.Fatalf("expected 12.5, got %f", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Fatalf("expected 5, got %f", got)
	}
	if got := Lerp(2, 4, 0); got != 2 {
		t.Fatalf("expected 2, got %f", got)
	}
	if got := Lerp(2, 4, 1); got != 4 {
		t.Fatalf("expected 4, got %f", got)
	}
}

func TestMeanAndSum(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	if got := Mean(values); got != 2.5 {
		t.Fatalf("expected mean 2.5, got %f", got)
	}
	if got := Sum(values); got != 10 {
		t.Fatalf("expected sum 10, got %f", got)
	}
	if got := Mean(nil); got != 0 {
		t.Fatalf("expected mean of empty slice to be 0, got %f", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Fatalf("expected 3.14, got %f", got)
	}
	if got := Round(2.5, 0); got != 3 {
		t.Fatalf("expected 3, got %f", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-10, 1e-9) {
		t.Fatalf("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatalf("expected values to differ")
	}
}

func TestAngleConversions(t *testing.T) {
	if got := Radians(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Fatalf("expected pi, got %f", got)
	}
	if got := Degrees(math.Pi / 2); math.Abs(got-90) > 1e-12 {
		t.Fatalf("expected 90, got %f", got)
	}
}
