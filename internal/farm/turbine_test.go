package farm

import (
	"errors"
	"testing"
)

func rowLayout(t *testing.T, n int, spacing float64) Layout {
	t.Helper()
	tt := RefNREL5MW()
	turbines := make([]Turbine, 0, n)
	for i := 0; i < n; i++ {
		turbines = append(turbines, Turbine{
			X:             float64(i) * spacing,
			Y:             0,
			HubHeight:     90,
			RotorDiameter: 126,
			Type:          tt,
		})
	}
	layout, err := NewLayout(turbines)
	if err != nil {
		t.Fatalf("unexpected layout error: %v", err)
	}
	return layout
}

func TestNewLayoutRejectsEmpty(t *testing.T) {
	_, err := NewLayout(nil)
	var invalid *InvalidLayoutError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidLayoutError, got %v", err)
	}
}

func TestNewLayoutRejectsCoincidentTurbines(t *testing.T) {
	tt := RefNREL5MW()
	_, err := NewLayout([]Turbine{
		{X: 0, Y: 0, HubHeight: 90, RotorDiameter: 126, Type: tt},
		{X: 0.2, Y: 0.1, HubHeight: 90, RotorDiameter: 126, Type: tt},
	})
	var invalid *InvalidLayoutError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidLayoutError for coincident turbines, got %v", err)
	}
}

func TestNewLayoutRejectsMissingType(t *testing.T) {
	_, err := NewLayout([]Turbine{{X: 0, Y: 0, HubHeight: 90, RotorDiameter: 126}})
	var invalid *InvalidLayoutError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidLayoutError for missing type, got %v", err)
	}
}

func TestLayoutIsCopied(t *testing.T) {
	layout := rowLayout(t, 3, 630)
	turbines := layout.Turbines()
	turbines[0].X = 999

	if layout.Turbine(0).X != 0 {
		t.Fatalf("layout mutated through Turbines() copy")
	}
	if layout.Len() != 3 {
		t.Fatalf("expected 3 turbines, got %d", layout.Len())
	}
	if layout.RefHubHeight() != 90 {
		t.Fatalf("expected ref hub height 90, got %g", layout.RefHubHeight())
	}
}
