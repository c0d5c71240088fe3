package hjb

import (
	"errors"
	"math"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g, err := NewGrid(0.1, 10, 100)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if g.Len() != 100 {
		t.Errorf("expected 100 points, got %d", g.Len())
	}
	if g.Min() != 0.1 || g.Max() != 10 {
		t.Errorf("expected span [0.1, 10], got [%g, %g]", g.Min(), g.Max())
	}

	wantStep := (10 - 0.1) / 99
	if math.Abs(g.Step()-wantStep) > 1e-15 {
		t.Errorf("expected step %g, got %g", wantStep, g.Step())
	}

	for i := 1; i < g.Len(); i++ {
		d := g.At(i) - g.At(i-1)
		if math.Abs(d-wantStep) > 1e-12 {
			t.Errorf("spacing at %d is %g, want %g", i, d, wantStep)
		}
	}
}

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		points   int
		want     error
	}{
		{"one point", 0, 1, 1, ErrGridTooSmall},
		{"zero points", 0, 1, 0, ErrGridTooSmall},
		{"reversed span", 5, 1, 10, ErrGridNotIncreasing},
		{"empty span", 2, 2, 10, ErrGridNotIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.min, tt.max, tt.points)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromPoints(t *testing.T) {
	pts := []float64{1, 1.5, 2, 2.5, 3}
	g, err := FromPoints(pts)
	if err != nil {
		t.Fatalf("FromPoints failed: %v", err)
	}
	if g.Len() != 5 || g.Step() != 0.5 {
		t.Errorf("expected 5 points with step 0.5, got %d and %g", g.Len(), g.Step())
	}

	// grid owns a copy
	pts[2] = 99
	if g.At(2) != 2 {
		t.Error("grid shares storage with the input slice")
	}
}

func TestFromPointsValidation(t *testing.T) {
	tests := []struct {
		name string
		pts  []float64
		want error
	}{
		{"too small", []float64{1}, ErrGridTooSmall},
		{"decreasing", []float64{1, 0.5, 2}, ErrGridNotIncreasing},
		{"repeated", []float64{1, 1, 2}, ErrGridNotIncreasing},
		{"uneven", []float64{1, 2, 4}, ErrGridNotUniform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPoints(tt.pts)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
