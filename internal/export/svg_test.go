package export

import (
	"strings"
	"testing"

	"github.com/san-kum/bellman/internal/hjb"
	"github.com/san-kum/bellman/internal/tui"
)

func TestCanvasToSVG(t *testing.T) {
	if got := CanvasToSVG(nil, 4); got != "" {
		t.Error("expected empty output for nil canvas")
	}

	c := tui.NewCanvas(10, 5)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 4)
	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("expected XML declaration")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("expected a circle for the lit dot")
	}
}

func TestCurveToSVG(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{0.5, 0.8, 1.1, 1.3}

	svg := CurveToSVG(xs, ys, 400, 300, "#00ff00")
	if !strings.Contains(svg, "<path") {
		t.Error("expected a path element")
	}
	if !strings.Contains(svg, "#00ff00") {
		t.Error("expected the stroke color to appear")
	}

	if got := CurveToSVG(xs[:1], ys[:1], 400, 300, "#fff"); got != "" {
		t.Error("expected empty output for a single point")
	}
	if got := CurveToSVG(xs, ys[:2], 400, 300, "#fff"); got != "" {
		t.Error("expected empty output for mismatched lengths")
	}
}

func TestSolutionToSVG(t *testing.T) {
	g, err := hjb.NewGrid(1, 3, 5)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	result := &hjb.Result{
		Value:  []float64{-20, -18.5, -17.2, -16.1, -15.3},
		Policy: []float64{0.9, 1.0, 1.1, 1.2, 1.3},
		Drift:  []float64{0.1, 0.05, 0.0, -0.04, -0.09},
	}

	svg := SolutionToSVG(g, result, 500, 160)
	for _, color := range []string{"#00ff00", "#00bfff", "#ff8c00"} {
		if !strings.Contains(svg, color) {
			t.Errorf("expected panel color %s", color)
		}
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("expected a dashed zero line in the savings panel")
	}
	if strings.Count(svg, "<path") != 3 {
		t.Errorf("expected 3 panels, got %d", strings.Count(svg, "<path"))
	}
}
