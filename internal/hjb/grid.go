package hjb

import "math"

// relative slack allowed when checking uniform spacing
const uniformTol = 1e-8

// Grid is a uniform 1-D state grid, immutable once constructed.
type Grid struct {
	points []float64
	step   float64
}

// NewGrid builds a grid of evenly spaced points spanning [min, max].
func NewGrid(min, max float64, points int) (*Grid, error) {
	if points < 2 {
		return nil, ErrGridTooSmall
	}
	if max <= min {
		return nil, ErrGridNotIncreasing
	}
	pts := make([]float64, points)
	step := (max - min) / float64(points-1)
	for i := range pts {
		pts[i] = min + float64(i)*step
	}
	pts[points-1] = max
	return &Grid{points: pts, step: step}, nil
}

// FromPoints builds a grid from existing points, which must be strictly
// increasing and evenly spaced. The slice is copied.
func FromPoints(pts []float64) (*Grid, error) {
	if len(pts) < 2 {
		return nil, ErrGridTooSmall
	}
	step := (pts[len(pts)-1] - pts[0]) / float64(len(pts)-1)
	if step <= 0 {
		return nil, ErrGridNotIncreasing
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i] - pts[i-1]
		if d <= 0 {
			return nil, ErrGridNotIncreasing
		}
		if math.Abs(d-step) > uniformTol*step {
			return nil, ErrGridNotUniform
		}
	}
	return &Grid{points: clone(pts), step: step}, nil
}

func (g *Grid) Len() int         { return len(g.points) }
func (g *Grid) Step() float64    { return g.step }
func (g *Grid) At(i int) float64 { return g.points[i] }
func (g *Grid) Min() float64     { return g.points[0] }
func (g *Grid) Max() float64     { return g.points[len(g.points)-1] }

// Points returns a copy of the grid points.
func (g *Grid) Points() []float64 { return clone(g.points) }
