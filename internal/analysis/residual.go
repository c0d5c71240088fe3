package analysis

import (
	"errors"

	"github.com/san-kum/bellman/internal/hjb"
)

// ErrLengthMismatch indicates a slice that does not match the grid.
var ErrLengthMismatch = errors.New("analysis: slice length does not match grid")

// Residuals evaluates how far a solution sits from the stationary HJB
// equation rho*v = u(c) + v'*f(k, c) at every grid point, taking the
// derivative upwind of the savings direction. Converged solutions show
// residuals near zero away from the grid ends.
func Residuals(m hjb.Model, g *hjb.Grid, value, policy []float64) ([]float64, error) {
	n := g.Len()
	if len(value) != n || len(policy) != n {
		return nil, ErrLengthMismatch
	}

	dk := g.Step()
	rho := m.Discount()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		k := g.At(i)
		drift := m.Drift(k, policy[i])

		var dv float64
		switch {
		case drift > 0 && i < n-1:
			dv = (value[i+1] - value[i]) / dk
		case drift > 0:
			dv = (value[i] - value[i-1]) / dk
		case drift < 0 && i > 0:
			dv = (value[i] - value[i-1]) / dk
		case drift < 0:
			dv = (value[i+1] - value[i]) / dk
		}

		out[i] = rho*value[i] - m.Utility(policy[i]) - dv*drift
	}
	return out, nil
}
