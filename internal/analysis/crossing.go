package analysis

import (
	"errors"

	"github.com/san-kum/bellman/internal/hjb"
)

// ErrNoCrossing indicates a savings policy that never changes sign.
var ErrNoCrossing = errors.New("analysis: savings policy has no zero crossing")

// ZeroCrossing locates the state where the savings policy crosses from
// positive to negative, interpolating linearly between grid points.
// For a converged growth model this is the numerical steady state.
func ZeroCrossing(g *hjb.Grid, drift []float64) (float64, error) {
	if len(drift) != g.Len() {
		return 0, ErrLengthMismatch
	}

	if drift[0] == 0 {
		return g.At(0), nil
	}
	for i := 1; i < len(drift); i++ {
		if drift[i] == 0 {
			return g.At(i), nil
		}
		if drift[i-1] > 0 && drift[i] < 0 {
			s0, s1 := drift[i-1], drift[i]
			return g.At(i-1) + g.Step()*s0/(s0-s1), nil
		}
	}
	return 0, ErrNoCrossing
}
