package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrTooFewResiduals indicates a residual history too short to fit.
var ErrTooFewResiduals = errors.New("analysis: need at least two positive residuals")

// ConvergenceRate fits a geometric decay factor to a residual history
// by regressing log residuals on the iteration index. A factor below
// one means the error shrinks by that ratio per iteration; returns
// ErrTooFewResiduals when fewer than two residuals are positive.
func ConvergenceRate(residuals []float64) (float64, error) {
	xs := make([]float64, 0, len(residuals))
	ys := make([]float64, 0, len(residuals))
	for i, r := range residuals {
		if r > 0 {
			xs = append(xs, float64(i))
			ys = append(ys, math.Log10(r))
		}
	}
	if len(xs) < 2 {
		return 0, ErrTooFewResiduals
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return math.Pow(10, slope), nil
}
