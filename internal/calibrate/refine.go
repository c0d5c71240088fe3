package calibrate

import (
	"context"
	"math"
	"sort"

	"github.com/san-kum/bellman/internal/minimize"
)

// Refine polishes a parameter point with a descent on the objective.
// Failed evaluations count as infinitely bad, which makes the line search
// back away from invalid parameter regions instead of aborting.
func Refine(ctx context.Context, start map[string]float64, obj Objective) (map[string]float64, float64, error) {
	names := make([]string, 0, len(start))
	for name := range start {
		names = append(names, name)
	}
	sort.Strings(names)

	x0 := make([]float64, len(names))
	for i, name := range names {
		x0[i] = start[name]
	}

	var evalErr error
	p := minimize.Problem{
		Func: func(x []float64) float64 {
			params := make(map[string]float64, len(names))
			for i, name := range names {
				params[name] = x[i]
			}

			val, err := obj(ctx, params)
			if err != nil {
				if evalErr == nil {
					evalErr = err
				}
				return math.Inf(1)
			}
			return val
		},
	}

	sol, err := minimize.Minimize(p, x0)
	if err != nil {
		if evalErr != nil {
			return nil, 0, evalErr
		}
		return nil, 0, err
	}
	if math.IsInf(sol.F, 1) && evalErr != nil {
		return nil, 0, evalErr
	}

	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = sol.X[i]
	}
	return out, sol.F, nil
}
