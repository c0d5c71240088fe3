// Package calibrate searches model parameters to match observed moments.
//
// A calibration runs in two stages: a coarse grid search over named
// parameter ranges, then a derivative-based refinement from the winning
// point. Objectives score a candidate parameter set, lower being better.
package calibrate

import "context"

// Objective scores one candidate parameter set. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)
