package calibrate

import (
	"context"
	"fmt"

	"github.com/san-kum/bellman/internal/analysis"
	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/experiment"
	"github.com/san-kum/bellman/internal/hjb"
)

func withParams(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := *base
	for name, val := range params {
		if err := cfg.SetParam(name, val); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// SteadyStateObjective targets an observed steady-state capital stock.
// The steady state has a closed form, so evaluations never solve the model.
func SteadyStateObjective(base *config.Config, target float64) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg, err := withParams(base, params)
		if err != nil {
			return 0, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return 0, err
		}

		ss, ok := exp.Model().(hjb.SteadyStater)
		if !ok {
			return 0, fmt.Errorf("calibrate: model %s has no steady state", cfg.Model)
		}

		kss, _ := ss.SteadyState()
		miss := (kss - target) / target
		return miss * miss, nil
	}
}

// CrossingObjective targets the capital level where the solved savings
// policy crosses zero. Every evaluation is a full solve, so pair it with
// a coarse grid in the configuration.
func CrossingObjective(base *config.Config, target float64) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg, err := withParams(base, params)
		if err != nil {
			return 0, err
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return 0, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}
		if !result.Converged {
			return 0, fmt.Errorf("calibrate: solver did not converge in %d iterations", result.Iterations)
		}

		crossing, err := analysis.ZeroCrossing(exp.Grid(), result.Drift)
		if err != nil {
			return 0, err
		}

		miss := (crossing - target) / target
		return miss * miss, nil
	}
}
