package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/hjb"
)

// Sweep solves the model once per value of a single swept parameter.
// Runs share nothing, so they go out in parallel.
type Sweep struct {
	base   *config.Config
	param  string
	values []float64
}

func NewSweep(cfg *config.Config, param string, values []float64) *Sweep {
	return &Sweep{base: cfg, param: param, values: values}
}

func (s *Sweep) Run(ctx context.Context) ([]*hjb.Result, error) {
	results := make([]*hjb.Result, len(s.values))
	errs := make([]error, len(s.values))

	var wg sync.WaitGroup
	for i := range s.values {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *s.base
			if err := applyValue(&cfgCopy, s.param, s.values[idx]); err != nil {
				errs[idx] = err
				return
			}

			exp := New(&cfgCopy)
			if err := exp.Setup(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func applyValue(cfg *config.Config, param string, value float64) error {
	switch param {
	case "step":
		cfg.Solver.Step = value
	case "points":
		cfg.Grid.Points = int(value)
	default:
		return cfg.SetParam(param, value)
	}
	return nil
}
