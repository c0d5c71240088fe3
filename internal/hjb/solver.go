package hjb

import (
	"context"
	"fmt"
)

type Solver struct {
	model     Model
	grid      *Grid
	metrics   []Metric
	observers []Observer
}

func New(model Model, grid *Grid) *Solver {
	return &Solver{
		model:     model,
		grid:      grid,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Solve iterates from guess until the sup-norm change drops below
// cfg.Tolerance or the budget runs out. On convergence the newly
// computed, lower-residual iterate is the one reported.
func (s *Solver) Solve(ctx context.Context, guess []float64, cfg Settings) (*Result, error) {
	if err := validateSettings(cfg); err != nil {
		return nil, err
	}
	it, err := NewIterator(s.model, s.grid, guess, cfg.Step)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Residuals: make([]float64, 0, cfg.MaxIterations),
		Metrics:   make(map[string]float64),
	}
	if cfg.KeepHistory {
		result.History = make([][]float64, 0, cfg.MaxIterations)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		diff, err := it.Step()
		if err != nil {
			return nil, &IterationError{Iteration: i, Wrapped: err}
		}
		if cfg.ValidateState && !finite(it.v) {
			return nil, &IterationError{Iteration: i, Wrapped: ErrNumericDomain}
		}

		result.Iterations++
		result.Residuals = append(result.Residuals, diff)
		if cfg.KeepHistory {
			result.History = append(result.History, clone(it.v))
		}

		for _, m := range s.metrics {
			m.Observe(i, it.v, it.cons, diff)
		}
		for _, obs := range s.observers {
			obs.OnIteration(i, it.v, it.cons, diff)
		}

		if diff < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Value = clone(it.v)
	result.Policy = clone(it.cons)
	result.Drift = clone(it.drift)

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateSettings(cfg Settings) error {
	if cfg.Step <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidStep, cfg.Step)
	}
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidTolerance, cfg.Tolerance)
	}
	if cfg.MaxIterations <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidBudget, cfg.MaxIterations)
	}
	return nil
}

// DefaultGuess seeds the iteration with u(F(k))/rho, the discounted
// payoff of consuming current output forever at each grid point.
func DefaultGuess(m Model, g *Grid) []float64 {
	v := make([]float64, g.Len())
	for i := range v {
		v[i] = m.Utility(m.Production(g.At(i))) / m.Discount()
	}
	return v
}
