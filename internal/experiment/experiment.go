package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/hjb"
)

type Experiment struct {
	cfg    *config.Config
	model  hjb.Model
	grid   *hjb.Grid
	solver *hjb.Solver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the model, resolves the capital grid and wires the solver.
// Relative grid bounds are fractions of the model's steady-state capital.
func (e *Experiment) Setup() error {
	registry := NewRegistry()

	model, err := registry.GetModel(e.cfg.Model)
	if err != nil {
		return err
	}

	if conf, ok := model.(hjb.Configurable); ok {
		known := conf.GetParams()
		for name, val := range e.cfg.ParamMap() {
			if _, ok := known[name]; !ok {
				continue
			}
			if err := conf.SetParam(name, val); err != nil {
				return fmt.Errorf("param %s: %w", name, err)
			}
		}
	}

	gridMin := e.cfg.Grid.Min
	gridMax := e.cfg.Grid.Max
	if e.cfg.Grid.Relative {
		ss, ok := model.(hjb.SteadyStater)
		if !ok {
			return fmt.Errorf("model %s has no steady state, use absolute grid bounds", e.cfg.Model)
		}
		kstar, _ := ss.SteadyState()
		gridMin *= kstar
		gridMax *= kstar
	}

	grid, err := hjb.NewGrid(gridMin, gridMax, e.cfg.Grid.Points)
	if err != nil {
		return err
	}

	solver := hjb.New(model, grid)
	for _, m := range registry.DefaultMetrics() {
		solver.AddMetric(m)
	}

	e.model = model
	e.grid = grid
	e.solver = solver
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*hjb.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	guess := hjb.DefaultGuess(e.model, e.grid)
	return e.solver.Solve(ctx, guess, e.Settings())
}

func (e *Experiment) Settings() hjb.Settings {
	cfg := hjb.DefaultSettings()
	cfg.Step = e.cfg.Solver.Step
	cfg.MaxIterations = e.cfg.Solver.MaxIterations
	cfg.Tolerance = e.cfg.Solver.Tolerance
	return cfg
}

func (e *Experiment) Model() hjb.Model {
	return e.model
}

func (e *Experiment) Grid() *hjb.Grid {
	return e.grid
}

// Solver returns the underlying solver for adding observers
func (e *Experiment) Solver() *hjb.Solver {
	return e.solver
}
