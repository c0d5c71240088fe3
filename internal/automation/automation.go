package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/experiment"
	"github.com/san-kum/bellman/internal/hjb"
	"github.com/san-kum/bellman/internal/storage"
	"gopkg.in/yaml.v3"
)

// Batch is a scripted sequence of solves loaded from YAML.
type Batch struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Steps       []BatchStep `yaml:"steps"`
}

// BatchStep solves one configuration. Zero fields fall back to the
// preset or the package defaults.
type BatchStep struct {
	Name          string             `yaml:"name"`
	Model         string             `yaml:"model"`
	Preset        string             `yaml:"preset"`
	Params        map[string]float64 `yaml:"params"`
	Points        int                `yaml:"points"`
	Step          float64            `yaml:"step"`
	MaxIterations int                `yaml:"max_iterations"`
	Tolerance     float64            `yaml:"tolerance"`
	Save          bool               `yaml:"save"`
}

// LoadBatch reads a batch script from a YAML file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// StepResult summarizes one executed batch step.
type StepResult struct {
	Name        string
	Model       string
	RunID       string
	Iterations  int
	Converged   bool
	FinalChange float64
}

// RunBatch executes the steps in order. Steps that ask to be saved are
// stored through st; a nil st disables saving.
func RunBatch(ctx context.Context, batch *Batch, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(batch.Steps))

	for i, step := range batch.Steps {
		fmt.Printf("step %d/%d: %s\n", i+1, len(batch.Steps), stepLabel(step))

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{
			Name:       stepLabel(step),
			Model:      cfg.Model,
			Iterations: result.Iterations,
			Converged:  result.Converged,
		}
		if n := len(result.Residuals); n > 0 {
			sr.FinalChange = result.Residuals[n-1]
		}

		if step.Save && st != nil {
			runID, err := st.Save(cfg.Model, exp.Grid(), exp.Settings(), cfg.ParamMap(), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = runID
		}

		results = append(results, sr)
	}

	return results, nil
}

func stepLabel(step BatchStep) string {
	if step.Name != "" {
		return step.Name
	}
	return step.Model
}

func stepConfig(step BatchStep) (*config.Config, error) {
	if step.Model == "" {
		return nil, fmt.Errorf("step has no model")
	}

	cfg := config.DefaultConfig()
	if step.Preset != "" {
		p := config.GetPreset(step.Model, step.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
		c := *p
		cfg = &c
	}
	cfg.Model = step.Model

	for name, val := range step.Params {
		if err := cfg.SetParam(name, val); err != nil {
			return nil, err
		}
	}
	if step.Points > 0 {
		cfg.Grid.Points = step.Points
	}
	if step.Step > 0 {
		cfg.Solver.Step = step.Step
	}
	if step.MaxIterations > 0 {
		cfg.Solver.MaxIterations = step.MaxIterations
	}
	if step.Tolerance > 0 {
		cfg.Solver.Tolerance = step.Tolerance
	}

	return cfg, nil
}

// MonteCarlo perturbs the initial value guess and checks that every
// trial still reaches the same fixed point.
type MonteCarlo struct {
	Trials       int
	Perturbation float64
	Seed         int64
}

// TrialResult holds one perturbed trial. MaxDiff is the sup distance of
// the trial's converged value function from the unperturbed reference.
type TrialResult struct {
	Trial      int
	Iterations int
	Converged  bool
	MaxDiff    float64
}

// RunMonteCarlo solves the reference configuration once, then reruns it
// from randomly perturbed initial guesses.
func RunMonteCarlo(ctx context.Context, cfg *config.Config, mc *MonteCarlo) ([]TrialResult, error) {
	ref := experiment.New(cfg)
	if err := ref.Setup(); err != nil {
		return nil, err
	}
	refResult, err := ref.Run(ctx)
	if err != nil {
		return nil, err
	}
	if !refResult.Converged {
		return nil, fmt.Errorf("reference run did not converge in %d sweeps", refResult.Iterations)
	}

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]TrialResult, 0, mc.Trials)
	for trial := 0; trial < mc.Trials; trial++ {
		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return nil, err
		}

		// Relative noise keeps the guess on the utility's side of zero.
		guess := hjb.DefaultGuess(exp.Model(), exp.Grid())
		for i := range guess {
			guess[i] *= 1 + (rng.Float64()-0.5)*2*mc.Perturbation
		}

		result, err := exp.Solver().Solve(ctx, guess, exp.Settings())
		if err != nil {
			return nil, err
		}

		maxDiff := 0.0
		for i := range result.Value {
			if d := math.Abs(result.Value[i] - refResult.Value[i]); d > maxDiff {
				maxDiff = d
			}
		}

		results = append(results, TrialResult{
			Trial:      trial,
			Iterations: result.Iterations,
			Converged:  result.Converged,
			MaxDiff:    maxDiff,
		})

		if (trial+1)%10 == 0 {
			fmt.Printf("trial %d/%d complete\n", trial+1, mc.Trials)
		}
	}

	return results, nil
}

// Stable counts trials that converged back to the reference within tol.
func Stable(results []TrialResult, tol float64) (stable, unstable int) {
	for _, r := range results {
		if r.Converged && r.MaxDiff < tol {
			stable++
		} else {
			unstable++
		}
	}
	return
}
