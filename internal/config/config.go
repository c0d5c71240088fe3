package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPoints    = 1000
	DefaultGridMin   = 0.1
	DefaultGridMax   = 2.0
	DefaultStep      = 1000.0
	DefaultMaxIter   = 100
	DefaultTolerance = 1e-8
)

type Config struct {
	Model  string       `yaml:"model"`
	Grid   GridConfig   `yaml:"grid"`
	Solver SolverConfig `yaml:"solver"`
	Params ParamsConfig `yaml:"params"`
}

// GridConfig spans the capital grid. With Relative set, Min and Max
// are fractions of the model's closed-form steady state.
type GridConfig struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Points   int     `yaml:"points"`
	Relative bool    `yaml:"relative"`
}

type SolverConfig struct {
	Step          float64 `yaml:"step"`
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
}

type ParamsConfig struct {
	Gamma float64 `yaml:"gamma"`
	Alpha float64 `yaml:"alpha"`
	Delta float64 `yaml:"delta"`
	Rho   float64 `yaml:"rho"`
	TFP   float64 `yaml:"tfp"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: "crra",
		Grid: GridConfig{
			Min:      DefaultGridMin,
			Max:      DefaultGridMax,
			Points:   DefaultPoints,
			Relative: true,
		},
		Solver: SolverConfig{
			Step:          DefaultStep,
			MaxIterations: DefaultMaxIter,
			Tolerance:     DefaultTolerance,
		},
		Params: ParamsConfig{
			Gamma: 2.0,
			Alpha: 0.3,
			Delta: 0.05,
			Rho:   0.05,
			TFP:   1.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParamMap flattens the model parameters for Configurable.SetParam.
// The log model ignores gamma.
func (c *Config) ParamMap() map[string]float64 {
	return map[string]float64{
		"gamma": c.Params.Gamma,
		"alpha": c.Params.Alpha,
		"delta": c.Params.Delta,
		"rho":   c.Params.Rho,
		"tfp":   c.Params.TFP,
	}
}

// SetParam sets one model parameter by name. Value validation is left to
// the model itself.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "gamma":
		c.Params.Gamma = value
	case "alpha":
		c.Params.Alpha = value
	case "delta":
		c.Params.Delta = value
	case "rho":
		c.Params.Rho = value
	case "tfp":
		c.Params.TFP = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
