package config

var Presets = map[string]map[string]*Config{
	"crra": {
		"baseline": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.1, Max: 2.0, Points: 1000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 100, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 2, Alpha: 0.3, Delta: 0.05, Rho: 0.05, TFP: 1},
		},
		"paper": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.001, Max: 2.0, Points: 10000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 100, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 2, Alpha: 0.3, Delta: 0.05, Rho: 0.05, TFP: 1},
		},
		"patient": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.1, Max: 3.0, Points: 1000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 150, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 2, Alpha: 0.3, Delta: 0.05, Rho: 0.02, TFP: 1},
		},
		"impatient": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.1, Max: 2.0, Points: 1000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 100, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 2, Alpha: 0.3, Delta: 0.05, Rho: 0.1, TFP: 1},
		},
		"risk-averse": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.1, Max: 2.0, Points: 1000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 150, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 5, Alpha: 0.3, Delta: 0.05, Rho: 0.05, TFP: 1},
		},
		"coarse": {
			Model:  "crra",
			Grid:   GridConfig{Min: 0.1, Max: 2.0, Points: 200, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 100, Tolerance: 1e-8},
			Params: ParamsConfig{Gamma: 2, Alpha: 0.3, Delta: 0.05, Rho: 0.05, TFP: 1},
		},
	},
	"log": {
		"baseline": {
			Model:  "log",
			Grid:   GridConfig{Min: 0.1, Max: 2.0, Points: 1000, Relative: true},
			Solver: SolverConfig{Step: 1000, MaxIterations: 100, Tolerance: 1e-8},
			Params: ParamsConfig{Alpha: 0.3, Delta: 0.05, Rho: 0.05, TFP: 1},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
