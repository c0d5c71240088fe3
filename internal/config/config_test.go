package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "crra" {
		t.Errorf("expected model crra, got %s", cfg.Model)
	}
	if cfg.Grid.Points < 2 {
		t.Error("grid needs at least two points")
	}
	if !cfg.Grid.Relative {
		t.Error("default grid should be relative to the steady state")
	}
	if cfg.Solver.Step <= 0 || cfg.Solver.Tolerance <= 0 || cfg.Solver.MaxIterations <= 0 {
		t.Error("solver settings should be positive")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "log"
	cfg.Grid.Points = 250
	cfg.Params.Rho = 0.03

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Model != "log" || loaded.Grid.Points != 250 || loaded.Params.Rho != 0.03 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	// a sparse file keeps defaults for everything it omits
	path := filepath.Join(t.TempDir(), "sparse.yaml")
	if err := os.WriteFile(path, []byte("model: log\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Model != "log" {
		t.Errorf("expected model log, got %s", cfg.Model)
	}
	if cfg.Solver.Tolerance != DefaultTolerance {
		t.Errorf("expected default tolerance, got %g", cfg.Solver.Tolerance)
	}
	if cfg.Grid.Points != DefaultPoints {
		t.Errorf("expected default points, got %d", cfg.Grid.Points)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("crra", "paper")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Grid.Points != 10000 {
		t.Errorf("expected 10000 points, got %d", cfg.Grid.Points)
	}
	if cfg.Grid.Min != 0.001 {
		t.Errorf("expected relative min 0.001, got %g", cfg.Grid.Min)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("crra", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "baseline"); cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("crra")
	if len(presets) == 0 {
		t.Error("expected presets for crra")
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestParamMap(t *testing.T) {
	m := DefaultConfig().ParamMap()
	if len(m) != 5 {
		t.Errorf("expected 5 params, got %d", len(m))
	}
	if m["alpha"] != 0.3 {
		t.Errorf("expected alpha 0.3, got %g", m["alpha"])
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetParam("rho", 0.02); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if cfg.Params.Rho != 0.02 {
		t.Errorf("expected rho 0.02, got %g", cfg.Params.Rho)
	}

	if err := cfg.SetParam("spring", 1.0); err == nil {
		t.Error("expected error for unknown parameter")
	}
}
