package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bellman/internal/hjb"
)

type ExportData struct {
	Model      string             `json:"model"`
	GridMin    float64            `json:"grid_min"`
	GridMax    float64            `json:"grid_max"`
	GridPoints int                `json:"grid_points"`
	Step       float64            `json:"step"`
	Tolerance  float64            `json:"tolerance"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	Grid       []float64          `json:"grid"`
	Value      []float64          `json:"value"`
	Policy     []float64          `json:"policy"`
	Drift      []float64          `json:"drift"`
	Residuals  []float64          `json:"residuals"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(model string, g *hjb.Grid, cfg hjb.Settings, result *hjb.Result) ExportData {
	return ExportData{
		Model:      model,
		GridMin:    g.Min(),
		GridMax:    g.Max(),
		GridPoints: g.Len(),
		Step:       cfg.Step,
		Tolerance:  cfg.Tolerance,
		Iterations: result.Iterations,
		Converged:  result.Converged,
		Grid:       g.Points(),
		Value:      result.Value,
		Policy:     result.Policy,
		Drift:      result.Drift,
		Residuals:  result.Residuals,
		Metrics:    result.Metrics,
	}
}

func exportTo(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, model string, g *hjb.Grid, cfg hjb.Settings, result *hjb.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return exportTo(file, newExportData(model, g, cfg, result))
}

func ExportJSONStdout(model string, g *hjb.Grid, cfg hjb.Settings, result *hjb.Result) error {
	return exportTo(os.Stdout, newExportData(model, g, cfg, result))
}
