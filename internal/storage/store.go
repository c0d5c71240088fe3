package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/bellman/internal/hjb"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Model         string             `json:"model"`
	Timestamp     time.Time          `json:"timestamp"`
	GridMin       float64            `json:"grid_min"`
	GridMax       float64            `json:"grid_max"`
	GridPoints    int                `json:"grid_points"`
	Step          float64            `json:"step"`
	MaxIterations int                `json:"max_iterations"`
	Tolerance     float64            `json:"tolerance"`
	Params        map[string]float64 `json:"params"`
	Iterations    int                `json:"iterations"`
	Converged     bool               `json:"converged"`
	Residuals     []float64          `json:"residuals"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Solution holds a stored value/policy/savings triple on its capital grid.
type Solution struct {
	Grid   []float64
	Value  []float64
	Policy []float64
	Drift  []float64
}

func (s *Store) Save(model string, g *hjb.Grid, cfg hjb.Settings, params map[string]float64, result *hjb.Result) (string, error) {
	// Back-to-back saves within the same second get a numeric suffix.
	base := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runID := base
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		if _, err := os.Stat(runDir); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d", base, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Model:         model,
		Timestamp:     time.Now(),
		GridMin:       g.Min(),
		GridMax:       g.Max(),
		GridPoints:    g.Len(),
		Step:          cfg.Step,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Params:        params,
		Iterations:    result.Iterations,
		Converged:     result.Converged,
		Residuals:     result.Residuals,
		Metrics:       result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "solution.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"k", "v", "c", "s"}); err != nil {
		return "", err
	}

	// Full precision so residual checks on reloaded solutions stay meaningful.
	for i := 0; i < g.Len(); i++ {
		row := []string{
			strconv.FormatFloat(g.At(i), 'g', -1, 64),
			strconv.FormatFloat(result.Value[i], 'g', -1, 64),
			strconv.FormatFloat(result.Policy[i], 'g', -1, 64),
			strconv.FormatFloat(result.Drift[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSolution(runID string) (*Solution, error) {
	csvPath := filepath.Join(s.baseDir, runID, "solution.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		Grid:   make([]float64, 0),
		Value:  make([]float64, 0),
		Policy: make([]float64, 0),
		Drift:  make([]float64, 0),
	}
	if len(records) < 2 {
		return sol, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		var vals [4]float64
		ok := true
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		sol.Grid = append(sol.Grid, vals[0])
		sol.Value = append(sol.Value, vals[1])
		sol.Policy = append(sol.Policy, vals[2])
		sol.Drift = append(sol.Drift, vals[3])
	}

	return sol, nil
}
