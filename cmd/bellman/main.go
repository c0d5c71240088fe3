package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bellman/internal/analysis"
	"github.com/san-kum/bellman/internal/automation"
	"github.com/san-kum/bellman/internal/calibrate"
	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/experiment"
	"github.com/san-kum/bellman/internal/export"
	"github.com/san-kum/bellman/internal/hjb"
	"github.com/san-kum/bellman/internal/storage"
	"github.com/san-kum/bellman/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	// Grid geometry
	gridMin      float64
	gridMax      float64
	gridPoints   int
	absoluteGrid bool
	// Solver settings
	stepSize  float64
	maxIter   int
	tolerance float64
	// Model parameters
	gamma float64
	alpha float64
	delta float64
	rho   float64
	tfp   float64
	// Output
	noSave  bool
	svgPath string
	// Calibration
	calParam  string
	calTarget float64
	calLo     float64
	calHi     float64
	calSteps  int
	calMoment string
	calRefine bool
	// Monte Carlo
	mcTrials  int
	mcPerturb float64
	mcSeed    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bellman",
		Short: "stationary solver for the neoclassical growth model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bellman", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [model]",
		Short: "solve the model and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  solveModel,
	}
	addModelFlags(solveCmd)
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored solution",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write an SVG figure to this path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "convergence and residual analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the solution to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark grid sizes and damping steps",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	addModelFlags(benchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [model] [step1] [step2] ...",
		Short: "compare damping steps on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSteps,
	}
	addModelFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [model] [param] [value1] [value2] ...",
		Short: "solve across a range of one parameter",
		Args:  cobra.MinimumNArgs(3),
		RunE:  sweepParam,
	}
	addModelFlags(sweepCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [file.yaml]",
		Short: "run a scripted batch of solves",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "rerun from perturbed guesses to check stability",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addModelFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of perturbed trials")
	montecarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.2, "relative guess perturbation")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "watch the value function iteration converge",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := experiment.NewRegistry().ListModels()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	calibrateCmd := &cobra.Command{
		Use:   "calibrate [model]",
		Short: "search a parameter to match a target moment",
		Args:  cobra.ExactArgs(1),
		RunE:  calibrateModel,
	}
	addModelFlags(calibrateCmd)
	calibrateCmd.Flags().StringVar(&calParam, "param", "rho", "parameter to calibrate")
	calibrateCmd.Flags().Float64Var(&calTarget, "target", 0, "target moment value")
	calibrateCmd.Flags().Float64Var(&calLo, "lo", 0.02, "lower bound of the search range")
	calibrateCmd.Flags().Float64Var(&calHi, "hi", 0.1, "upper bound of the search range")
	calibrateCmd.Flags().IntVar(&calSteps, "steps", 9, "number of grid search candidates")
	calibrateCmd.Flags().StringVar(&calMoment, "moment", "kstar", "target moment: kstar or crossing")
	calibrateCmd.Flags().BoolVar(&calRefine, "refine", false, "refine the grid search winner")

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, exportCSVCmd,
		benchCmd, compareCmd, sweepCmd, batchCmd, montecarloCmd, liveCmd, presetsCmd, modelsCmd, calibrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gridMin, "grid-min", config.DefaultGridMin, "lower capital bound")
	cmd.Flags().Float64Var(&gridMax, "grid-max", config.DefaultGridMax, "upper capital bound")
	cmd.Flags().IntVar(&gridPoints, "points", config.DefaultPoints, "number of grid points")
	cmd.Flags().BoolVar(&absoluteGrid, "absolute", false, "treat bounds as capital levels instead of fractions of the steady state")
	cmd.Flags().Float64Var(&stepSize, "step", config.DefaultStep, "implicit damping step")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "sweep budget")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "sup-norm convergence tolerance")
	cmd.Flags().Float64Var(&gamma, "gamma", 2.0, "relative risk aversion (crra)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.3, "capital share")
	cmd.Flags().Float64Var(&delta, "delta", 0.05, "depreciation rate")
	cmd.Flags().Float64Var(&rho, "rho", 0.05, "discount rate")
	cmd.Flags().Float64Var(&tfp, "tfp", 1.0, "total factor productivity")
}

// buildConfig resolves preset, config file, and command-line flags in
// increasing priority. Explicitly set flags always win.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		p, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = p
	}

	cfg.Model = model

	f := cmd.Flags()
	if f.Changed("grid-min") {
		cfg.Grid.Min = gridMin
	}
	if f.Changed("grid-max") {
		cfg.Grid.Max = gridMax
	}
	if f.Changed("points") {
		cfg.Grid.Points = gridPoints
	}
	if f.Changed("absolute") {
		cfg.Grid.Relative = !absoluteGrid
	}
	if f.Changed("step") {
		cfg.Solver.Step = stepSize
	}
	if f.Changed("max-iter") {
		cfg.Solver.MaxIterations = maxIter
	}
	if f.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if f.Changed("gamma") {
		cfg.Params.Gamma = gamma
	}
	if f.Changed("alpha") {
		cfg.Params.Alpha = alpha
	}
	if f.Changed("delta") {
		cfg.Params.Delta = delta
	}
	if f.Changed("rho") {
		cfg.Params.Rho = rho
	}
	if f.Changed("tfp") {
		cfg.Params.TFP = tfp
	}

	return cfg, nil
}

func solveModel(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("solving %s growth model on %d grid points...\n", model, exp.Grid().Len())
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start).Round(time.Microsecond)
	if result.Converged {
		fmt.Printf("converged in %d sweeps (%v)\n", result.Iterations, elapsed)
	} else {
		fmt.Printf("no convergence after %d sweeps (%v)\n", result.Iterations, elapsed)
	}
	if n := len(result.Residuals); n > 0 {
		fmt.Printf("final change: %.3e\n", result.Residuals[n-1])
	}

	if ss, ok := exp.Model().(hjb.SteadyStater); ok {
		kstar, cstar := ss.SteadyState()
		fmt.Printf("steady state: k*=%.4f c*=%.4f\n", kstar, cstar)
		if crossing, err := analysis.ZeroCrossing(exp.Grid(), result.Drift); err == nil {
			fmt.Printf("savings zero crossing: %.4f (%.3f%% off)\n", crossing, 100*math.Abs(crossing-kstar)/kstar)
		}
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(model, exp.Grid(), exp.Settings(), cfg.ParamMap(), result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tPOINTS\tSWEEPS\tCONVERGED\tTOLERANCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%.1e\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridPoints,
			run.Iterations,
			run.Converged,
			run.Tolerance,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sol, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}
	if len(sol.Grid) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("grid: %d points on [%.3f, %.3f]\n\n", meta.GridPoints, meta.GridMin, meta.GridMax)

	charts := []struct {
		caption string
		data    []float64
	}{
		{"value v(k)", sol.Value},
		{"consumption c(k)", sol.Policy},
		{"savings s(k)", sol.Drift},
	}
	for _, c := range charts {
		graph := asciigraph.Plot(c.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgPath != "" {
		g, err := hjb.FromPoints(sol.Grid)
		if err != nil {
			return err
		}
		result := &hjb.Result{Value: sol.Value, Policy: sol.Policy, Drift: sol.Drift}
		if err := os.WriteFile(svgPath, []byte(export.SolutionToSVG(g, result, 640, 200)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sol, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}
	if len(sol.Grid) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("convergence analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	if len(meta.Residuals) > 1 {
		logs := make([]float64, len(meta.Residuals))
		for i, r := range meta.Residuals {
			if r <= 0 {
				r = 1e-16
			}
			logs[i] = math.Log10(r)
		}
		graph := asciigraph.Plot(logs,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("log10 sup-norm change per sweep"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if rate, err := analysis.ConvergenceRate(meta.Residuals); err == nil {
		fmt.Printf("contraction factor: %.4f per sweep\n", rate)
	}

	// Rebuild the model at the stored parameters and check the discrete
	// stationarity residual of the stored solution.
	m, err := experiment.NewRegistry().GetModel(meta.Model)
	if err != nil {
		return err
	}
	if conf, ok := m.(hjb.Configurable); ok {
		known := conf.GetParams()
		for name, val := range meta.Params {
			if _, ok := known[name]; !ok {
				continue
			}
			if err := conf.SetParam(name, val); err != nil {
				return err
			}
		}
	}

	g, err := hjb.FromPoints(sol.Grid)
	if err != nil {
		return err
	}

	res, err := analysis.Residuals(m, g, sol.Value, sol.Policy)
	if err != nil {
		return err
	}
	maxRes := 0.0
	for _, r := range res[1 : len(res)-1] {
		if math.Abs(r) > maxRes {
			maxRes = math.Abs(r)
		}
	}
	fmt.Printf("max interior hjb residual: %.3e\n", maxRes)

	if ss, ok := m.(hjb.SteadyStater); ok {
		kstar, _ := ss.SteadyState()
		if crossing, err := analysis.ZeroCrossing(g, sol.Drift); err == nil {
			fmt.Printf("savings zero crossing: %.4f (steady state %.4f, %.3f%% off)\n",
				crossing, kstar, 100*math.Abs(crossing-kstar)/kstar)
		}
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	sol, err := st.LoadSolution(runID)
	if err != nil {
		return err
	}

	g, err := hjb.FromPoints(sol.Grid)
	if err != nil {
		return err
	}

	result := &hjb.Result{
		Value:      sol.Value,
		Policy:     sol.Policy,
		Drift:      sol.Drift,
		Residuals:  meta.Residuals,
		Iterations: meta.Iterations,
		Converged:  meta.Converged,
		Metrics:    meta.Metrics,
	}
	cfg := hjb.Settings{
		Step:          meta.Step,
		MaxIterations: meta.MaxIterations,
		Tolerance:     meta.Tolerance,
	}

	return storage.ExportJSONStdout(meta.Model, g, cfg, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sol, err := st.LoadSolution(args[0])
	if err != nil {
		return err
	}
	if len(sol.Grid) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"k", "v", "c", "s"}); err != nil {
		return err
	}
	for i := range sol.Grid {
		row := []string{
			strconv.FormatFloat(sol.Grid[i], 'g', -1, 64),
			strconv.FormatFloat(sol.Value[i], 'g', -1, 64),
			strconv.FormatFloat(sol.Policy[i], 'g', -1, 64),
			strconv.FormatFloat(sol.Drift[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	pointsList := []int{500, 2000, 10000}
	stepList := []float64{10, 100, 1000}

	fmt.Printf("benchmarking %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tSTEP\tSWEEPS\tCONVERGED\tTIME\tSWEEPS/SEC")

	for _, pts := range pointsList {
		for _, s := range stepList {
			cfg := *base
			cfg.Grid.Points = pts
			cfg.Solver.Step = s

			exp := experiment.New(&cfg)
			if err := exp.Setup(); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			sweepsPerSec := float64(result.Iterations) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%.0f\t%d\t%t\t%v\t%.0f\n",
				pts, s, result.Iterations, result.Converged, elapsed.Round(time.Microsecond), sweepsPerSec)
		}
	}

	return w.Flush()
}

func compareSteps(cmd *cobra.Command, args []string) error {
	model := args[0]

	base, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}

	fmt.Printf("comparing damping steps for %s (%d points, tol %.1e)\n\n",
		model, base.Grid.Points, base.Solver.Tolerance)
	fmt.Printf("%-10s  %-8s  %-10s  %-12s  %-12s  %-10s\n",
		"step", "sweeps", "converged", "final_change", "sup_diff", "time_ms")
	fmt.Println(strings.Repeat("-", 70))

	// The converged iterate solves the same stationary system whatever
	// the damping, so sup_diff against the first step should sit near
	// the tolerance.
	var reference []float64
	for _, arg := range args[1:] {
		stepVal, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		cfg := *base
		cfg.Solver.Step = stepVal

		exp := experiment.New(&cfg)
		if err := exp.Setup(); err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", arg, err)
			continue
		}

		final := 0.0
		if n := len(result.Residuals); n > 0 {
			final = result.Residuals[n-1]
		}

		supDiff := 0.0
		if reference == nil {
			reference = result.Value
		} else {
			for i := range reference {
				if d := math.Abs(result.Value[i] - reference[i]); d > supDiff {
					supDiff = d
				}
			}
		}

		fmt.Printf("%-10s  %-8d  %-10t  %-12.3e  %-12.3e  %-10.2f\n",
			arg, result.Iterations, result.Converged, final, supDiff,
			float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	param := args[1]

	values := make([]float64, 0, len(args)-2)
	for _, arg := range args[2:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("bad value %q: %w", arg, err)
		}
		values = append(values, v)
	}

	fmt.Printf("sweeping %s over %d values...\n\n", param, len(values))
	start := time.Now()

	results, err := experiment.NewSweep(base, param, values).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tSWEEPS\tCONVERGED\tFINAL_CHANGE")
	for i, r := range results {
		final := 0.0
		if n := len(r.Residuals); n > 0 {
			final = r.Residuals[n-1]
		}
		fmt.Fprintf(w, "%g\t%d\t%t\t%.3e\n", values[i], r.Iterations, r.Converged, final)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d runs in %v\n", len(results), elapsed.Round(time.Millisecond))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	if batch.Name != "" {
		fmt.Printf("batch: %s\n", batch.Name)
	}
	if batch.Description != "" {
		fmt.Println(batch.Description)
	}
	fmt.Println()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunBatch(context.Background(), batch, st)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tSWEEPS\tCONVERGED\tFINAL_CHANGE\tRUN_ID")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%.3e\t%s\n", r.Name, r.Model, r.Iterations, r.Converged, r.FinalChange, id)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	mc := &automation.MonteCarlo{Trials: mcTrials, Perturbation: mcPerturb, Seed: mcSeed}
	fmt.Printf("running %d perturbed trials (amplitude %.0f%%)...\n", mc.Trials, mc.Perturbation*100)
	start := time.Now()

	results, err := automation.RunMonteCarlo(context.Background(), cfg, mc)
	if err != nil {
		return err
	}

	stable, unstable := automation.Stable(results, 1e-4)
	fmt.Printf("\n%d/%d trials returned to the fixed point (%v)\n",
		stable, len(results), time.Since(start).Round(time.Millisecond))
	if unstable > 0 {
		fmt.Printf("%d trials drifted or failed to converge\n", unstable)
	}

	maxDiff := 0.0
	for _, r := range results {
		if r.MaxDiff > maxDiff {
			maxDiff = r.MaxDiff
		}
	}
	fmt.Printf("largest deviation: %.3e\n", maxDiff)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	// A gentle default damping keeps the convergence watchable.
	if !cmd.Flags().Changed("step") {
		cfg.Solver.Step = 5
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	m, err := tui.NewModel(args[0], exp.Model(), exp.Grid(), exp.Settings())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func calibrateModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	if calTarget <= 0 {
		return fmt.Errorf("target moment must be positive (--target)")
	}
	if calSteps < 2 {
		return fmt.Errorf("need at least 2 grid search candidates, got %d", calSteps)
	}

	var obj calibrate.Objective
	switch calMoment {
	case "kstar":
		obj = calibrate.SteadyStateObjective(cfg, calTarget)
	case "crossing":
		obj = calibrate.CrossingObjective(cfg, calTarget)
	default:
		return fmt.Errorf("unknown moment: %s (use kstar or crossing)", calMoment)
	}

	values := linspace(calLo, calHi, calSteps)
	gs := calibrate.NewGridSearch([]string{calParam}, [][]float64{values})

	fmt.Printf("searching %s over [%g, %g] with %d candidates...\n", calParam, calLo, calHi, calSteps)
	start := time.Now()

	best, bestVal, err := gs.Search(context.Background(), obj)
	if err != nil {
		return err
	}
	fmt.Printf("grid search best: %s=%.6f (objective %.3e, %v)\n",
		calParam, best[calParam], bestVal, time.Since(start).Round(time.Millisecond))

	if calRefine {
		refined, val, err := calibrate.Refine(context.Background(), best, obj)
		if err != nil {
			return err
		}
		fmt.Printf("refined: %s=%.6f (objective %.3e)\n", calParam, refined[calParam], val)
	}

	return nil
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
