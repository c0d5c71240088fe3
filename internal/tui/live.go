package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bellman/internal/hjb"
)

const (
	canvasWidth     = 78
	canvasHeight    = 22
	historyCapacity = 600
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type curveKind int

const (
	curveValue curveKind = iota
	curvePolicy
	curveDrift
)

func (k curveKind) String() string {
	switch k {
	case curvePolicy:
		return "consumption"
	case curveDrift:
		return "savings"
	default:
		return "value"
	}
}

// Model steps the value function iteration one sweep per frame and plots
// the current iterate. Parameters can be tuned mid-run; the iteration
// then contracts toward the new fixed point from wherever it stands.
type Model struct {
	modelName string
	economy   hjb.Model
	grid      *hjb.Grid
	cfg       hjb.Settings
	it        *hjb.Iterator

	canvas    *Canvas
	curve     curveKind
	residuals []float64
	lastDiff  float64
	running   bool
	converged bool
	failed    bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	showHelp bool
}

func NewModel(name string, economy hjb.Model, g *hjb.Grid, cfg hjb.Settings) (Model, error) {
	it, err := hjb.NewIterator(economy, g, hjb.DefaultGuess(economy, g), cfg.Step)
	if err != nil {
		return Model{}, err
	}

	params := make(map[string]float64)
	if t, ok := economy.(hjb.Configurable); ok {
		for k, v := range t.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64)
	for k, v := range params {
		keys = append(keys, k)
		if v == 0 {
			v = 1e-6
		}
		initialParams[k] = v
	}
	sort.Strings(keys)

	return Model{
		modelName:     name,
		economy:       economy,
		grid:          g,
		cfg:           cfg,
		it:            it,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.converged && !m.failed {
				m.running = false
				m.step()
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "v":
			m.curve = curveValue
		case "c":
			m.curve = curvePolicy
		case "s":
			m.curve = curveDrift
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && !m.converged && !m.failed {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	diff, err := m.it.Step()
	if err != nil || math.IsNaN(diff) || math.IsInf(diff, 0) {
		m.failed = true
		return
	}

	m.lastDiff = diff
	m.residuals = append(m.residuals, diff)
	if len(m.residuals) > historyCapacity {
		m.residuals = m.residuals[1:]
	}
	if diff < m.cfg.Tolerance {
		m.converged = true
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	newVal := m.params[key] * factor

	t, ok := m.economy.(hjb.Configurable)
	if !ok {
		return
	}
	if err := t.SetParam(key, newVal); err != nil {
		return
	}

	m.params[key] = newVal
	m.converged = false
	m.failed = false
	m.running = true
}

func (m *Model) reset() {
	if t, ok := m.economy.(hjb.Configurable); ok {
		for k, v := range m.initialParams {
			if err := t.SetParam(k, v); err == nil {
				m.params[k] = v
			}
		}
	}
	m.it.Reset(hjb.DefaultGuess(m.economy, m.grid))
	m.residuals = m.residuals[:0]
	m.lastDiff = 0
	m.converged = false
	m.failed = false
	m.running = true
}

func (m *Model) draw() {
	m.canvas.Clear()

	var ys []float64
	switch m.curve {
	case curvePolicy:
		ys = m.it.Policy()
	case curveDrift:
		ys = m.it.Drift()
	default:
		ys = m.it.Value()
	}

	lo, hi := seriesRange(ys)
	if m.curve == curveDrift && lo < 0 && hi > 0 {
		m.canvas.HLine(0, lo, hi)
	}
	if ss, ok := m.economy.(hjb.SteadyStater); ok {
		kstar, _ := ss.SteadyState()
		if kstar > m.grid.Min() && kstar < m.grid.Max() {
			m.canvas.VLine((kstar - m.grid.Min()) / (m.grid.Max() - m.grid.Min()))
		}
	}
	m.canvas.PlotSeries(ys, lo, hi)
}

func seriesRange(ys []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range ys {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	return lo, hi
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := "ITERATING"
	switch {
	case m.failed:
		status = "DIVERGED"
	case m.converged:
		status = fmt.Sprintf("CONVERGED (%d sweeps)", m.it.Iteration())
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)+" GROWTH MODEL") + "\n")
	s.WriteString(fmt.Sprintf("%s\n\n", status))

	if len(m.residuals) > 1 {
		logs := make([]float64, len(m.residuals))
		for i, r := range m.residuals {
			if r <= 0 {
				r = 1e-16
			}
			logs[i] = math.Log10(r)
		}
		chart := asciigraph.Plot(logs, asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("log10 change"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Sweep") + valueStyle.Render(fmt.Sprintf("%d", m.it.Iteration())) + "\n")
	s.WriteString(labelStyle.Render("Change") + valueStyle.Render(fmt.Sprintf("%.3e", m.lastDiff)) + "\n")
	s.WriteString(labelStyle.Render("Tolerance") + valueStyle.Render(fmt.Sprintf("%.1e", m.cfg.Tolerance)) + "\n")
	s.WriteString(labelStyle.Render("Curve") + valueStyle.Render(m.curve.String()) + "\n")
	if ss, ok := m.economy.(hjb.SteadyStater); ok {
		kstar, _ := ss.SteadyState()
		s.WriteString(labelStyle.Render("Steady k*") + valueStyle.Render(fmt.Sprintf("%.4f", kstar)) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.params) > 0 {
		for i, k := range m.paramKeys {
			val, initial := m.params[k], m.initialParams[k]
			barWidth, ratio := 10, val/(2.0*initial)
			if ratio > 1 {
				ratio = 1
			} else if ratio < 0 {
				ratio = 0
			}
			filled := int(ratio * float64(barWidth))
			bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled) + "]"
			line := fmt.Sprintf("%-10s %s %.3f", k, bar, val)
			if i == m.selected {
				s.WriteString(activeParamStyle.Render("> "+line) + "\n")
			} else {
				s.WriteString("  " + labelStyle.Render(line) + "\n")
			}
		}
	} else {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause N:Step R:Reset\nV/C/S:Curve Q:Quit ?:Help\nTab:Select ↑↓:Tune"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume iteration   ║
║  N        - Single sweep while paused║
║  R        - Reset guess and params   ║
║  Q        - Quit                     ║
║  V        - Show value function      ║
║  C        - Show consumption policy  ║
║  S        - Show savings             ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
