package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/bellman/internal/config"
	"github.com/san-kum/bellman/internal/experiment"
	"github.com/san-kum/bellman/internal/hjb"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var modelInfo = map[string]string{
	"crra": "power utility, tunable curvature",
	"log":  "logarithmic utility",
}

type appState int

const (
	stateMenu appState = iota
	stateConfig
	stateLive
)

// app is the selection shell around the live solver view: pick a model,
// tune its parameters, then watch the iteration converge.
type app struct {
	state    appState
	cursor   int
	models   []string
	registry *experiment.Registry
	selected string

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	errMsg      string

	live Model
}

func newApp() app {
	registry := experiment.NewRegistry()
	models := registry.ListModels()
	sort.Strings(models)
	return app{
		state:    stateMenu,
		models:   models,
		registry: registry,
		params:   make(map[string]float64),
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		return a.updateLive(msg)
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch a.state {
		case stateMenu:
			return a.menuKey(key)
		case stateConfig:
			return a.configKey(key)
		}
	}
	return a, nil
}

func (a app) updateLive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q", "esc":
			a.state = stateConfig
			return a, tea.ClearScreen
		}
	}
	lm, cmd := a.live.Update(msg)
	a.live = lm.(Model)
	return a, cmd
}

func (a app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.models)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.selected = a.models[a.cursor]
		a.state = stateConfig
		a.paramCursor = 0
		a.errMsg = ""
		a.setParamsForModel()
	}
	return a, nil
}

func (a app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				a.params[a.paramNames[a.paramCursor]] = val
			}
			a.editing = false
			a.editBuf = ""
		case "esc":
			a.editing = false
			a.editBuf = ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					a.editBuf += string(c)
				}
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
		a.errMsg = ""
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(a.paramNames)-1 {
			a.paramCursor++
		}
	case "enter":
		a.editing = true
		a.editBuf = strconv.FormatFloat(a.params[a.paramNames[a.paramCursor]], 'g', -1, 64)
	case "left", "h":
		a.params[a.paramNames[a.paramCursor]] *= 0.95
	case "right", "l":
		a.params[a.paramNames[a.paramCursor]] *= 1.05
	case "s", " ":
		return a.start()
	}
	return a, nil
}

// setParamsForModel seeds the editor with the selected model's defaults
// plus the grid and damping entries every solve needs.
func (a *app) setParamsForModel() {
	econ, err := a.registry.GetModel(a.selected)
	if err != nil {
		a.errMsg = err.Error()
		return
	}

	names := []string{}
	a.params = make(map[string]float64)
	if conf, ok := econ.(hjb.Configurable); ok {
		for name, val := range conf.GetParams() {
			names = append(names, name)
			a.params[name] = val
		}
	}
	sort.Strings(names)

	a.params["points"] = float64(config.DefaultPoints)
	a.params["step"] = 5
	a.paramNames = append(names, "points", "step")
}

func (a app) start() (tea.Model, tea.Cmd) {
	cfg := config.DefaultConfig()
	cfg.Model = a.selected
	cfg.Grid.Points = int(a.params["points"])
	cfg.Solver.Step = a.params["step"]
	for _, name := range a.paramNames {
		if name == "points" || name == "step" {
			continue
		}
		if err := cfg.SetParam(name, a.params[name]); err != nil {
			a.errMsg = err.Error()
			return a, nil
		}
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		a.errMsg = err.Error()
		return a, nil
	}

	live, err := NewModel(a.selected, exp.Model(), exp.Grid(), exp.Settings())
	if err != nil {
		a.errMsg = err.Error()
		return a, nil
	}

	a.live = live
	a.errMsg = ""
	a.state = stateLive
	return a, tea.Batch(tea.ClearScreen, a.live.Init())
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateLive:
		return a.live.View()
	}
	return ""
}

func (a app) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("b e l l m a n") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range a.models {
		desc := modelInfo[name]
		if i == a.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(a.selected) + "  " + dim.Render(modelInfo[a.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range a.paramNames {
		val := fmt.Sprintf("%10.4f", a.params[name])
		if a.editing && i == a.paramCursor {
			val = fmt.Sprintf("%10s", a.editBuf+"▋")
		}
		if i == a.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if a.errMsg != "" {
		b.WriteString("\n      " + magenta.Render(a.errMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ nudge  enter edit  s solve  esc back") + "\n")

	return b.String()
}

// RunInteractive starts the model picker and runs until the user quits.
func RunInteractive() error {
	p := tea.NewProgram(newApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
