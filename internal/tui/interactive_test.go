package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "escape":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestAppMenuListsModels(t *testing.T) {
	a := newApp()

	view := a.View()
	if !strings.Contains(view, "crra") || !strings.Contains(view, "log") {
		t.Errorf("menu does not list the models:\n%s", view)
	}
}

func TestAppSelectAndConfigure(t *testing.T) {
	a := newApp()

	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)

	if a.state != stateConfig {
		t.Fatalf("expected config state, got %v", a.state)
	}
	if a.selected != "crra" {
		t.Fatalf("expected crra selected, got %s", a.selected)
	}

	// Model parameters in name order, then the grid and damping entries.
	want := []string{"alpha", "delta", "gamma", "rho", "tfp", "points", "step"}
	if len(a.paramNames) != len(want) {
		t.Fatalf("expected %d parameters, got %v", len(want), a.paramNames)
	}
	for i, name := range want {
		if a.paramNames[i] != name {
			t.Errorf("param %d: expected %s, got %s", i, name, a.paramNames[i])
		}
	}
}

func TestAppNudgeParam(t *testing.T) {
	a := newApp()
	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)

	before := a.params[a.paramNames[0]]
	m, _ = a.Update(keyMsg("l"))
	a = m.(app)

	if after := a.params[a.paramNames[0]]; after <= before {
		t.Errorf("expected nudge up, got %f -> %f", before, after)
	}
}

func TestAppEditParam(t *testing.T) {
	a := newApp()
	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)

	m, _ = a.Update(keyMsg("enter"))
	a = m.(app)
	if !a.editing {
		t.Fatal("expected editing mode")
	}

	a.editBuf = "0.42"
	m, _ = a.Update(keyMsg("enter"))
	a = m.(app)

	if a.editing {
		t.Fatal("expected editing to end")
	}
	if got := a.params["alpha"]; got != 0.42 {
		t.Errorf("expected alpha 0.42, got %f", got)
	}
}

func TestAppStart(t *testing.T) {
	a := newApp()
	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)

	m, cmd := a.Update(keyMsg("s"))
	a = m.(app)

	if a.state != stateLive {
		t.Fatalf("expected live state, got %v (err %q)", a.state, a.errMsg)
	}
	if cmd == nil {
		t.Error("expected a start command")
	}
	if !strings.Contains(a.View(), "CRRA") {
		t.Error("live view does not name the model")
	}
}

func TestAppBadParamStaysInConfig(t *testing.T) {
	a := newApp()
	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)

	a.params["gamma"] = -1
	m, _ = a.Update(keyMsg("s"))
	a = m.(app)

	if a.state != stateConfig {
		t.Fatalf("expected to stay in config, got %v", a.state)
	}
	if a.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestAppEscapeFromLive(t *testing.T) {
	a := newApp()
	m, _ := a.Update(keyMsg("enter"))
	a = m.(app)
	m, _ = a.Update(keyMsg("s"))
	a = m.(app)

	m, _ = a.Update(keyMsg("escape"))
	a = m.(app)

	if a.state != stateConfig {
		t.Fatalf("expected config state after escape, got %v", a.state)
	}
}
