package economy

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/bellman/internal/hjb"
)

func TestCRRAUtility(t *testing.T) {
	m := NewCRRA()

	// gamma = 2: u(c) = -1/c, u'(c) = 1/c^2
	if got := m.Utility(2); math.Abs(got-(-0.5)) > 1e-15 {
		t.Errorf("u(2) = %g, want -0.5", got)
	}
	if got := m.MarginalUtility(2); math.Abs(got-0.25) > 1e-15 {
		t.Errorf("u'(2) = %g, want 0.25", got)
	}
}

func TestCRRAConsumptionInvertsMarginalUtility(t *testing.T) {
	m := NewCRRA()
	m.Gamma = 1.5

	for _, c := range []float64{0.1, 0.5, 1, 2.5, 10} {
		got := m.Consumption(m.MarginalUtility(c))
		if math.Abs(got-c) > 1e-12 {
			t.Errorf("round trip of c=%g gave %g", c, got)
		}
	}
}

func TestCRRAConsumptionDomain(t *testing.T) {
	m := NewCRRA()

	if got := m.Consumption(-0.5); !math.IsNaN(got) {
		t.Errorf("c(-0.5) = %g, want NaN", got)
	}
	if got := m.Consumption(0); !math.IsInf(got, 1) {
		t.Errorf("c(0) = %g, want +Inf", got)
	}
}

func TestCRRASteadyState(t *testing.T) {
	m := NewCRRA()
	k, c := m.SteadyState()

	// marginal product of capital equals rho + delta
	mpk := m.Alpha * m.TFP * math.Pow(k, m.Alpha-1)
	if math.Abs(mpk-(m.Rho+m.Delta)) > 1e-12 {
		t.Errorf("marginal product at k_ss is %g, want %g", mpk, m.Rho+m.Delta)
	}
	if drift := m.Drift(k, c); math.Abs(drift) > 1e-12 {
		t.Errorf("drift at steady state is %g, want 0", drift)
	}

	// baseline parameters put the steady state near 4.8
	if math.Abs(k-4.8) > 0.05 {
		t.Errorf("k_ss = %g, expected about 4.8", k)
	}
}

func TestCRRAParams(t *testing.T) {
	m := NewCRRA()

	params := m.GetParams()
	if len(params) != 5 {
		t.Errorf("expected 5 params, got %d", len(params))
	}
	if params["gamma"] != 2.0 {
		t.Errorf("gamma = %g, want 2", params["gamma"])
	}

	if err := m.SetParam("gamma", 3); err != nil {
		t.Errorf("SetParam(gamma, 3) failed: %v", err)
	}
	if m.Gamma != 3 {
		t.Errorf("gamma = %g after set, want 3", m.Gamma)
	}
	if err := m.SetParam("delta", 0); err != nil {
		t.Errorf("SetParam(delta, 0) failed: %v", err)
	}

	bad := []struct {
		name  string
		value float64
	}{
		{"gamma", 1},
		{"gamma", 0},
		{"gamma", -2},
		{"alpha", 0},
		{"alpha", 1.2},
		{"delta", -0.1},
		{"rho", 0},
		{"tfp", 0},
		{"spring", 1},
	}
	for _, tt := range bad {
		if err := m.SetParam(tt.name, tt.value); err == nil {
			t.Errorf("SetParam(%s, %g) accepted an invalid value", tt.name, tt.value)
		}
	}
}

func TestCRRASolve(t *testing.T) {
	m := NewCRRA()
	kss, _ := m.SteadyState()

	g, err := hjb.NewGrid(0.05*kss, 2*kss, 500)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	res, err := hjb.New(m, g).Solve(context.Background(), hjb.DefaultGuess(m, g), hjb.DefaultSettings())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !res.Converged {
		t.Fatal("baseline model did not converge")
	}

	for i := 1; i < len(res.Value); i++ {
		if res.Value[i] <= res.Value[i-1] {
			t.Fatalf("value function not increasing at k=%g", g.At(i))
		}
	}
	for i := 1; i < len(res.Policy); i++ {
		if res.Policy[i] < res.Policy[i-1]-1e-12 {
			t.Fatalf("consumption policy not increasing at k=%g", g.At(i))
		}
	}
}
