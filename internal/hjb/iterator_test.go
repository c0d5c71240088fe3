package hjb

import (
	"context"
	"math"
	"testing"
)

// growthModel is a CRRA/Cobb-Douglas instance used across the package
// tests: u(c) = c^(1-gamma)/(1-gamma), F(k) = A*k^alpha.
type growthModel struct {
	gamma, alpha, delta, rho, tfp float64
}

func newGrowthModel() *growthModel {
	return &growthModel{gamma: 2, alpha: 0.3, delta: 0.05, rho: 0.05, tfp: 1}
}

func (m *growthModel) Discount() float64 { return m.rho }

func (m *growthModel) Production(k float64) float64 {
	return m.tfp * math.Pow(k, m.alpha)
}

func (m *growthModel) Utility(c float64) float64 {
	return math.Pow(c, 1-m.gamma) / (1 - m.gamma)
}

func (m *growthModel) MarginalUtility(c float64) float64 {
	return math.Pow(c, -m.gamma)
}

func (m *growthModel) Consumption(dv float64) float64 {
	return math.Pow(dv, -1/m.gamma)
}

func (m *growthModel) Drift(k, c float64) float64 {
	return m.Production(k) - m.delta*k - c
}

func (m *growthModel) steadyState() float64 {
	return math.Pow(m.alpha*m.tfp/(m.rho+m.delta), 1/(1-m.alpha))
}

// countRegimes recomputes the upwind indicator sets for an iterate,
// independently of the iterator's buffers.
func countRegimes(m Model, g *Grid, v []float64) (nf, nb, nz, both int) {
	n := g.Len()
	dk := g.Step()
	for i := 0; i < n; i++ {
		var dvF, dvB float64
		if i < n-1 {
			dvF = (v[i+1] - v[i]) / dk
		} else {
			dvF = (v[n-1] - v[n-2]) / dk
		}
		if i > 0 {
			dvB = (v[i] - v[i-1]) / dk
		} else {
			dvB = (v[1] - v[0]) / dk
		}

		driftF := m.Drift(g.At(i), m.Consumption(dvF))
		driftB := m.Drift(g.At(i), m.Consumption(dvB))
		if i == n-1 {
			driftF = 0
		}
		if i == 0 {
			driftB = 0
		}

		forward := driftF > 0
		backward := driftB < 0
		switch {
		case forward && backward:
			both++
		case forward:
			nf++
		case backward:
			nb++
		default:
			nz++
		}
	}
	return
}

func TestUpwindExclusivity(t *testing.T) {
	m := newGrowthModel()
	kss := m.steadyState()
	g, err := NewGrid(0.1*kss, 2*kss, 200)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	it, err := NewIterator(m, g, DefaultGuess(m, g), 1000)
	if err != nil {
		t.Fatalf("iterator failed: %v", err)
	}

	for iter := 0; iter < 10; iter++ {
		nf, nb, nz, both := countRegimes(m, g, it.v)
		if both != 0 {
			t.Fatalf("iteration %d: %d points with overlapping indicators", iter, both)
		}
		if nf+nb+nz != g.Len() {
			t.Fatalf("iteration %d: indicators cover %d of %d points", iter, nf+nb+nz, g.Len())
		}

		if _, err := it.Step(); err != nil {
			t.Fatalf("iteration %d: step failed: %v", iter, err)
		}
	}
}

func TestGeneratorRowSums(t *testing.T) {
	m := newGrowthModel()
	kss := m.steadyState()
	g, err := NewGrid(0.1*kss, 2*kss, 150)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	const step = 500.0
	it, err := NewIterator(m, g, DefaultGuess(m, g), step)
	if err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	if _, err := it.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// every assembled row sums to rho + 1/step exactly when the
	// underlying generator rows sum to zero
	want := m.Discount() + 1/step
	n := g.Len()
	for i := 0; i < n; i++ {
		sum := it.gen.Diag[i]
		if i > 0 {
			sum += it.gen.Sub[i]
		}
		if i < n-1 {
			sum += it.gen.Super[i]
		}
		if math.Abs(sum-want) > 1e-12 {
			t.Errorf("row %d sums to %g, want %g", i, sum, want)
		}

		if i > 0 && it.gen.Sub[i] > 0 {
			t.Errorf("row %d: positive sub-diagonal %g", i, it.gen.Sub[i])
		}
		if i < n-1 && it.gen.Super[i] > 0 {
			t.Errorf("row %d: positive super-diagonal %g", i, it.gen.Super[i])
		}
		if it.gen.Diag[i] < want {
			t.Errorf("row %d: diagonal %g below %g", i, it.gen.Diag[i], want)
		}
	}

	// boundary rows carry no neighbor term on the missing side
	if it.gen.Sub[0] != 0 {
		t.Errorf("first row has sub-diagonal %g", it.gen.Sub[0])
	}
	if it.gen.Super[n-1] != 0 {
		t.Errorf("last row has super-diagonal %g", it.gen.Super[n-1])
	}
}

func TestBoundaryDriftSuppression(t *testing.T) {
	m := newGrowthModel()
	g, err := NewGrid(1, 8, 50)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	// a steep and a shallow iterate; without the boundary override the
	// steep one drifts out the top and the shallow one out the bottom
	steep := make([]float64, g.Len())
	shallow := make([]float64, g.Len())
	for i := range steep {
		steep[i] = 100 * g.At(i)
		shallow[i] = 0.01 * g.At(i)
	}

	for _, v := range [][]float64{steep, shallow} {
		it, err := NewIterator(m, g, v, 1000)
		if err != nil {
			t.Fatalf("iterator failed: %v", err)
		}
		if _, err := it.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}

		if it.fUp[g.Len()-1] != 0 {
			t.Errorf("forward drift not suppressed at top: %g", it.fUp[g.Len()-1])
		}
		if it.bUp[0] != 0 {
			t.Errorf("backward drift not suppressed at bottom: %g", it.bUp[0])
		}
	}
}

func TestZeroDriftConsumption(t *testing.T) {
	m := newGrowthModel()
	g, err := FromPoints([]float64{1, 1.5, 2, 2.5, 3})
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	// at k=2 the forward difference implies consumption above the
	// zero-drift level and the backward difference below it, so
	// neither indicator fires there
	v := []float64{0, 0.5, 1.0, 1.25, 1.45}
	x := m.Drift(2, 0)
	if c := m.Consumption((v[3] - v[2]) / 0.5); c <= x {
		t.Fatalf("forward candidate %g does not exceed zero-drift level %g", c, x)
	}
	if c := m.Consumption((v[2] - v[1]) / 0.5); c >= x {
		t.Fatalf("backward candidate %g is not below zero-drift level %g", c, x)
	}

	it, err := NewIterator(m, g, v, 1000)
	if err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	if _, err := it.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// pinned exactly, not recovered from any derivative
	if it.cons[2] != m.Drift(g.At(2), 0) {
		t.Errorf("zero-drift consumption %g, want exactly %g", it.cons[2], m.Drift(g.At(2), 0))
	}

	// a neighbor in the forward regime recovers consumption from the
	// derivative instead
	wantNeighbor := m.Consumption((v[2] - v[1]) / 0.5)
	if math.Abs(it.cons[1]-wantNeighbor) > 1e-15 {
		t.Errorf("forward-regime consumption %g, want %g", it.cons[1], wantNeighbor)
	}
}

func TestIdempotenceAtFixedPoint(t *testing.T) {
	m := newGrowthModel()
	kss := m.steadyState()
	g, err := NewGrid(0.1*kss, 2*kss, 400)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	cfg := DefaultSettings()
	cfg.Tolerance = 1e-11
	cfg.MaxIterations = 300
	cfg.KeepHistory = false

	res, err := New(m, g).Solve(context.Background(), DefaultGuess(m, g), cfg)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !res.Converged {
		t.Fatal("did not converge to fixed point")
	}

	it, err := NewIterator(m, g, res.Value, cfg.Step)
	if err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	diff, err := it.Step()
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if diff > 1e-9 {
		t.Errorf("extra iteration moved the fixed point by %g", diff)
	}
}

func TestIteratorValidation(t *testing.T) {
	m := newGrowthModel()
	g, err := NewGrid(1, 5, 10)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	if _, err := NewIterator(m, g, make([]float64, 9), 1000); err != ErrGuessLength {
		t.Errorf("expected ErrGuessLength, got %v", err)
	}
	if _, err := NewIterator(m, g, make([]float64, 10), 0); err != ErrInvalidStep {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
}

func TestIteratorReset(t *testing.T) {
	m := newGrowthModel()
	g, err := NewGrid(1, 5, 20)
	if err != nil {
		t.Fatalf("grid failed: %v", err)
	}

	guess := DefaultGuess(m, g)
	it, err := NewIterator(m, g, guess, 1000)
	if err != nil {
		t.Fatalf("iterator failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := it.Step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if it.Iteration() != 3 {
		t.Errorf("expected 3 iterations, got %d", it.Iteration())
	}

	if err := it.Reset(guess); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if it.Iteration() != 0 {
		t.Errorf("expected iteration 0 after reset, got %d", it.Iteration())
	}
	v := it.Value()
	for i := range v {
		if v[i] != guess[i] {
			t.Fatalf("value[%d] = %g after reset, want %g", i, v[i], guess[i])
		}
	}

	if err := it.Reset(make([]float64, 5)); err != ErrGuessLength {
		t.Errorf("expected ErrGuessLength, got %v", err)
	}
}
