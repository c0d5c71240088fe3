package hjb

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/bellman/internal/tridiag"
)

// Iterator advances the implicit scheme one update at a time. All
// buffers are owned by the iterator and reused across steps.
type Iterator struct {
	model Model
	grid  *Grid
	step  float64
	iter  int

	v      []float64
	vNew   []float64
	dvF    []float64
	dvB    []float64
	cons   []float64
	util   []float64
	drift  []float64
	fUp    []float64
	bUp    []float64
	rhs    []float64
	gen    *tridiag.Matrix
	thomas *tridiag.Solver
}

// NewIterator seeds the iteration with a copy of guess. The step is the
// pseudo-time step of the implicit update.
func NewIterator(m Model, g *Grid, guess []float64, step float64) (*Iterator, error) {
	if len(guess) != g.Len() {
		return nil, ErrGuessLength
	}
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	n := g.Len()
	it := &Iterator{
		model:  m,
		grid:   g,
		step:   step,
		v:      make([]float64, n),
		vNew:   make([]float64, n),
		dvF:    make([]float64, n),
		dvB:    make([]float64, n),
		cons:   make([]float64, n),
		util:   make([]float64, n),
		drift:  make([]float64, n),
		fUp:    make([]float64, n),
		bUp:    make([]float64, n),
		rhs:    make([]float64, n),
		gen:    tridiag.New(n),
		thomas: tridiag.NewSolver(),
	}
	copy(it.v, guess)
	return it, nil
}

// Step runs one implicit update and reports the sup-norm change between
// the old and new iterates.
func (it *Iterator) Step() (float64, error) {
	n := it.grid.Len()
	m := it.model
	dk := it.grid.Step()
	v := it.v

	// one-sided differences; the forward stencil repeats the last
	// difference and the backward stencil the first, so both cover the
	// full grid
	for i := 0; i < n-1; i++ {
		d := (v[i+1] - v[i]) / dk
		it.dvF[i] = d
		it.dvB[i+1] = d
	}
	it.dvF[n-1] = it.dvF[n-2]
	it.dvB[0] = it.dvF[0]

	for i := 0; i < n; i++ {
		k := it.grid.At(i)

		cF := m.Consumption(it.dvF[i])
		cB := m.Consumption(it.dvB[i])
		driftF := m.Drift(k, cF)
		driftB := m.Drift(k, cB)

		// the state cannot drift past the grid ends
		if i == n-1 {
			driftF = 0
		}
		if i == 0 {
			driftB = 0
		}

		var c float64
		switch {
		case driftF > 0:
			c = cF
		case driftB < 0:
			c = cB
		default:
			// no drift either way: consumption is pinned by the
			// zero-drift condition, not by a derivative value
			c = m.Drift(k, 0)
		}
		it.cons[i] = c
		it.util[i] = m.Utility(c)
		it.drift[i] = m.Drift(k, c)

		it.fUp[i] = math.Max(driftF, 0) / dk
		it.bUp[i] = math.Min(driftB, 0) / dk
	}

	// assemble (rho + 1/step) I - A; the generator A has row sums zero,
	// so every assembled row sums to rho + 1/step
	damp := 1 / it.step
	rho := m.Discount()
	for i := 0; i < n; i++ {
		it.gen.Sub[i] = it.bUp[i]
		it.gen.Diag[i] = rho + damp + it.fUp[i] - it.bUp[i]
		it.gen.Super[i] = -it.fUp[i]
		it.rhs[i] = it.util[i] + v[i]*damp
	}

	if err := it.thomas.Solve(it.gen, it.rhs, it.vNew); err != nil {
		return 0, err
	}

	diff := floats.Distance(it.vNew, v, math.Inf(1))
	it.v, it.vNew = it.vNew, it.v
	it.iter++
	return diff, nil
}

// Reset rewinds the iterator to a fresh guess.
func (it *Iterator) Reset(guess []float64) error {
	if len(guess) != it.grid.Len() {
		return ErrGuessLength
	}
	copy(it.v, guess)
	it.iter = 0
	return nil
}

func (it *Iterator) Iteration() int { return it.iter }

// Value returns a copy of the current iterate.
func (it *Iterator) Value() []float64 { return clone(it.v) }

// Policy returns a copy of the consumption selected on the last step.
func (it *Iterator) Policy() []float64 { return clone(it.cons) }

// Drift returns a copy of the savings implied by the last policy.
func (it *Iterator) Drift() []float64 { return clone(it.drift) }
