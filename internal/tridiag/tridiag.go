package tridiag

import "errors"

// ErrSingular indicates forward elimination hit a zero pivot.
var ErrSingular = errors.New("tridiag: zero pivot during elimination")

// Matrix is a tridiagonal matrix stored as three coefficient slices.
// Sub[0] and Super[n-1] are ignored. All three slices share one length.
type Matrix struct {
	Sub   []float64
	Diag  []float64
	Super []float64
}

func New(n int) *Matrix {
	return &Matrix{
		Sub:   make([]float64, n),
		Diag:  make([]float64, n),
		Super: make([]float64, n),
	}
}

func (m *Matrix) Len() int { return len(m.Diag) }

func (m *Matrix) Reset() {
	for i := range m.Diag {
		m.Sub[i] = 0
		m.Diag[i] = 0
		m.Super[i] = 0
	}
}

// MulVec computes dst = M*x. dst must not alias x.
func (m *Matrix) MulVec(x, dst []float64) {
	n := len(m.Diag)
	for i := 0; i < n; i++ {
		s := m.Diag[i] * x[i]
		if i > 0 {
			s += m.Sub[i] * x[i-1]
		}
		if i < n-1 {
			s += m.Super[i] * x[i+1]
		}
		dst[i] = s
	}
}

// Solver solves tridiagonal systems by the Thomas algorithm, reusing
// its elimination buffers across calls.
type Solver struct {
	cp, dp []float64
}

func NewSolver() *Solver {
	return &Solver{}
}

func (s *Solver) ensureScratch(n int) {
	if len(s.cp) != n {
		s.cp = make([]float64, n)
		s.dp = make([]float64, n)
	}
}

// Solve writes the solution of M*dst = rhs into dst. dst may alias rhs.
// The sweep does not pivot, so M should be diagonally dominant.
func (s *Solver) Solve(m *Matrix, rhs, dst []float64) error {
	n := m.Len()
	if n == 0 {
		return nil
	}
	s.ensureScratch(n)

	beta := m.Diag[0]
	if beta == 0 {
		return ErrSingular
	}
	s.cp[0] = m.Super[0] / beta
	s.dp[0] = rhs[0] / beta

	for i := 1; i < n; i++ {
		beta = m.Diag[i] - m.Sub[i]*s.cp[i-1]
		if beta == 0 {
			return ErrSingular
		}
		s.cp[i] = m.Super[i] / beta
		s.dp[i] = (rhs[i] - m.Sub[i]*s.dp[i-1]) / beta
	}

	dst[n-1] = s.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		dst[i] = s.dp[i] - s.cp[i]*dst[i+1]
	}
	return nil
}
