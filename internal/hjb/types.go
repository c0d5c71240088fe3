package hjb

import "math"

// Model supplies the economic primitives evaluated on the grid.
// Consumption is the inverse marginal utility and is supplied by the
// model, never derived here; what it does outside its invertible range
// (a non-positive derivative, say) is the model's documented contract,
// and the solver just propagates the result.
type Model interface {
	// Discount returns the discount rate rho.
	Discount() float64
	// Production returns output F(k).
	Production(k float64) float64
	// Utility returns the flow payoff u(c).
	Utility(c float64) float64
	// MarginalUtility returns u'(c).
	MarginalUtility(c float64) float64
	// Consumption recovers the control from a derivative value,
	// c(dv) = (u')^(-1)(dv).
	Consumption(dv float64) float64
	// Drift returns the law of motion f(k, c).
	Drift(k, c float64) float64
}

// SteadyStater is implemented by models with a closed-form steady state.
type SteadyStater interface {
	SteadyState() (k, c float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(iteration int, value, policy []float64, diff float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnIteration(iteration int, value, policy []float64, diff float64)
}

// Settings controls a solve. Step is the pseudo-time step: larger
// values damp harder and converge in fewer iterations.
type Settings struct {
	Step          float64
	MaxIterations int
	Tolerance     float64
	ValidateState bool
	KeepHistory   bool
}

func DefaultSettings() Settings {
	return Settings{
		Step:          1000,
		MaxIterations: 100,
		Tolerance:     1e-8,
		ValidateState: true,
		KeepHistory:   true,
	}
}

// Result holds the terminal iterate and per-iteration diagnostics.
// Converged reports whether the residual dropped below tolerance within
// the budget; running out of iterations is not an error.
type Result struct {
	Value      []float64
	Policy     []float64
	Drift      []float64
	History    [][]float64
	Residuals  []float64
	Iterations int
	Converged  bool
	Metrics    map[string]float64
}

func clone(xs []float64) []float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	return c
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
