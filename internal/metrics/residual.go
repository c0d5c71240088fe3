package metrics

// Residual tracks the sup-norm change of the value function, keeping
// the most recent observation.
type Residual struct {
	name string
	last float64
	seen int
}

func NewResidual() *Residual {
	return &Residual{name: "residual"}
}

func (r *Residual) Name() string { return r.name }

func (r *Residual) Observe(iteration int, value, policy []float64, diff float64) {
	r.last = diff
	r.seen++
}

func (r *Residual) Value() float64 { return r.last }

func (r *Residual) Reset() {
	r.last = 0
	r.seen = 0
}
