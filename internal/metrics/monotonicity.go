package metrics

// PolicyMonotonicity reports the fraction of adjacent grid pairs where
// the consumption policy is non-decreasing, from the latest iteration
// observed. A healthy concave solve ends at 1.
type PolicyMonotonicity struct {
	name string
	frac float64
}

func NewPolicyMonotonicity() *PolicyMonotonicity {
	return &PolicyMonotonicity{name: "policy_monotonicity"}
}

func (p *PolicyMonotonicity) Name() string { return p.name }

func (p *PolicyMonotonicity) Observe(iteration int, value, policy []float64, diff float64) {
	if len(policy) < 2 {
		p.frac = 1
		return
	}
	ok := 0
	for i := 1; i < len(policy); i++ {
		if policy[i] >= policy[i-1] {
			ok++
		}
	}
	p.frac = float64(ok) / float64(len(policy)-1)
}

func (p *PolicyMonotonicity) Value() float64 { return p.frac }

func (p *PolicyMonotonicity) Reset() { p.frac = 0 }
