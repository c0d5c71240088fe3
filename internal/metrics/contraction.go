package metrics

// Contraction reports the mean ratio of successive residuals. Values
// well below one mean the iteration is shrinking the error
// geometrically; anything near or above one signals stalling.
type Contraction struct {
	name   string
	prev   float64
	sum    float64
	ratios int
	seen   int
}

func NewContraction() *Contraction {
	return &Contraction{name: "contraction"}
}

func (c *Contraction) Name() string { return c.name }

func (c *Contraction) Observe(iteration int, value, policy []float64, diff float64) {
	if c.seen > 0 && c.prev > 0 {
		c.sum += diff / c.prev
		c.ratios++
	}
	c.prev = diff
	c.seen++
}

func (c *Contraction) Value() float64 {
	if c.ratios == 0 {
		return 0
	}
	return c.sum / float64(c.ratios)
}

func (c *Contraction) Reset() {
	c.prev = 0
	c.sum = 0
	c.ratios = 0
	c.seen = 0
}
