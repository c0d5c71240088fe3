package economy

import (
	"fmt"
	"math"
)

// CRRA pairs constant-relative-risk-aversion utility
// u(c) = c^(1-gamma)/(1-gamma) with Cobb-Douglas production
// F(k) = A*k^alpha.
type CRRA struct {
	Gamma float64
	Alpha float64
	Delta float64
	Rho   float64
	TFP   float64
}

func NewCRRA() *CRRA {
	return &CRRA{
		Gamma: 2.0,
		Alpha: 0.3,
		Delta: 0.05,
		Rho:   0.05,
		TFP:   1.0,
	}
}

func (m *CRRA) Discount() float64 { return m.Rho }

func (m *CRRA) Production(k float64) float64 {
	return m.TFP * math.Pow(k, m.Alpha)
}

func (m *CRRA) Utility(c float64) float64 {
	return math.Pow(c, 1-m.Gamma) / (1 - m.Gamma)
}

func (m *CRRA) MarginalUtility(c float64) float64 {
	return math.Pow(c, -m.Gamma)
}

// Consumption inverts marginal utility, c(dv) = dv^(-1/gamma). The
// inverse only exists for dv > 0: a negative dv yields NaN and zero
// yields +Inf, both of which the solver flags when state validation
// is on.
func (m *CRRA) Consumption(dv float64) float64 {
	return math.Pow(dv, -1/m.Gamma)
}

func (m *CRRA) Drift(k, c float64) float64 {
	return m.Production(k) - m.Delta*k - c
}

// SteadyState returns the capital level where the marginal product
// equals rho + delta, and the consumption that holds it there.
func (m *CRRA) SteadyState() (k, c float64) {
	k = math.Pow(m.Alpha*m.TFP/(m.Rho+m.Delta), 1/(1-m.Alpha))
	c = m.Production(k) - m.Delta*k
	return k, c
}

func (m *CRRA) GetParams() map[string]float64 {
	return map[string]float64{
		"gamma": m.Gamma,
		"alpha": m.Alpha,
		"delta": m.Delta,
		"rho":   m.Rho,
		"tfp":   m.TFP,
	}
}

func (m *CRRA) SetParam(name string, value float64) error {
	switch name {
	case "gamma":
		if value <= 0 {
			return fmt.Errorf("gamma must be positive, got %f", value)
		}
		if value == 1 {
			return fmt.Errorf("gamma 1 is the log-utility limit, use the log model")
		}
		m.Gamma = value
	case "alpha":
		if value <= 0 || value >= 1 {
			return fmt.Errorf("alpha must lie in (0, 1), got %f", value)
		}
		m.Alpha = value
	case "delta":
		if value < 0 {
			return fmt.Errorf("delta must be non-negative, got %f", value)
		}
		m.Delta = value
	case "rho":
		if value <= 0 {
			return fmt.Errorf("rho must be positive, got %f", value)
		}
		m.Rho = value
	case "tfp":
		if value <= 0 {
			return fmt.Errorf("tfp must be positive, got %f", value)
		}
		m.TFP = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
