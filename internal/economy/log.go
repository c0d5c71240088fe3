package economy

import (
	"fmt"
	"math"
)

// Log is the gamma -> 1 limit of CRRA: u(c) = ln(c) with the same
// Cobb-Douglas production.
type Log struct {
	Alpha float64
	Delta float64
	Rho   float64
	TFP   float64
}

func NewLog() *Log {
	return &Log{
		Alpha: 0.3,
		Delta: 0.05,
		Rho:   0.05,
		TFP:   1.0,
	}
}

func (m *Log) Discount() float64 { return m.Rho }

func (m *Log) Production(k float64) float64 {
	return m.TFP * math.Pow(k, m.Alpha)
}

func (m *Log) Utility(c float64) float64 {
	return math.Log(c)
}

func (m *Log) MarginalUtility(c float64) float64 {
	return 1 / c
}

// Consumption inverts marginal utility, c(dv) = 1/dv. A non-positive
// dv yields a candidate outside the utility domain; its payoff is NaN
// and the solver flags it when state validation is on.
func (m *Log) Consumption(dv float64) float64 {
	return 1 / dv
}

func (m *Log) Drift(k, c float64) float64 {
	return m.Production(k) - m.Delta*k - c
}

// SteadyState does not depend on risk aversion, so it matches the CRRA
// value for the same technology parameters.
func (m *Log) SteadyState() (k, c float64) {
	k = math.Pow(m.Alpha*m.TFP/(m.Rho+m.Delta), 1/(1-m.Alpha))
	c = m.Production(k) - m.Delta*k
	return k, c
}

func (m *Log) GetParams() map[string]float64 {
	return map[string]float64{
		"alpha": m.Alpha,
		"delta": m.Delta,
		"rho":   m.Rho,
		"tfp":   m.TFP,
	}
}

func (m *Log) SetParam(name string, value float64) error {
	switch name {
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
