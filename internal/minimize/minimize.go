package minimize

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ErrNoFunc reports a problem without an objective function.
var ErrNoFunc = errors.New("minimize: no objective function")

// ErrNoGrad reports a gradient check on a problem without an analytic gradient.
var ErrNoGrad = errors.New("minimize: no gradient to check")

// Problem is an unconstrained smooth minimization target. Grad is optional;
// a central-difference approximation fills in when it is absent.
type Problem struct {
	Func func(x []float64) float64
	Grad func(grad, x []float64)
}

type Solution struct {
	X         []float64
	F         float64
	Gradient  []float64
	FuncEvals int
	GradEvals int
	Status    string
}

// Minimize descends from x0 until the gradient norm or step size stalls.
func Minimize(p Problem, x0 []float64) (*Solution, error) {
	if p.Func == nil {
		return nil, ErrNoFunc
	}

	grad := p.Grad
	if grad == nil {
		grad = func(dst, x []float64) {
			fd.Gradient(dst, p.Func, x, &fd.Settings{Formula: fd.Central})
		}
	}

	gp := optimize.Problem{Func: p.Func, Grad: grad}
	result, err := optimize.Minimize(gp, x0, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("minimize: %w", err)
	}

	return &Solution{
		X:         result.Location.X,
		F:         result.Location.F,
		Gradient:  result.Location.Gradient,
		FuncEvals: result.Stats.FuncEvaluations,
		GradEvals: result.Stats.GradEvaluations,
		Status:    result.Status.String(),
	}, nil
}

// CheckGradient returns the sup-norm distance between the analytic gradient
// and a central-difference approximation at x.
func CheckGradient(p Problem, x []float64) (float64, error) {
	if p.Func == nil {
		return 0, ErrNoFunc
	}
	if p.Grad == nil {
		return 0, ErrNoGrad
	}

	got := make([]float64, len(x))
	p.Grad(got, x)

	want := fd.Gradient(nil, p.Func, x, &fd.Settings{Formula: fd.Central})
	return floats.Distance(got, want, math.Inf(1)), nil
}
