// Package hjb solves stationary Hamilton-Jacobi-Bellman equations on a
// uniform 1-D grid by implicit finite differences with upwind drift
// selection, the scheme of Achdou, Han, Lasry, Lions and Moll.
//
// At each grid point the value-function derivative is taken forward or
// backward according to the sign of the optimal drift, which makes the
// discrete transition generator A tridiagonal with zero row sums. Each
// pseudo-time step then solves
//
//	((rho + 1/step) I - A) v' = u + v/step
//
// so the update is unconditionally stable in the step size and the
// iteration contracts toward the stationary value function.
//
// [Solver.Solve] runs the iteration to convergence or budget
// exhaustion; running out of iterations is reported through
// [Result.Converged], not as an error. [Iterator] exposes one update at
// a time for callers that want to watch the approach.
//
// Models plug in through the [Model] interface:
//
//	m := economy.NewCRRA()
//	g, _ := hjb.NewGrid(0.1, 10, 1000)
//	s := hjb.New(m, g)
//	res, err := s.Solve(ctx, hjb.DefaultGuess(m, g), hjb.DefaultSettings())
package hjb
