// Package analysis provides post-solve diagnostics for HJB solutions.
//
//   - [ConvergenceRate]: geometric decay factor fitted to the residual
//     history
//   - [Residuals]: pointwise error of a solution against the stationary
//     HJB equation
//   - [ZeroCrossing]: interpolated state where the savings policy
//     crosses zero, the numerical steady state
//
// A converged solve shows a decay factor well below one and a zero
// crossing near the model's closed-form steady state:
//
//	factor, _ := analysis.ConvergenceRate(res.Residuals)
//	kstar, _ := analysis.ZeroCrossing(g, res.Drift)
package analysis
