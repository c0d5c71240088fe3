// Package economy provides growth models for the HJB solver.
//
// Each model implements the [hjb.Model] interface, supplying the
// production function, the flow utility with its marginal, the inverse
// marginal utility used for control recovery, and the capital law of
// motion f(k, c) = F(k) - delta*k - c:
//
//   - [CRRA]: constant-relative-risk-aversion utility with Cobb-Douglas
//     production, the standard neoclassical growth benchmark
//   - [Log]: the gamma -> 1 limit with logarithmic utility
//
// Both models also implement [hjb.SteadyStater] for the closed-form
// steady state and [hjb.Configurable] for runtime parameter changes.
package economy
