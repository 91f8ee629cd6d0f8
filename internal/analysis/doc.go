// Package analysis post-processes finished flights.
//
//   - [Fit]: least-squares polynomial fit of height against distance
//   - [Landing]: interpolated point where the path crosses launch height
//
// The fit smooths the coarse unit-step trajectory into a curve that can be
// sampled at any distance:
//
//	poly, _ := analysis.Fit(res.Trajectory.Points(), 4)
//	h := poly.Eval(100)
package analysis
