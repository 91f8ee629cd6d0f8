// Package vector provides the 2D polar vector algebra used by the flight model.
//
// Forces and velocities are carried in polar form ([Polar]: magnitude and
// angle in degrees) and combined by converting to Cartesian components:
//
//	net := vector.Sum(drag, lift, weight)
//
// Angles are never normalised; they wrap naturally through the trigonometric
// conversion. A sum whose Cartesian total is exactly (0, 0) has angle 0.
package vector
