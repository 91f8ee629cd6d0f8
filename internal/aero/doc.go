// Package aero models the forces on a spinning golf ball in flight.
//
// Drag uses a drag coefficient looked up by Reynolds number in a calibration
// table (nearest neighbour, no interpolation). Magnus lift uses a cubic fit of
// the lift coefficient in spin rate and always acts straight up. Weight is
// constant and acts straight down.
//
//	m, err := aero.New(aero.DefaultParams())
//	f := m.Forces(vector.Polar{Magnitude: 45, Angle: 30}, 418)
package aero
