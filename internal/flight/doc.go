// Package flight integrates the trajectory of a spinning golf ball.
//
// A [Simulator] owns an [aero.Model] and runs discrete unit time steps from a
// [Launch] until the ball drops below launch height:
//
//	model, _ := aero.New(aero.DefaultParams())
//	sim := flight.New(model)
//	res, err := sim.Run(ctx, flight.Launch{Speed: 45, Angle: 30, Spin: 418, SpinDecay: 0.04}, flight.DefaultConfig())
//
// Every run is bounded by [Config.MaxSteps]; a ball that never comes down
// yields [ErrDidNotLand] together with the partial trajectory.
//
// # Thread Safety
//
// A Simulator is NOT thread-safe because its metrics are stateful. The model
// is read-only, so concurrent runs should each build their own Simulator
// around a shared model.
package flight
