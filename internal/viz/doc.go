// Package viz renders flights in the terminal.
//
//   - [Plot] and [PlotTrajectory]: static asciigraph and braille plots
//   - [RenderSummary]: a lipgloss panel with the outcome and per-run metrics
//   - [Replay]: a Bubble Tea program that redraws a flight sample by sample
//
// # Replay keys
//
//	Space - Pause/Resume
//	R     - Restart
//	[ ]   - Step backward/forward
//	T     - Cycle color themes
//	Q     - Quit
package viz
