package flight

import (
	"context"
	"fmt"

	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/vector"
)

// Simulator integrates ball flights against one aerodynamic model.
type Simulator struct {
	model     *aero.Model
	metrics   []Metric
	observers []Observer
}

func New(model *aero.Model) *Simulator {
	return &Simulator{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() *aero.Model { return s.model }

// Run flies the ball from the origin until it drops below launch height.
//
// Each step advances the position by the current velocity (one time unit),
// adds the net force divided by mass to the velocity, decays the spin and
// recomputes the forces for the next step. When the step budget runs out the
// partial result is returned together with ErrDidNotLand.
func (s *Simulator) Run(ctx context.Context, launch Launch, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if err := launch.Validate(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	state := State{
		Velocity: launch.Velocity(),
		Spin:     launch.Spin,
	}
	forces := s.model.Forces(state.Velocity, state.Spin)
	if launch.InitialNet != nil {
		forces.Net = *launch.InitialNet
	}

	result := &Result{
		Trajectory: make(Trajectory, 0, 64),
		Phase:      Running,
		Metrics:    make(map[string]float64),
	}
	result.Trajectory = append(result.Trajectory, state.sample())
	s.notify(state, forces)

	decay := 1 - launch.SpinDecay
	for result.Phase == Running {
		select {
		case <-ctx.Done():
			return s.finish(result, state), ctx.Err()
		default:
		}

		if state.Step >= cfg.MaxSteps {
			return s.finish(result, state), &SimulationError{Step: state.Step, State: state, Wrapped: ErrDidNotLand}
		}

		state.Position = state.Position.Add(vector.ToCartesian(state.Velocity))
		state.Step++
		state.Velocity = vector.Sum(state.Velocity, s.model.Acceleration(forces.Net))
		state.Spin *= decay

		if cfg.ValidateState && !state.IsValid() {
			result.Trajectory = append(result.Trajectory, state.sample())
			return s.finish(result, state), &SimulationError{Step: state.Step, State: state, Wrapped: ErrInvalidState}
		}

		forces = s.model.Forces(state.Velocity, state.Spin)
		result.Trajectory = append(result.Trajectory, state.sample())
		s.notify(state, forces)

		if state.Position.Y < 0 {
			result.Phase = Terminated
			result.Landed = true
		}
	}

	return s.finish(result, state), nil
}

func (s *Simulator) notify(state State, forces aero.Forces) {
	for _, m := range s.metrics {
		m.Observe(state, forces)
	}
	for _, obs := range s.observers {
		obs.OnStep(state, forces)
	}
}

func (s *Simulator) finish(result *Result, state State) *Result {
	result.Final = state
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func validateConfig(cfg Config) error {
	if cfg.MaxSteps <= 0 {
		return &aero.ConfigError{Field: "max_steps", Reason: fmt.Sprintf("must be positive, got %d", cfg.MaxSteps)}
	}
	return nil
}
