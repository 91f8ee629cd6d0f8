package logging

import (
	"github.com/san-kum/golfsim/internal/aero"
	"github.com/san-kum/golfsim/internal/flight"
	"go.uber.org/zap"
)

// StepObserver logs every integration step at debug level.
type StepObserver struct {
	logger *zap.Logger
}

func NewStepObserver(logger *zap.Logger) *StepObserver {
	return &StepObserver{logger: logger}
}

func (o *StepObserver) OnStep(s flight.State, f aero.Forces) {
	if ce := o.logger.Check(zap.DebugLevel, "step"); ce != nil {
		ce.Write(
			zap.Int("step", s.Step),
			zap.Float64("x", s.Position.X),
			zap.Float64("y", s.Position.Y),
			zap.Float64("speed", s.Velocity.Magnitude),
			zap.Float64("angle", s.Velocity.Angle),
			zap.Float64("spin", s.Spin),
			zap.Float64("drag", f.Drag.Magnitude),
			zap.Float64("lift", f.Lift.Magnitude),
			zap.Float64("net", f.Net.Magnitude),
		)
	}
}
