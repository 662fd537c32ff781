package goap

import (
	"log/slog"

	"github.com/nathoo/goapcore/engine/geom"
)

// Positioner reports where the agent is.
type Positioner interface {
	Position() geom.Vec3
}

// Sensor reports whether a target is detected and where it is.
type Sensor interface {
	IsTargetInRange() bool
	TargetPosition() geom.Vec3
}

// SensorSnapshotter is implemented by sensors that can report range and
// position atomically. Sensor beliefs prefer it when available.
type SensorSnapshotter interface {
	Snapshot() (inRange bool, target geom.Vec3)
}

func readSensor(s Sensor) (bool, geom.Vec3) {
	if ss, ok := s.(SensorSnapshotter); ok {
		return ss.Snapshot()
	}
	in := s.IsTargetInRange()
	if !in {
		return false, geom.Vec3{}
	}
	return true, s.TargetPosition()
}

// BeliefFactory registers the common kinds of belief into a store.
type BeliefFactory struct {
	agent   Positioner
	beliefs *Beliefs
	logger  *slog.Logger
}

// NewBeliefFactory creates a factory writing into beliefs. agent supplies
// the position for location beliefs. A nil logger uses slog.Default().
func NewBeliefFactory(agent Positioner, beliefs *Beliefs, logger *slog.Logger) *BeliefFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &BeliefFactory{agent: agent, beliefs: beliefs, logger: logger}
}

// AddBelief registers a non-spatial belief.
func (f *BeliefFactory) AddBelief(name string, condition func() bool) error {
	return f.beliefs.Add(NewBelief(name).WithCondition(condition).WithLogger(f.logger).Build())
}

// AddFalseBelief registers a belief that holds while condition does not.
func (f *BeliefFactory) AddFalseBelief(name string, condition func() bool) error {
	return f.AddBelief(name, func() bool { return !condition() })
}

// AddLocationBelief registers a belief that holds while the agent is
// strictly closer than distance to point.
func (f *BeliefFactory) AddLocationBelief(name string, distance float64, point geom.Vec3) error {
	agent := f.agent
	b := NewBelief(name).
		WithCondition(func() bool { return agent.Position().Dist(point) < distance }).
		WithLocation(func() geom.Vec3 { return point }).
		WithLogger(f.logger).
		Build()
	return f.beliefs.Add(b)
}

// AddSensorBelief registers a belief that holds while any sensor has a
// target in range. Its location is the target of the first such sensor.
// Truth and location come from the same pass over the sensors.
func (f *BeliefFactory) AddSensorBelief(name string, sensors ...Sensor) error {
	if len(sensors) == 0 {
		return ErrNoSensors
	}
	b := NewBelief(name).
		WithObserver(func() Observation {
			for _, s := range sensors {
				if in, target := readSensor(s); in {
					return Observation{Holds: true, Spatial: true, HasLocation: true, Location: target}
				}
			}
			return Observation{Spatial: true}
		}).
		WithLogger(f.logger).
		Build()
	return f.beliefs.Add(b)
}

// AddSensorFalseBelief registers a belief that holds while the sensor has
// no target in range. It has no location.
func (f *BeliefFactory) AddSensorFalseBelief(name string, sensor Sensor) error {
	if sensor == nil {
		return ErrNoSensors
	}
	return f.AddBelief(name, func() bool {
		in, _ := readSensor(sensor)
		return !in
	})
}
