package world

import (
	"github.com/nathoo/goapcore/engine/geom"
)

// Sensor detects a target body within a radius of its owner. It samples
// once per world step; between steps its answers are stable, so range and
// position read in the same step always agree.
type Sensor struct {
	name   string
	owner  *Body
	target *Body
	radius float64

	inRange bool
	lastPos geom.Vec3

	subscribers []func()
}

func (s *Sensor) Name() string      { return s.name }
func (s *Sensor) Radius() float64   { return s.radius }
func (s *Sensor) Owner() *Body      { return s.owner }
func (s *Sensor) SetTarget(b *Body) { s.target = b }

// IsTargetInRange reports the state sampled on the last step.
func (s *Sensor) IsTargetInRange() bool { return s.inRange }

// TargetPosition returns where the target was last seen in range.
func (s *Sensor) TargetPosition() geom.Vec3 {
	if !s.inRange {
		return geom.Vec3{}
	}
	return s.lastPos
}

// Snapshot returns range and position from the same sample.
func (s *Sensor) Snapshot() (bool, geom.Vec3) {
	return s.inRange, s.TargetPosition()
}

// Subscribe registers fn to run whenever the sensor gains or loses its
// target.
func (s *Sensor) Subscribe(fn func()) {
	s.subscribers = append(s.subscribers, fn)
}

// update samples the target and reports whether the in-range state flipped.
func (s *Sensor) update() bool {
	in := false
	if s.target != nil {
		in = s.owner.pos.Dist(s.target.pos) <= s.radius
	}
	if in {
		s.lastPos = s.target.pos
	}
	if in == s.inRange {
		return false
	}
	s.inRange = in
	for _, fn := range s.subscribers {
		fn()
	}
	return true
}
