// Package world is the simulation host the agents live in: a bounded
// ground plane, bodies that walk in straight lines, per-body animators,
// and radius sensors that watch the player.
package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/goapcore/engine/geom"
)

// PlayerID is the id of the player body.
const PlayerID = "player"

var ErrDuplicateBody = errors.New("duplicate body")

// Bounds is an axis-aligned rectangle on the ground plane. Y is ignored.
type Bounds struct {
	Min geom.Vec3 `json:"min"`
	Max geom.Vec3 `json:"max"`
}

// Contains reports whether p lies inside the bounds on the X/Z plane.
func (b Bounds) Contains(p geom.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns the closest point to p inside the bounds, on the ground.
func (b Bounds) Clamp(p geom.Vec3) geom.Vec3 {
	return geom.V(
		math.Max(b.Min.X, math.Min(b.Max.X, p.X)),
		0,
		math.Max(b.Min.Z, math.Min(b.Max.Z, p.Z)),
	)
}

// SensorChange records a sensor gaining or losing its target during a step.
type SensorChange struct {
	Sensor  string
	Owner   string
	InRange bool
}

// World owns every body and sensor. It is advanced explicitly by Step and
// is not safe for concurrent use.
type World struct {
	bounds  Bounds
	bodies  []*Body
	byID    map[string]*Body
	sensors []*Sensor
	time    float64
}

func New(bounds Bounds) *World {
	return &World{bounds: bounds, byID: map[string]*Body{}}
}

func (w *World) Bounds() Bounds { return w.bounds }
func (w *World) Time() float64  { return w.time }

// SetTime restores the simulation clock, for loading saves.
func (w *World) SetTime(t float64) { w.time = t }

// AddBody places a new body. Ids are unique.
func (w *World) AddBody(id string, pos geom.Vec3, speed float64, clips map[string]float64) (*Body, error) {
	if _, exists := w.byID[id]; exists {
		return nil, fmt.Errorf("world: %w: %q", ErrDuplicateBody, id)
	}
	b := &Body{
		id:    id,
		world: w,
		pos:   w.bounds.Clamp(pos),
		speed: speed,
		anim:  NewAnimator(clips),
	}
	w.bodies = append(w.bodies, b)
	w.byID[id] = b
	return b, nil
}

// Body returns the body with the given id.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

// Bodies returns every body in creation order.
func (w *World) Bodies() []*Body {
	return append([]*Body(nil), w.bodies...)
}

// Player returns the player body, if one was added.
func (w *World) Player() *Body {
	return w.byID[PlayerID]
}

// AddSensor attaches a radius sensor to owner. It watches the player.
func (w *World) AddSensor(name string, owner *Body, radius float64) *Sensor {
	s := &Sensor{name: name, owner: owner, radius: radius, target: w.Player()}
	w.sensors = append(w.sensors, s)
	return s
}

// Sensors returns every sensor in creation order.
func (w *World) Sensors() []*Sensor {
	return append([]*Sensor(nil), w.sensors...)
}

// SamplePosition snaps p into the bounds and succeeds when the snapped
// point is within maxDistance of p.
func (w *World) SamplePosition(p geom.Vec3, maxDistance float64) (geom.Vec3, bool) {
	hit := w.bounds.Clamp(p)
	if hit.Dist(geom.V(p.X, 0, p.Z)) > maxDistance {
		return geom.Vec3{}, false
	}
	return hit, true
}

// Step moves every body, then samples every sensor. Sensor subscribers run
// during the step; the returned changes let the host report them too.
func (w *World) Step(dt float64) []SensorChange {
	w.time += dt
	for _, b := range w.bodies {
		b.step(dt)
	}
	var changes []SensorChange
	for _, s := range w.sensors {
		if s.target == nil {
			s.target = w.Player()
		}
		if s.update() {
			changes = append(changes, SensorChange{Sensor: s.name, Owner: s.owner.id, InRange: s.inRange})
		}
	}
	return changes
}

// Resample refreshes every sensor without notifying subscribers, for use
// after bodies are teleported by a load.
func (w *World) Resample() {
	for _, s := range w.sensors {
		subs := s.subscribers
		s.subscribers = nil
		s.update()
		s.subscribers = subs
	}
}
