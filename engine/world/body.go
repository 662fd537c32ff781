package world

import (
	"github.com/nathoo/goapcore/engine/geom"
)

// Body is anything with a position that can walk: an agent or the player.
// Navigation is straight-line within the world bounds. A new destination
// leaves the path pending for one step before the body starts moving, and
// the path clears on arrival.
type Body struct {
	id      string
	world   *World
	pos     geom.Vec3
	speed   float64
	heading float64

	dest     geom.Vec3
	hasPath  bool
	pending  bool
	velocity geom.Vec3

	anim *Animator
}

func (b *Body) ID() string             { return b.id }
func (b *Body) Position() geom.Vec3    { return b.pos }
func (b *Body) Speed() float64         { return b.speed }
func (b *Body) Heading() float64       { return b.heading }
func (b *Body) SetHeading(yaw float64) { b.heading = yaw }
func (b *Body) Velocity() geom.Vec3    { return b.velocity }
func (b *Body) HasPath() bool          { return b.hasPath }
func (b *Body) PathPending() bool      { return b.pending }
func (b *Body) Destination() geom.Vec3 { return b.dest }
func (b *Body) Animator() *Animator    { return b.anim }

// SetDestination starts a path to p, clamped to the world bounds. A body
// already under way is re-pathed in place and keeps moving.
func (b *Body) SetDestination(p geom.Vec3) bool {
	b.dest = b.world.bounds.Clamp(p)
	if !b.hasPath || b.pending {
		b.pending = true
	}
	b.hasPath = true
	return true
}

// ResetPath stops the body where it stands.
func (b *Body) ResetPath() {
	b.hasPath = false
	b.pending = false
	b.velocity = geom.Vec3{}
}

// RemainingDistance is the distance left on the current path, zero with no
// path.
func (b *Body) RemainingDistance() float64 {
	if !b.hasPath {
		return 0
	}
	return b.pos.Dist(b.dest)
}

// SamplePosition returns the nearest point inside the world bounds, if it
// lies within maxDistance of p.
func (b *Body) SamplePosition(p geom.Vec3, maxDistance float64) (geom.Vec3, bool) {
	return b.world.SamplePosition(p, maxDistance)
}

// Teleport places the body at p and drops its path.
func (b *Body) Teleport(p geom.Vec3) {
	b.pos = b.world.bounds.Clamp(p)
	b.ResetPath()
}

func (b *Body) step(dt float64) {
	if b.pending {
		b.pending = false
		b.velocity = geom.Vec3{}
		return
	}
	if !b.hasPath || dt <= 0 {
		b.velocity = geom.Vec3{}
		return
	}
	next := b.pos.MoveTowards(b.dest, b.speed*dt)
	b.velocity = next.Sub(b.pos).Scale(1 / dt)
	if dir := next.Sub(b.pos).Flat(); dir.SqrLen() > 0 {
		b.heading = geom.Yaw(dir)
	}
	b.pos = next
	if b.pos == b.dest {
		b.hasPath = false
	}
}
