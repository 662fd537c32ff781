package engine

import (
	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/engine/world"
)

// scene answers spatial condition queries against the live world and
// moves the player for move_player effects.
type scene struct{ e *Engine }

func (e *Engine) scene() scene { return scene{e} }

// Near reports whether subject is strictly closer than within to a
// location. A body id is accepted in place of a location.
func (sc scene) Near(subject, location string, within float64) bool {
	body, ok := sc.e.World.Body(subject)
	if !ok {
		return false
	}
	point, ok := sc.e.point(location)
	if !ok {
		return false
	}
	return body.Position().Dist(point) < within
}

func (sc scene) HasPath(subject string) bool {
	body, ok := sc.e.World.Body(subject)
	return ok && body.HasPath()
}

func (sc scene) SensorInRange(subject, sensor string) bool {
	rt, ok := sc.e.byID[subject]
	if !ok {
		return false
	}
	s, ok := rt.sensors[sensor]
	return ok && s.IsTargetInRange()
}

// PlacePlayer teleports the player onto a location.
func (sc scene) PlacePlayer(location string) bool {
	loc, ok := state.Location(sc.e.Defs, location)
	if !ok {
		return false
	}
	sc.e.World.Player().Teleport(vec(loc.Position))
	return true
}

// point returns the position of a location or a body.
func (e *Engine) point(name string) (geom.Vec3, bool) {
	if loc, ok := state.Location(e.Defs, name); ok {
		return vec(loc.Position), true
	}
	if body, ok := e.World.Body(name); ok {
		return body.Position(), true
	}
	return geom.Vec3{}, false
}

// player returns the player's body.
func (e *Engine) player() *world.Body { return e.World.Player() }
