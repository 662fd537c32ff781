// Package goap implements goal-oriented action planning: beliefs over the
// world, actions with preconditions and effects, prioritized goals, a
// regressive planner, and the per-tick agent loop that executes plans.
//
// The package knows nothing about the world it runs in. Navigation, sensing
// and animation reach it only through strategies and belief closures.
package goap

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/goapcore/engine/geom"
)

// Observation is a single evaluation of a belief. Spatial beliefs carry the
// location they refer to; HasLocation is false when a spatial belief has
// nothing to point at (a sensor with no target).
type Observation struct {
	Holds       bool
	Spatial     bool
	HasLocation bool
	Location    geom.Vec3
}

// Belief is a named predicate over the agent's world, evaluated afresh on
// every query.
type Belief struct {
	name    string
	observe func() Observation
	logger  *slog.Logger
}

// Name returns the belief's unique name.
func (b *Belief) Name() string { return b.name }

// Observe evaluates the belief once, returning truth and location together.
func (b *Belief) Observe() Observation { return b.observe() }

// Evaluate reports whether the belief currently holds.
func (b *Belief) Evaluate() bool { return b.observe().Holds }

// Location returns the point a spatial belief refers to. Asking a spatial
// belief for its location while it has none is a wiring defect: it is logged
// and the zero point is returned.
func (b *Belief) Location() geom.Vec3 {
	o := b.observe()
	if o.Spatial && !o.HasLocation {
		b.logger.Error("goap: belief has no location", "belief", b.name)
	}
	return o.Location
}

func (b *Belief) String() string { return b.name }

// BeliefBuilder assembles a Belief from a condition and an optional location.
type BeliefBuilder struct {
	name      string
	condition func() bool
	location  func() geom.Vec3
	observe   func() Observation
	logger    *slog.Logger
}

// NewBelief starts a builder for a belief with the given name.
func NewBelief(name string) *BeliefBuilder {
	return &BeliefBuilder{name: name}
}

func (bb *BeliefBuilder) WithCondition(fn func() bool) *BeliefBuilder {
	bb.condition = fn
	return bb
}

func (bb *BeliefBuilder) WithLocation(fn func() geom.Vec3) *BeliefBuilder {
	bb.location = fn
	return bb
}

// WithObserver sets a function that yields truth and location in one pass.
// It replaces any condition or location set on the builder.
func (bb *BeliefBuilder) WithObserver(fn func() Observation) *BeliefBuilder {
	bb.observe = fn
	return bb
}

func (bb *BeliefBuilder) WithLogger(l *slog.Logger) *BeliefBuilder {
	bb.logger = l
	return bb
}

// Build returns the immutable belief. A belief without a condition never holds.
func (bb *BeliefBuilder) Build() *Belief {
	logger := bb.logger
	if logger == nil {
		logger = slog.Default()
	}
	observe := bb.observe
	if observe == nil {
		cond, loc := bb.condition, bb.location
		observe = func() Observation {
			o := Observation{}
			if cond != nil {
				o.Holds = cond()
			}
			if loc != nil {
				o.Spatial = true
				o.HasLocation = true
				o.Location = loc()
			}
			return o
		}
	}
	return &Belief{name: bb.name, observe: observe, logger: logger}
}

// Beliefs is an agent's belief store, keyed by name and kept in
// registration order.
type Beliefs struct {
	byName map[string]*Belief
	order  []*Belief
}

// NewBeliefs creates an empty store.
func NewBeliefs() *Beliefs {
	return &Beliefs{byName: map[string]*Belief{}}
}

// Add registers a belief. Names are unique; a duplicate is an error and the
// existing belief is kept.
func (s *Beliefs) Add(b *Belief) error {
	if _, exists := s.byName[b.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBelief, b.name)
	}
	s.byName[b.name] = b
	s.order = append(s.order, b)
	return nil
}

// Get returns the named belief.
func (s *Beliefs) Get(name string) (*Belief, bool) {
	b, ok := s.byName[name]
	return b, ok
}

// Lookup returns the named belief or ErrUnknownBelief.
func (s *Beliefs) Lookup(name string) (*Belief, error) {
	b, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBelief, name)
	}
	return b, nil
}

// All returns the beliefs in registration order.
func (s *Beliefs) All() []*Belief {
	out := make([]*Belief, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Beliefs) Len() int { return len(s.order) }

func (s *Beliefs) contains(b *Belief) bool {
	return b != nil && s.byName[b.name] == b
}
