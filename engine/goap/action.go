package goap

import "fmt"

// Strategy is the per-tick behavior an Action delegates to. Every method is
// required; a strategy with nothing to do in Start, Update or Stop says so
// with an empty method. Strategies are stateful and back exactly one action.
type Strategy interface {
	CanPerform() bool
	Complete() bool
	Start()
	Update(dt float64)
	Stop()
}

// Action is a plannable unit of behavior. It is immutable once built; all
// runtime state lives in its strategy.
type Action struct {
	name          string
	cost          float64
	preconditions []*Belief
	effects       []*Belief
	strategy      Strategy
	maxDuration   float64
}

func (a *Action) Name() string             { return a.name }
func (a *Action) Cost() float64            { return a.cost }
func (a *Action) MaxDuration() float64     { return a.maxDuration }
func (a *Action) Strategy() Strategy       { return a.strategy }
func (a *Action) String() string           { return a.name }
func (a *Action) CanPerform() bool         { return a.strategy.CanPerform() }
func (a *Action) Complete() bool           { return a.strategy.Complete() }
func (a *Action) Start()                   { a.strategy.Start() }
func (a *Action) Update(dt float64)        { a.strategy.Update(dt) }
func (a *Action) Stop()                    { a.strategy.Stop() }
func (a *Action) Preconditions() []*Belief { return append([]*Belief(nil), a.preconditions...) }
func (a *Action) Effects() []*Belief       { return append([]*Belief(nil), a.effects...) }

// PreconditionsMet reports whether every precondition currently holds.
// An action with no preconditions is always eligible.
func (a *Action) PreconditionsMet() bool {
	for _, b := range a.preconditions {
		if !b.Evaluate() {
			return false
		}
	}
	return true
}

func (a *Action) hasEffect(b *Belief) bool {
	for _, e := range a.effects {
		if e == b {
			return true
		}
	}
	return false
}

// ActionBuilder assembles an Action.
type ActionBuilder struct {
	name          string
	cost          float64
	preconditions []*Belief
	effects       []*Belief
	strategy      Strategy
	maxDuration   float64
}

// NewAction starts a builder with the default cost of 1.
func NewAction(name string) *ActionBuilder {
	return &ActionBuilder{name: name, cost: 1}
}

func (ab *ActionBuilder) WithStrategy(s Strategy) *ActionBuilder {
	ab.strategy = s
	return ab
}

func (ab *ActionBuilder) WithCost(cost float64) *ActionBuilder {
	ab.cost = cost
	return ab
}

func (ab *ActionBuilder) AddPrecondition(b *Belief) *ActionBuilder {
	ab.preconditions = appendUnique(ab.preconditions, b)
	return ab
}

func (ab *ActionBuilder) AddEffect(b *Belief) *ActionBuilder {
	ab.effects = appendUnique(ab.effects, b)
	return ab
}

// WithMaxDuration bounds how long the action may run, in seconds, before
// the agent gives up on it. Zero means unbounded.
func (ab *ActionBuilder) WithMaxDuration(seconds float64) *ActionBuilder {
	ab.maxDuration = seconds
	return ab
}

// Build validates and returns the action.
func (ab *ActionBuilder) Build() (*Action, error) {
	if ab.strategy == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoStrategy, ab.name)
	}
	if len(ab.effects) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoEffects, ab.name)
	}
	return &Action{
		name:          ab.name,
		cost:          ab.cost,
		preconditions: append([]*Belief(nil), ab.preconditions...),
		effects:       append([]*Belief(nil), ab.effects...),
		strategy:      ab.strategy,
		maxDuration:   ab.maxDuration,
	}, nil
}

func appendUnique(list []*Belief, b *Belief) []*Belief {
	if b == nil {
		return list
	}
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
