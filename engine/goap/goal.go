package goap

import "fmt"

// Goal is a prioritized desired belief. Higher priority is more urgent.
type Goal struct {
	name     string
	priority int
	desired  *Belief
}

func (g *Goal) Name() string           { return g.name }
func (g *Goal) Priority() int          { return g.priority }
func (g *Goal) DesiredEffect() *Belief { return g.desired }
func (g *Goal) String() string         { return g.name }

// Satisfied reports whether the desired belief already holds.
func (g *Goal) Satisfied() bool { return g.desired.Evaluate() }

// GoalBuilder assembles a Goal.
type GoalBuilder struct {
	name     string
	priority int
	desired  *Belief
}

func NewGoal(name string) *GoalBuilder {
	return &GoalBuilder{name: name}
}

func (gb *GoalBuilder) WithPriority(p int) *GoalBuilder {
	gb.priority = p
	return gb
}

func (gb *GoalBuilder) WithDesiredEffect(b *Belief) *GoalBuilder {
	gb.desired = b
	return gb
}

func (gb *GoalBuilder) Build() (*Goal, error) {
	if gb.desired == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoDesiredEffect, gb.name)
	}
	return &Goal{name: gb.name, priority: gb.priority, desired: gb.desired}, nil
}
