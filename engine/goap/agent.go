package goap

import (
	"fmt"
	"log/slog"
	"time"
)

// EventKind names something that happened during an agent tick.
type EventKind string

const (
	EventGoalSelected    EventKind = "goal_selected"
	EventActionStarted   EventKind = "action_started"
	EventActionRejected  EventKind = "action_rejected"
	EventActionCompleted EventKind = "action_completed"
	EventActionTimedOut  EventKind = "action_timed_out"
	EventPlanCompleted   EventKind = "plan_completed"
	EventPlanAbandoned   EventKind = "plan_abandoned"
)

// Event reports one step of the agent loop.
type Event struct {
	Kind   EventKind
	Goal   string
	Action string
	Reason string
}

// PlanReport describes one planning attempt.
type PlanReport struct {
	AgentID string
	Goal    string
	Found   bool
	Steps   int
	Cost    float64
	Elapsed time.Duration
}

// PathResetter clears the agent's navigation path. The agent calls it
// whenever it takes a fresh action off its plan.
type PathResetter interface {
	ResetPath()
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the agent's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPlanner replaces the default planner.
func WithPlanner(p *Planner) Option {
	return func(a *Agent) {
		if p != nil {
			a.planner = p
		}
	}
}

// WithNavigator sets the path to reset before each popped action starts.
func WithNavigator(n PathResetter) Option {
	return func(a *Agent) { a.nav = n }
}

// WithPlanHook registers a function called after every planning attempt.
func WithPlanHook(fn func(PlanReport)) Option {
	return func(a *Agent) { a.planHook = fn }
}

// Agent owns its beliefs, actions, goals and planner, and runs the
// plan/execute loop one tick at a time. It is not safe for concurrent use.
type Agent struct {
	id       string
	beliefs  *Beliefs
	actions  []*Action
	goals    []*Goal
	planner  *Planner
	nav      PathResetter
	logger   *slog.Logger
	planHook func(PlanReport)
	life     *lifecycle

	plan        *Plan
	currentGoal *Goal
	lastGoal    *Goal
	current     *Action
	elapsed     float64 // seconds the current action has been running

	invalidated bool
	reason      string
}

// NewAgent creates an agent. Every belief an action or goal refers to must
// be registered in beliefs, and action names must be unique.
func NewAgent(id string, beliefs *Beliefs, actions []*Action, goals []*Goal, opts ...Option) (*Agent, error) {
	names := map[string]bool{}
	for _, act := range actions {
		if names[act.name] {
			return nil, fmt.Errorf("agent %s: %w: %q", id, ErrDuplicateAction, act.name)
		}
		names[act.name] = true
		for _, b := range act.preconditions {
			if !beliefs.contains(b) {
				return nil, fmt.Errorf("agent %s: action %q precondition: %w: %q", id, act.name, ErrUnknownBelief, b.name)
			}
		}
		for _, b := range act.effects {
			if !beliefs.contains(b) {
				return nil, fmt.Errorf("agent %s: action %q effect: %w: %q", id, act.name, ErrUnknownBelief, b.name)
			}
		}
	}
	for _, g := range goals {
		if !beliefs.contains(g.desired) {
			return nil, fmt.Errorf("agent %s: goal %q: %w: %q", id, g.name, ErrUnknownBelief, g.desired.name)
		}
	}

	life, err := newLifecycle()
	if err != nil {
		return nil, fmt.Errorf("agent %s: building phase machine: %w", id, err)
	}

	a := &Agent{
		id:      id,
		beliefs: beliefs,
		actions: append([]*Action(nil), actions...),
		goals:   append([]*Goal(nil), goals...),
		planner: NewPlanner(),
		logger:  slog.Default(),
		life:    life,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("agent", id)
	return a, nil
}

func (a *Agent) ID() string             { return a.id }
func (a *Agent) Beliefs() *Beliefs      { return a.beliefs }
func (a *Agent) Phase() Phase           { return a.life.phase() }
func (a *Agent) Transitions() int       { return a.life.ctx.transitions }
func (a *Agent) CurrentGoal() *Goal     { return a.currentGoal }
func (a *Agent) LastGoal() *Goal        { return a.lastGoal }
func (a *Agent) CurrentAction() *Action { return a.current }

// RestoreLastGoal sets the last completed goal by name. An empty or unknown
// name clears it.
func (a *Agent) RestoreLastGoal(name string) {
	a.lastGoal = nil
	for _, g := range a.goals {
		if g.name == name {
			a.lastGoal = g
			return
		}
	}
}

// Goals returns the agent's goals in declaration order.
func (a *Agent) Goals() []*Goal { return append([]*Goal(nil), a.goals...) }

// Actions returns the agent's actions in declaration order.
func (a *Agent) Actions() []*Action { return append([]*Action(nil), a.actions...) }

// RemainingPlan returns the names of the actions still queued after the
// current one.
func (a *Agent) RemainingPlan() []string {
	if a.plan == nil {
		return nil
	}
	return a.plan.Names()
}

// Invalidate asks the agent to drop its current action, goal and plan. It
// takes effect at the start of the next tick, where the current action is
// stopped before being discarded.
func (a *Agent) Invalidate(reason string) {
	a.invalidated = true
	a.reason = reason
}

// Abandon stops and discards the current action, goal and plan immediately.
func (a *Agent) Abandon(reason string) []Event {
	a.invalidated = false
	return a.abandon(EventPlanAbandoned, reason)
}

// PlanNow runs the planner against the agent's full goal set without
// touching the agent's state.
func (a *Agent) PlanNow() *Plan {
	return a.planner.Plan(a.actions, a.goals, a.lastGoal)
}

// Tick advances the agent by dt seconds and reports what happened.
func (a *Agent) Tick(dt float64) []Event {
	var events []Event

	// 1. Honor a pending invalidation.
	if a.invalidated {
		a.invalidated = false
		events = append(events, a.abandon(EventPlanAbandoned, a.reason)...)
	}

	// 2. With nothing running, plan and start the next action.
	if a.current == nil {
		a.life.send(evPlan)
		a.calculatePlan()

		if a.plan != nil && a.plan.Len() > 0 {
			a.life.send(evPlanned)
			if a.nav != nil {
				a.nav.ResetPath()
			}
			if a.currentGoal != a.plan.goal {
				a.currentGoal = a.plan.goal
				a.logger.Info("goap: goal selected", "goal", a.currentGoal.name, "plan", a.plan.Names())
				events = append(events, Event{Kind: EventGoalSelected, Goal: a.currentGoal.name})
			}
			a.current = a.plan.Pop()
			a.elapsed = 0

			if a.current.PreconditionsMet() {
				a.current.Start()
				a.life.send(evStarted)
				a.logger.Debug("goap: action started", "action", a.current.name)
				events = append(events, Event{Kind: EventActionStarted, Goal: a.currentGoal.name, Action: a.current.name})
			} else {
				a.logger.Warn("goap: preconditions not met, abandoning goal",
					"action", a.current.name, "goal", a.currentGoal.name)
				events = append(events, Event{
					Kind: EventActionRejected, Goal: a.currentGoal.name, Action: a.current.name,
					Reason: "preconditions not met",
				})
				a.current = nil
				a.currentGoal = nil
				a.plan = nil
				a.life.send(evRejected)
			}
		} else {
			a.life.send(evNoPlan)
		}
	}

	// 3. Tick the running action.
	if a.current != nil {
		a.current.Update(dt)
		a.elapsed += dt

		switch {
		case a.current.Complete():
			a.current.Stop()
			events = append(events, Event{Kind: EventActionCompleted, Goal: a.currentGoal.name, Action: a.current.name})
			a.logger.Debug("goap: action complete", "action", a.current.name)
			a.current = nil
			a.life.send(evFinished)

			if a.plan == nil || a.plan.Len() == 0 {
				a.logger.Info("goap: plan complete", "goal", a.currentGoal.name)
				events = append(events, Event{Kind: EventPlanCompleted, Goal: a.currentGoal.name})
				a.lastGoal = a.currentGoal
				a.currentGoal = nil
				a.plan = nil
			}

		case a.current.maxDuration > 0 && a.elapsed >= a.current.maxDuration:
			a.logger.Warn("goap: action timed out", "action", a.current.name, "after", a.elapsed)
			events = append(events, Event{
				Kind: EventActionTimedOut, Goal: a.currentGoal.name, Action: a.current.name,
				Reason: fmt.Sprintf("exceeded %.1fs", a.current.maxDuration),
			})
			events = append(events, a.abandon(EventPlanAbandoned, "action timed out")...)
		}
	}

	return events
}

// calculatePlan replaces the active plan when the planner finds one. While
// a goal is active only strictly more urgent goals are considered.
func (a *Agent) calculatePlan() {
	goals := a.goals
	if a.currentGoal != nil {
		goals = make([]*Goal, 0, len(a.goals))
		for _, g := range a.goals {
			if g.priority > a.currentGoal.priority {
				goals = append(goals, g)
			}
		}
	}

	start := time.Now()
	plan := a.planner.Plan(a.actions, goals, a.lastGoal)
	report := PlanReport{AgentID: a.id, Found: plan != nil, Elapsed: time.Since(start)}
	if plan != nil {
		report.Goal = plan.goal.name
		report.Steps = plan.Len()
		report.Cost = plan.cost
		a.plan = plan
	}
	if a.planHook != nil {
		a.planHook(report)
	}
}

// abandon stops the current action and clears action, goal and plan.
func (a *Agent) abandon(kind EventKind, reason string) []Event {
	if a.current == nil && a.currentGoal == nil && a.plan == nil {
		return nil
	}
	ev := Event{Kind: kind, Reason: reason}
	if a.currentGoal != nil {
		ev.Goal = a.currentGoal.name
	}
	if a.current != nil {
		ev.Action = a.current.name
		a.current.Stop()
	}
	a.logger.Info("goap: clearing current action and goal", "reason", reason, "goal", ev.Goal, "action", ev.Action)
	a.current = nil
	a.currentGoal = nil
	a.plan = nil
	a.elapsed = 0
	a.life.send(evCancel)
	return []Event{ev}
}
