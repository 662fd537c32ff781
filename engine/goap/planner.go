package goap

import (
	"log/slog"
	"sort"
)

// DefaultMaxDepth bounds plan length when no option overrides it.
const DefaultMaxDepth = 8

// lastGoalPenalty is subtracted from the last completed goal's priority so
// that it loses ties against equal-priority goals but never drops below a
// lower-priority one.
const lastGoalPenalty = 0.01

// Planner searches backward from a goal's desired belief to the current
// state. It only reads beliefs; it never mutates the agent or the world.
type Planner struct {
	maxDepth int
	logger   *slog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithMaxDepth bounds the number of actions in a plan.
func WithMaxDepth(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithPlannerLogger sets the logger used for planning decisions.
func WithPlannerLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlanner creates a planner.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{maxDepth: DefaultMaxDepth, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// snapshot memoizes belief truth for the duration of one Plan call, so
// every branch of the search sees the same world.
type snapshot map[*Belief]bool

func (s snapshot) holds(b *Belief) bool {
	v, ok := s[b]
	if !ok {
		v = b.Evaluate()
		s[b] = v
	}
	return v
}

// Plan returns the plan for the most urgent achievable goal, or nil.
//
// Goals whose desired belief already holds are skipped. The rest are tried
// in priority order, highest first; lastGoal loses ties against goals of
// equal priority; remaining ties go to declaration order. For the first goal
// that has any plan, the cheapest plan is returned, ties again going to
// action declaration order.
func (p *Planner) Plan(actions []*Action, goals []*Goal, lastGoal *Goal) *Plan {
	snap := snapshot{}

	// 1. Rank candidate goals.
	candidates := rankGoals(goals, lastGoal, snap)
	if len(candidates) == 0 {
		return nil
	}

	// 2. Search each goal in turn; the first with a plan wins. Actions are
	// tried in declaration order so that equal-cost plans resolve to it.
	for _, g := range candidates {
		stack, cost, ok := p.search(g, actions, snap)
		if !ok {
			p.logger.Debug("goap: no plan for goal", "goal", g.name)
			continue
		}
		plan := newPlan(g, stack, cost)
		p.logger.Debug("goap: plan found", "goal", g.name, "actions", plan.Names(), "cost", cost)
		return plan
	}
	return nil
}

func rankGoals(goals []*Goal, lastGoal *Goal, snap snapshot) []*Goal {
	type ranked struct {
		goal     *Goal
		priority float64
	}
	var list []ranked
	for _, g := range goals {
		if snap.holds(g.desired) {
			continue
		}
		pr := float64(g.priority)
		if g == lastGoal {
			pr -= lastGoalPenalty
		}
		list = append(list, ranked{goal: g, priority: pr})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].priority > list[j].priority
	})
	out := make([]*Goal, len(list))
	for i, r := range list {
		out[i] = r.goal
	}
	return out
}

// search runs a depth-first regression from the goal's desired belief.
// The returned stack has the first action to execute on top.
func (p *Planner) search(goal *Goal, actions []*Action, snap snapshot) ([]*Action, float64, bool) {
	var (
		best     []*Action
		bestCost float64
		found    bool
		path     []*Action
		used     = make([]bool, len(actions))
	)

	var walk func(required []*Belief, cost float64)
	walk = func(required []*Belief, cost float64) {
		if len(required) == 0 {
			if !found || cost < bestCost {
				best = append(best[:0], path...)
				bestCost = cost
				found = true
			}
			return
		}
		if found && cost >= bestCost {
			return
		}
		if len(path) >= p.maxDepth {
			return
		}
		for i, a := range actions {
			if used[i] || !achievesAny(a, required) {
				continue
			}
			used[i] = true
			path = append(path, a)
			walk(regress(required, a, snap), cost+a.cost)
			path = path[:len(path)-1]
			used[i] = false
		}
	}

	walk(unmet([]*Belief{goal.desired}, snap), 0)
	return best, bestCost, found
}

func achievesAny(a *Action, required []*Belief) bool {
	for _, b := range required {
		if a.hasEffect(b) {
			return true
		}
	}
	return false
}

// regress computes the beliefs still needed before a runs:
// (required minus a's effects) plus a's preconditions, less whatever
// already holds.
func regress(required []*Belief, a *Action, snap snapshot) []*Belief {
	next := make([]*Belief, 0, len(required)+len(a.preconditions))
	for _, b := range required {
		if !a.hasEffect(b) {
			next = appendUnique(next, b)
		}
	}
	for _, b := range a.preconditions {
		next = appendUnique(next, b)
	}
	return unmet(next, snap)
}

func unmet(beliefs []*Belief, snap snapshot) []*Belief {
	out := beliefs[:0:0]
	for _, b := range beliefs {
		if !snap.holds(b) {
			out = append(out, b)
		}
	}
	return out
}
