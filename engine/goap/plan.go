package goap

// Plan is a goal plus the stack of actions chosen to reach it. The next
// action to execute is on top. A plan is consumed by popping and is never
// otherwise modified; an interrupted plan is discarded, not resumed.
type Plan struct {
	goal    *Goal
	actions []*Action // top of stack is the last element
	cost    float64
}

func newPlan(goal *Goal, stack []*Action, cost float64) *Plan {
	return &Plan{goal: goal, actions: append([]*Action(nil), stack...), cost: cost}
}

// Goal returns the goal the plan was built for.
func (p *Plan) Goal() *Goal { return p.goal }

// Cost returns the total cost of the plan as built.
func (p *Plan) Cost() float64 { return p.cost }

// Len returns the number of actions not yet popped.
func (p *Plan) Len() int { return len(p.actions) }

// Peek returns the next action without removing it.
func (p *Plan) Peek() *Action {
	if len(p.actions) == 0 {
		return nil
	}
	return p.actions[len(p.actions)-1]
}

// Pop removes and returns the next action, or nil when empty.
func (p *Plan) Pop() *Action {
	if len(p.actions) == 0 {
		return nil
	}
	a := p.actions[len(p.actions)-1]
	p.actions = p.actions[:len(p.actions)-1]
	return a
}

// Actions returns the remaining actions in execution order.
func (p *Plan) Actions() []*Action {
	out := make([]*Action, 0, len(p.actions))
	for i := len(p.actions) - 1; i >= 0; i-- {
		out = append(out, p.actions[i])
	}
	return out
}

// Names returns the remaining action names in execution order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.actions))
	for _, a := range p.Actions() {
		names = append(names, a.name)
	}
	return names
}
