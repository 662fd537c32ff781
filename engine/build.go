package engine

import (
	"context"
	"fmt"

	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/engine/goap"
	"github.com/nathoo/goapcore/engine/rules"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/engine/strategy"
	"github.com/nathoo/goapcore/engine/timer"
	"github.com/nathoo/goapcore/engine/world"
	"github.com/nathoo/goapcore/types"
)

// Strategy parameter defaults.
const (
	defaultIdleSeconds  = 5.0
	defaultWanderRadius = 10.0
)

// buildAgent creates the body, sensors, beliefs, actions and goals of one
// agent and wires non-passive sensors to invalidate its plan.
func (e *Engine) buildAgent(def types.AgentDef) (*AgentRuntime, error) {
	speed := def.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	body, err := e.World.AddBody(def.ID, vec(def.Position), speed, def.Clips)
	if err != nil {
		return nil, err
	}

	rt := &AgentRuntime{Def: def, Body: body, sensors: map[string]*world.Sensor{}}
	for _, sd := range def.Sensors {
		s := e.World.AddSensor(sd.Name, body, sd.Radius)
		rt.Sensors = append(rt.Sensors, s)
		rt.sensors[sd.Name] = s
	}

	logger := e.logger.With("agent", def.ID)
	beliefs := goap.NewBeliefs()
	factory := goap.NewBeliefFactory(body, beliefs, logger)
	for _, bd := range def.Beliefs {
		if err := e.addBelief(rt, factory, bd); err != nil {
			return nil, fmt.Errorf("belief %q: %w", bd.Name, err)
		}
	}

	actions := make([]*goap.Action, 0, len(def.Actions))
	for _, ad := range def.Actions {
		a, err := e.buildAction(rt, beliefs, ad)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", ad.Name, err)
		}
		actions = append(actions, a)
	}

	goals := make([]*goap.Goal, 0, len(def.Goals))
	for _, gd := range def.Goals {
		desired, err := beliefs.Lookup(gd.Desired)
		if err != nil {
			return nil, fmt.Errorf("goal %q: %w", gd.Name, err)
		}
		g, err := goap.NewGoal(gd.Name).WithPriority(gd.Priority).WithDesiredEffect(desired).Build()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}

	planner := goap.NewPlanner(goap.WithMaxDepth(e.opts.MaxDepth), goap.WithPlannerLogger(logger))
	brain, err := goap.NewAgent(def.ID, beliefs, actions, goals,
		goap.WithLogger(e.logger),
		goap.WithPlanner(planner),
		goap.WithNavigator(body),
		goap.WithPlanHook(func(r goap.PlanReport) { e.Metrics.RecordPlan(context.Background(), r) }),
	)
	if err != nil {
		return nil, err
	}
	rt.Brain = brain

	for i, sd := range def.Sensors {
		if sd.Passive {
			continue
		}
		reason := "target changed: " + sd.Name
		rt.Sensors[i].Subscribe(func() { brain.Invalidate(reason) })
	}

	if def.StatsInterval > 0 {
		rt.stats = timer.NewCountdown(def.StatsInterval)
		rt.stats.OnTimerStop = func() { rt.statsDue = true }
		rt.stats.Start()
	}
	return rt, nil
}

func (e *Engine) addBelief(rt *AgentRuntime, f *goap.BeliefFactory, bd types.BeliefDef) error {
	switch bd.Kind {
	case types.BeliefLocation:
		loc, ok := state.Location(e.Defs, bd.Location)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLocation, bd.Location)
		}
		return f.AddLocationBelief(bd.Name, bd.Range, vec(loc.Position))

	case types.BeliefSensor:
		sensors := make([]goap.Sensor, 0, len(bd.Sensors))
		for _, name := range bd.Sensors {
			s, ok := rt.sensors[name]
			if !ok {
				return fmt.Errorf("unknown sensor %q", name)
			}
			sensors = append(sensors, s)
		}
		if bd.Negate {
			if len(sensors) != 1 {
				return fmt.Errorf("false sensor belief needs exactly one sensor, got %d", len(sensors))
			}
			return f.AddSensorFalseBelief(bd.Name, sensors[0])
		}
		return f.AddSensorBelief(bd.Name, sensors...)

	default:
		conds := bd.Conditions
		subject := rt.Def.ID
		eval := func() bool {
			return rules.EvalAllConditions(conds, rules.Env{
				State: e.State, Defs: e.Defs, Scene: e.scene(), Subject: subject,
			})
		}
		if bd.Negate {
			return f.AddFalseBelief(bd.Name, eval)
		}
		return f.AddBelief(bd.Name, eval)
	}
}

func (e *Engine) buildAction(rt *AgentRuntime, beliefs *goap.Beliefs, ad types.ActionDef) (*goap.Action, error) {
	strat, err := e.buildStrategy(rt, beliefs, ad.Strategy)
	if err != nil {
		return nil, err
	}
	ab := goap.NewAction(ad.Name).WithStrategy(strat)
	if ad.HasCost || ad.Cost > 0 {
		ab.WithCost(ad.Cost)
	}
	for _, name := range ad.Preconditions {
		b, err := beliefs.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("precondition: %w", err)
		}
		ab.AddPrecondition(b)
	}
	for _, name := range ad.Effects {
		b, err := beliefs.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("effect: %w", err)
		}
		ab.AddEffect(b)
	}
	maxDur := ad.MaxDuration
	if maxDur <= 0 {
		maxDur = e.opts.MaxActionSeconds
	}
	return ab.WithMaxDuration(maxDur).Build()
}

// buildStrategy maps a strategy definition onto the strategy package.
func (e *Engine) buildStrategy(rt *AgentRuntime, beliefs *goap.Beliefs, sd types.StrategyDef) (goap.Strategy, error) {
	p := sd.Params
	switch sd.Type {
	case "idle":
		return strategy.NewIdle(floatParam(p, "duration", defaultIdleSeconds)), nil

	case "wander":
		return strategy.NewWander(rt.Body, engineRand{e}, floatParam(p, "radius", defaultWanderRadius)), nil

	case "move":
		dest, err := e.destination(beliefs, p)
		if err != nil {
			return nil, err
		}
		return strategy.NewMove(rt.Body, dest, e.callback(rt, p)), nil

	case "attack":
		return strategy.NewAttack(rt.Body.Animator()), nil

	case "dance":
		return strategy.NewDance(rt.Body.Animator()), nil

	case "emote":
		trigger := stringParam(p, "trigger")
		if trigger == "" {
			return nil, fmt.Errorf("emote needs a trigger")
		}
		clip := stringParam(p, "clip")
		if clip == "" {
			clip = trigger + "Clip"
		}
		return strategy.NewEmote(rt.Body.Animator(), trigger, clip), nil

	case "wait_until_false":
		b, err := beliefs.Lookup(stringParam(p, "belief"))
		if err != nil {
			return nil, err
		}
		return strategy.NewWaitUntilFalse(b), nil

	case "look_at":
		dest, err := e.destination(beliefs, p)
		if err != nil {
			return nil, err
		}
		return strategy.NewLookAt(rt.Body, dest, floatParam(p, "speed", 0), e.callback(rt, p)), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, sd.Type)
	}
}

// destination resolves a "to" (location or body id) or "belief" parameter
// into a point that is read each time the strategy starts.
func (e *Engine) destination(beliefs *goap.Beliefs, p map[string]any) (func() geom.Vec3, error) {
	if name := stringParam(p, "belief"); name != "" {
		b, err := beliefs.Lookup(name)
		if err != nil {
			return nil, err
		}
		return b.Location, nil
	}
	to := stringParam(p, "to")
	if loc, ok := state.Location(e.Defs, to); ok {
		point := vec(loc.Position)
		return func() geom.Vec3 { return point }, nil
	}
	if body, ok := e.World.Body(to); ok {
		return body.Position, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, to)
}

// callback returns a function raising the "emit" event for the agent, or
// nil when none is configured.
func (e *Engine) callback(rt *AgentRuntime, p map[string]any) func() {
	name := stringParam(p, "emit")
	if name == "" {
		return nil
	}
	id := rt.Def.ID
	return func() { e.raise(name, id) }
}

// engineRand reads through the engine so a restored RNG is picked up.
type engineRand struct{ e *Engine }

func (r engineRand) Float64() float64 { return r.e.RNG.Float64() }

func stringParam(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

func floatParam(p map[string]any, key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}
