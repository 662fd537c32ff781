// Package engine provides the Step() orchestrator that wires the world,
// the GOAP agents, combat and event handlers into a single tick.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/goapcore/engine/effects"
	"github.com/nathoo/goapcore/engine/events"
	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/engine/goap"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/engine/timer"
	"github.com/nathoo/goapcore/engine/world"
	"github.com/nathoo/goapcore/types"
)

// Defaults applied when the scenario or options leave a value unset.
const (
	DefaultTickSeconds = 0.1
	DefaultSpeed       = 3.5
	DefaultAttackReach = 2.0
	defaultWorldExtent = 50.0
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Options configures an Engine.
type Options struct {
	Logger *slog.Logger

	// TickSeconds is the simulated time one tick advances.
	TickSeconds float64

	// MaxDepth bounds plan length. Zero uses goap.DefaultMaxDepth.
	MaxDepth int

	// MaxActionSeconds is the watchdog applied to actions that do not set
	// their own. Zero disables it.
	MaxActionSeconds float64

	// MaxTicks caps a single tick or run command. Zero means no cap.
	MaxTicks int

	// MeterProvider receives the engine metrics. Nil uses the global one.
	MeterProvider metric.MeterProvider
}

// AgentRuntime is one live agent: its definition, its body in the world
// and its GOAP brain.
type AgentRuntime struct {
	Def     types.AgentDef
	Body    *world.Body
	Brain   *goap.Agent
	Sensors []*world.Sensor

	sensors  map[string]*world.Sensor
	stats    *timer.Countdown
	statsDue bool
}

// StatsRemaining returns the seconds until the next stats tick, zero when
// the agent has no stats cycle.
func (rt *AgentRuntime) StatsRemaining() float64 {
	if rt.stats == nil {
		return 0
	}
	return rt.stats.Remaining()
}

// RestoreStats restarts the stats cycle with remaining seconds left. A value
// outside (0, interval] restarts the full interval.
func (rt *AgentRuntime) RestoreStats(remaining float64) {
	if rt.stats == nil {
		return
	}
	rt.statsDue = false
	rt.stats.Start()
	if remaining > 0 && remaining <= rt.stats.Duration() {
		rt.stats.SetRemaining(remaining)
	}
}

// Sensor returns the agent's sensor with the given name.
func (rt *AgentRuntime) Sensor(name string) (*world.Sensor, bool) {
	s, ok := rt.sensors[name]
	return s, ok
}

// Engine holds the scenario definitions, the world and the mutable state.
type Engine struct {
	Defs    *state.Defs
	State   *types.State
	RNG     *RNG
	World   *world.World
	Metrics *Metrics

	agents  []*AgentRuntime
	byID    map[string]*AgentRuntime
	logger  *slog.Logger
	opts    Options
	pending []types.Event // raised by strategy callbacks during a step
}

// New creates an engine from definitions, building every agent.
func New(defs *state.Defs, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TickSeconds <= 0 {
		opts.TickSeconds = DefaultTickSeconds
	}
	met, err := NewMetrics(opts.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("engine: metrics: %w", err)
	}

	s := state.NewState(defs)
	e := &Engine{
		Defs:    defs,
		State:   s,
		RNG:     NewRNG(s.RNGSeed),
		World:   world.New(worldBounds(defs.Scenario)),
		Metrics: met,
		byID:    map[string]*AgentRuntime{},
		logger:  opts.Logger,
		opts:    opts,
	}

	speed := defs.Player.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if _, err := e.World.AddBody(world.PlayerID, vec(defs.Player.Position), speed, nil); err != nil {
		return nil, fmt.Errorf("engine: player: %w", err)
	}

	for _, def := range defs.Agents {
		rt, err := e.buildAgent(def)
		if err != nil {
			return nil, fmt.Errorf("engine: agent %s: %w", def.ID, err)
		}
		e.agents = append(e.agents, rt)
		e.byID[def.ID] = rt
	}
	return e, nil
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Agents returns the live agents in declaration order.
func (e *Engine) Agents() []*AgentRuntime { return e.agents }

// Agent returns the live agent with the given id.
func (e *Engine) Agent(id string) (*AgentRuntime, bool) {
	rt, ok := e.byID[id]
	return rt, ok
}

// TickSeconds is the simulated time one tick advances.
func (e *Engine) TickSeconds() float64 { return e.opts.TickSeconds }

// Step advances the simulation by dt seconds and returns what happened.
func (e *Engine) Step(dt float64) types.Result {
	var result types.Result
	ctx := context.Background()

	// 0. Game over: the world stands still.
	if state.GetFlag(e.State, "game_over") {
		result.Output = append(result.Output, "Game over. Use /load to restore a save or /quit to exit.")
		return result
	}

	// 1. Move bodies and update sensors. Subscribed agents are invalidated
	// here and react on their own tick below.
	for _, ch := range e.World.Step(dt) {
		result.Events = append(result.Events, types.Event{
			Type: "target_changed",
			Data: map[string]any{"agent": ch.Owner, "sensor": ch.Sensor, "in_range": ch.InRange},
		})
	}

	// 2. Stats timers.
	for _, rt := range e.agents {
		if rt.stats == nil {
			continue
		}
		rt.stats.Tick(dt)
		if rt.statsDue {
			rt.statsDue = false
			rt.stats.Start()
			result.Events = append(result.Events, types.Event{
				Type: "stats_tick",
				Data: map[string]any{"agent": rt.Def.ID},
			})
		}
	}

	// 3. Animator locomotion parameters.
	for _, rt := range e.agents {
		v := rt.Body.Velocity()
		anim := rt.Body.Animator()
		anim.SetBool("IsMoving", v.SqrLen() >= 0.04)
		anim.SetFloat("Speed", v.Len())
	}

	// 4. Agent brains.
	for _, rt := range e.agents {
		for _, ev := range rt.Brain.Tick(dt) {
			e.Metrics.RecordAgentEvent(ctx, rt.Def.ID, ev)
			result.Events = append(result.Events, agentEvent(rt.Def.ID, ev))
		}
	}
	result.Events = append(result.Events, e.pending...)
	e.pending = nil

	// 5. Combat: resolve attack triggers fired this tick.
	attackEvents, attackOut := e.resolveAttacks(ctx)
	result.Events = append(result.Events, attackEvents...)
	result.Output = append(result.Output, attackOut...)

	// 6. Dispatch events (single pass) and apply handler effects.
	scene := e.scene()
	for _, r := range events.Dispatch(result.Events, e.State, e.Defs, scene) {
		evts, out := effects.Apply(e.State, e.Defs, r.Effects, effects.Context{Subject: r.Subject, Placer: scene})
		result.Effects = append(result.Effects, r.Effects...)
		result.Events = append(result.Events, evts...)
		result.Output = append(result.Output, out...)
	}

	result.Output = append(result.Output, e.narrate(result.Events)...)

	// 7. Bookkeeping.
	e.State.Tick++
	e.State.Time = e.World.Time()
	e.State.RNGPosition = e.RNG.Position()

	return result
}

// Tick advances the simulation by n fixed ticks and merges the results.
func (e *Engine) Tick(n int) types.Result {
	var result types.Result
	for i := 0; i < n; i++ {
		r := e.Step(e.opts.TickSeconds)
		result.Effects = append(result.Effects, r.Effects...)
		result.Events = append(result.Events, r.Events...)
		result.Output = append(result.Output, r.Output...)
		if state.GetFlag(e.State, "game_over") {
			break
		}
	}
	return result
}

// Run advances the simulation by at least the given number of seconds.
func (e *Engine) Run(seconds float64) types.Result {
	return e.Tick(int(math.Ceil(seconds / e.opts.TickSeconds)))
}

// AbandonAll drops every agent's plan and stops its body. Used when a save
// is loaded.
func (e *Engine) AbandonAll(reason string) {
	for _, rt := range e.agents {
		for _, ev := range rt.Brain.Abandon(reason) {
			e.Metrics.RecordAgentEvent(context.Background(), rt.Def.ID, ev)
		}
		rt.Body.ResetPath()
	}
}

func agentEvent(agentID string, ev goap.Event) types.Event {
	data := map[string]any{"agent": agentID}
	if ev.Goal != "" {
		data["goal"] = ev.Goal
	}
	if ev.Action != "" {
		data["action"] = ev.Action
	}
	if ev.Reason != "" {
		data["reason"] = ev.Reason
	}
	return types.Event{Type: string(ev.Kind), Data: data}
}

// raise queues an event produced outside the agent loop, by a strategy
// callback for instance. It is reported with the current step.
func (e *Engine) raise(eventType, agentID string) {
	e.pending = append(e.pending, types.Event{
		Type: eventType,
		Data: map[string]any{"agent": agentID},
	})
}

// narrate turns notable events into console lines.
func (e *Engine) narrate(evts []types.Event) []string {
	var out []string
	for _, ev := range evts {
		id, _ := ev.Data["agent"].(string)
		who := e.agentName(id)
		switch ev.Type {
		case string(goap.EventGoalSelected):
			out = append(out, fmt.Sprintf("%s now wants to %s.", who, ev.Data["goal"]))
		case string(goap.EventActionStarted):
			out = append(out, fmt.Sprintf("%s: %s", who, ev.Data["action"]))
		case string(goap.EventActionTimedOut):
			out = append(out, fmt.Sprintf("%s gave up on %s (%s).", who, ev.Data["action"], ev.Data["reason"]))
		case string(goap.EventPlanAbandoned):
			out = append(out, fmt.Sprintf("%s drops what it was doing (%s).", who, ev.Data["reason"]))
		case "target_changed":
			if in, _ := ev.Data["in_range"].(bool); in {
				out = append(out, fmt.Sprintf("%s notices you.", who))
			} else {
				out = append(out, fmt.Sprintf("%s loses sight of you.", who))
			}
		case "player_defeated":
			out = append(out, "You have been defeated.")
		}
	}
	return out
}

// agentName returns the display name of an agent.
func (e *Engine) agentName(id string) string {
	if def, ok := state.AgentDef(e.Defs, id); ok && def.Name != "" {
		return def.Name
	}
	return id
}

func worldBounds(sc types.ScenarioDef) world.Bounds {
	if sc.Min == sc.Max {
		return world.Bounds{
			Min: geom.V(-defaultWorldExtent, 0, -defaultWorldExtent),
			Max: geom.V(defaultWorldExtent, 0, defaultWorldExtent),
		}
	}
	return world.Bounds{Min: vec(sc.Min), Max: vec(sc.Max)}
}

func vec(v types.Vec) geom.Vec3 { return geom.V(v.X, v.Y, v.Z) }
