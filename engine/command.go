package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/engine/parser"
	"github.com/nathoo/goapcore/engine/resolve"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

var helpText = []string{
	"Commands:",
	"  tick [n]            advance n ticks (default 1)",
	"  run <seconds>       advance simulated time",
	"  player <place|x z>  walk the player somewhere",
	"  teleport <place|x z> put the player somewhere at once",
	"  status              positions, phases and stats",
	"  look                locations and who is where",
	"  beliefs [agent]     what agents believe right now",
	"  goals [agent]       goals by priority, satisfied ones marked",
	"  plan [agent]        what agents are doing and what comes next",
}

// HelpText lists the console commands.
func HelpText() []string {
	return append([]string(nil), helpText...)
}

// Command runs one console command and returns the result.
func (e *Engine) Command(input string) types.Result {
	cmd := parser.Parse(input)
	if cmd.Verb == "" {
		return say("What do you want to do?")
	}
	e.State.CommandLog = append(e.State.CommandLog, input)

	switch cmd.Verb {
	case "tick":
		n := 1
		if len(cmd.Args) > 0 {
			v, err := strconv.Atoi(cmd.Args[0])
			if err != nil || v < 1 {
				return say("Tick how many times?")
			}
			n = v
		}
		return e.tickCapped(n)

	case "run":
		if len(cmd.Args) == 0 {
			return say("Run for how many seconds?")
		}
		secs, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil || secs <= 0 {
			return say("Run for how many seconds?")
		}
		return e.tickCapped(int(math.Ceil(secs / e.opts.TickSeconds)))

	case "player", "teleport":
		if state.GetFlag(e.State, "game_over") {
			return say("Game over. Use /load to restore a save or /quit to exit.")
		}
		if len(cmd.Args) == 0 {
			return say("Where to?")
		}
		p, label, err := e.target(cmd.Args)
		if err != nil {
			return say(err.Error())
		}
		if cmd.Verb == "teleport" {
			e.player().Teleport(p)
			return say(fmt.Sprintf("You appear at %s.", label))
		}
		e.player().SetDestination(p)
		return say(fmt.Sprintf("You head for %s.", label))

	case "status":
		return types.Result{Output: e.status()}

	case "look":
		return types.Result{Output: e.look()}

	case "beliefs", "goals", "plan":
		agents, err := e.selectAgents(cmd.Args)
		if err != nil {
			return say(err.Error())
		}
		var out []string
		for _, rt := range agents {
			switch cmd.Verb {
			case "beliefs":
				out = append(out, e.describeBeliefs(rt)...)
			case "goals":
				out = append(out, e.describeGoals(rt)...)
			default:
				out = append(out, e.describePlan(rt))
			}
		}
		return types.Result{Output: out}

	case "help":
		return types.Result{Output: helpText}

	default:
		return say(fmt.Sprintf("I don't understand %q. Type help for commands.", cmd.Verb))
	}
}

// tickCapped runs n ticks, or Options.MaxTicks when n exceeds it.
func (e *Engine) tickCapped(n int) types.Result {
	if limit := e.opts.MaxTicks; limit > 0 && n > limit {
		r := e.Tick(limit)
		r.Output = append([]string{fmt.Sprintf("(Limited to %d ticks.)", limit)}, r.Output...)
		return r
	}
	return e.Tick(n)
}

func say(line string) types.Result {
	return types.Result{Output: []string{line}}
}

// target parses "x z" coordinates or a location name.
func (e *Engine) target(args []string) (geom.Vec3, string, error) {
	if len(args) == 2 {
		x, errX := strconv.ParseFloat(args[0], 64)
		z, errZ := strconv.ParseFloat(args[1], 64)
		if errX == nil && errZ == nil {
			return geom.V(x, 0, z), formatPos(geom.V(x, 0, z)), nil
		}
	}
	id, err := resolve.Location(e.Defs, strings.Join(args, " "))
	if err != nil {
		return geom.Vec3{}, "", err
	}
	loc := e.Defs.Locations[id]
	name := loc.Name
	if name == "" {
		name = id
	}
	return vec(loc.Position), name, nil
}

func (e *Engine) selectAgents(args []string) ([]*AgentRuntime, error) {
	if len(args) == 0 {
		return e.agents, nil
	}
	id, err := resolve.Agent(e.Defs, strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	return []*AgentRuntime{e.byID[id]}, nil
}

func (e *Engine) status() []string {
	p := e.player()
	out := []string{
		fmt.Sprintf("Tick %d (%.1fs)", e.State.Tick, e.State.Time),
		fmt.Sprintf("You: %s%s", formatPos(p.Position()), formatStats(e.State.Player.Stats)),
	}
	for _, rt := range e.agents {
		line := fmt.Sprintf("%s [%s] at %s", e.agentName(rt.Def.ID), rt.Brain.Phase(), formatPos(rt.Body.Position()))
		if g := rt.Brain.CurrentGoal(); g != nil {
			line += " goal " + g.Name()
		}
		if a := rt.Brain.CurrentAction(); a != nil {
			line += ", doing " + a.Name()
		}
		line += formatStats(e.State.Agents[rt.Def.ID].Stats)
		out = append(out, line)
	}
	return out
}

func (e *Engine) look() []string {
	ids := make([]string, 0, len(e.Defs.Locations))
	for id := range e.Defs.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic order

	pos := e.player().Position()
	var out []string
	for _, id := range ids {
		loc := e.Defs.Locations[id]
		line := fmt.Sprintf("%s %s, %.1fm away", loc.Name, formatPos(vec(loc.Position)), pos.Dist(vec(loc.Position)))
		if loc.Description != "" {
			line += ": " + loc.Description
		}
		out = append(out, line)
	}
	for _, rt := range e.agents {
		out = append(out, fmt.Sprintf("%s is at %s, %.1fm away.",
			e.agentName(rt.Def.ID), formatPos(rt.Body.Position()), pos.Dist(rt.Body.Position())))
	}
	return out
}

func (e *Engine) describeBeliefs(rt *AgentRuntime) []string {
	out := []string{e.agentName(rt.Def.ID) + " believes:"}
	for _, b := range rt.Brain.Beliefs().All() {
		obs := b.Observe()
		line := fmt.Sprintf("  %s: %t", b.Name(), obs.Holds)
		if obs.HasLocation {
			line += " @ " + formatPos(obs.Location)
		}
		out = append(out, line)
	}
	return out
}

func (e *Engine) describeGoals(rt *AgentRuntime) []string {
	goals := rt.Brain.Goals()
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Priority() > goals[j].Priority() })

	out := []string{e.agentName(rt.Def.ID) + " goals:"}
	for _, g := range goals {
		mark := " "
		if g.Satisfied() {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s (priority %d)", mark, g.Name(), g.Priority())
		if g == rt.Brain.CurrentGoal() {
			line += " <- current"
		}
		out = append(out, line)
	}
	return out
}

func (e *Engine) describePlan(rt *AgentRuntime) string {
	name := e.agentName(rt.Def.ID)
	if g := rt.Brain.CurrentGoal(); g != nil {
		line := fmt.Sprintf("%s: goal %s", name, g.Name())
		if a := rt.Brain.CurrentAction(); a != nil {
			line += ", doing " + a.Name()
		}
		if rest := rt.Brain.RemainingPlan(); len(rest) > 0 {
			line += ", then " + strings.Join(rest, " → ")
		}
		return line
	}
	plan := rt.Brain.PlanNow()
	if plan == nil {
		return name + " has nothing to do."
	}
	return fmt.Sprintf("%s is idle; next: %s via %s (cost %g)",
		name, plan.Goal().Name(), strings.Join(plan.Names(), " → "), plan.Cost())
}

func formatPos(p geom.Vec3) string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Z)
}

// formatStats renders stats as " name value" pairs in name order.
func formatStats(stats map[string]int) string {
	if len(stats) == 0 {
		return ""
	}
	names := make([]string, 0, len(stats))
	for k := range stats {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, k := range names {
		fmt.Fprintf(&b, " %s %d", k, stats[k])
	}
	return b.String()
}
