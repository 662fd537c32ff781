package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":           true,
	"set_flag":      true,
	"adjust_stat":   true,
	"set_stat":      true,
	"damage_player": true,
	"move_player":   true,
	"emit_event":    true,
	"stop":          true,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"always":   true,
	"flag_set": true,
	"flag_not": true,
	"stat_lt":  true,
	"stat_gte": true,
	"near":     true,
	"has_path": true,
	"sensor":   true,
	"not":      true,
}

// Known strategy types.
var validStrategyTypes = map[string]bool{
	"idle":             true,
	"wander":           true,
	"move":             true,
	"attack":           true,
	"dance":            true,
	"emote":            true,
	"wait_until_false": true,
	"look_at":          true,
}

// Validate checks compiled defs for referential integrity and consistency.
// The returned ValidationError is never nil; callers check its Errors.
func Validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Scenario.Title == "" {
		ve.errorf("Scenario.title is required")
	}
	if len(defs.Agents) == 0 {
		ve.warnf("scenario declares no agents")
	}

	for id, loc := range defs.Locations {
		if !inBounds(defs.Scenario, loc.Position) {
			ve.warnf("location %q lies outside the world bounds", id)
		}
	}

	seen := map[string]bool{}
	for _, agent := range defs.Agents {
		if agent.ID == state.PlayerID {
			ve.errorf("agent id %q is reserved", agent.ID)
		}
		if seen[agent.ID] {
			ve.errorf("duplicate agent %q", agent.ID)
		}
		seen[agent.ID] = true
		validateAgent(agent, defs, ve)
	}

	for i, h := range defs.Handlers {
		where := fmt.Sprintf("handler #%d (%s)", i+1, h.EventType)
		validateConditions(h.Conditions, defs, nil, where, ve)
		validateEffects(h.Effects, defs, where, ve)
	}

	return ve
}

func validateAgent(agent types.AgentDef, defs *state.Defs, ve *ValidationError) {
	sensors := map[string]bool{}
	for _, s := range agent.Sensors {
		if s.Name == "" {
			ve.errorf("agent %q has a sensor without a name", agent.ID)
		}
		if sensors[s.Name] {
			ve.errorf("agent %q: duplicate sensor %q", agent.ID, s.Name)
		}
		if s.Radius <= 0 {
			ve.errorf("agent %q: sensor %q needs a positive radius", agent.ID, s.Name)
		}
		sensors[s.Name] = true
	}

	beliefs := map[string]bool{}
	for _, b := range agent.Beliefs {
		where := fmt.Sprintf("agent %q belief %q", agent.ID, b.Name)
		if b.Name == "" {
			ve.errorf("agent %q has a belief without a name", agent.ID)
		}
		if beliefs[b.Name] {
			ve.errorf("agent %q: duplicate belief %q", agent.ID, b.Name)
		}
		beliefs[b.Name] = true

		switch b.Kind {
		case types.BeliefLocation:
			if !isPlace(defs, b.Location) {
				ve.errorf("%s: unknown location %q", where, b.Location)
			}
		case types.BeliefSensor:
			if len(b.Sensors) == 0 {
				ve.errorf("%s: names no sensor", where)
			}
			if b.Negate && len(b.Sensors) != 1 {
				ve.errorf("%s: a negated sensor belief takes exactly one sensor", where)
			}
			for _, name := range b.Sensors {
				if !sensors[name] {
					ve.errorf("%s: unknown sensor %q", where, name)
				}
			}
		case types.BeliefCondition:
			validateConditions(b.Conditions, defs, sensors, where, ve)
		}
	}

	actions := map[string]bool{}
	achievable := map[string]bool{}
	for _, a := range agent.Actions {
		where := fmt.Sprintf("agent %q action %q", agent.ID, a.Name)
		if a.Name == "" {
			ve.errorf("agent %q has an action without a name", agent.ID)
		}
		if actions[a.Name] {
			ve.errorf("agent %q: duplicate action %q", agent.ID, a.Name)
		}
		actions[a.Name] = true

		if len(a.Effects) == 0 {
			ve.errorf("%s has no effects", where)
		}
		for _, name := range a.Preconditions {
			if !beliefs[name] {
				ve.errorf("%s: precondition references unknown belief %q", where, name)
			}
		}
		for _, name := range a.Effects {
			if !beliefs[name] {
				ve.errorf("%s: effect references unknown belief %q", where, name)
			}
			achievable[name] = true
		}
		if a.Cost < 0 {
			ve.errorf("%s: cost must not be negative", where)
		}
		validateStrategy(a.Strategy, defs, beliefs, where, ve)
	}

	goals := map[string]bool{}
	for _, g := range agent.Goals {
		where := fmt.Sprintf("agent %q goal %q", agent.ID, g.Name)
		if goals[g.Name] {
			ve.errorf("agent %q: duplicate goal %q", agent.ID, g.Name)
		}
		goals[g.Name] = true
		if !beliefs[g.Desired] {
			ve.errorf("%s: desired belief %q not found", where, g.Desired)
			continue
		}
		if !achievable[g.Desired] {
			ve.warnf("%s can never be satisfied: no action has effect %q", where, g.Desired)
		}
	}
	if len(agent.Goals) == 0 {
		ve.warnf("agent %q has no goals and will stay idle", agent.ID)
	}
}

func validateStrategy(st types.StrategyDef, defs *state.Defs, beliefs map[string]bool, where string, ve *ValidationError) {
	if st.Type == "" {
		ve.errorf("%s has no strategy", where)
		return
	}
	if !validStrategyTypes[st.Type] {
		ve.errorf("%s: unknown strategy type %q", where, st.Type)
		return
	}
	switch st.Type {
	case "move", "look_at":
		to, _ := st.Params["to"].(string)
		belief, _ := st.Params["belief"].(string)
		switch {
		case belief != "":
			if !beliefs[belief] {
				ve.errorf("%s: strategy references unknown belief %q", where, belief)
			}
		case to != "":
			if !isPlace(defs, to) {
				ve.errorf("%s: strategy references unknown location %q", where, to)
			}
		default:
			ve.errorf("%s: %s strategy needs a destination", where, st.Type)
		}
	case "wait_until_false":
		belief, _ := st.Params["belief"].(string)
		if !beliefs[belief] {
			ve.errorf("%s: strategy references unknown belief %q", where, belief)
		}
	case "emote":
		if trigger, _ := st.Params["trigger"].(string); trigger == "" {
			ve.errorf("%s: emote strategy needs a trigger", where)
		}
	}
}

// validateConditions checks condition types and references. sensors is the
// owning agent's sensor set, or nil when the subject is only known at
// dispatch time.
func validateConditions(conds []types.Condition, defs *state.Defs, sensors map[string]bool, where string, ve *ValidationError) {
	for _, c := range conds {
		if c.Type == "not" {
			if c.Inner == nil {
				ve.errorf("%s: Not() without an inner condition", where)
				continue
			}
			validateConditions([]types.Condition{*c.Inner}, defs, sensors, where, ve)
			continue
		}
		if !validConditionTypes[c.Type] {
			ve.errorf("%s: unknown condition type %q", where, c.Type)
			continue
		}
		switch c.Type {
		case "near":
			loc, _ := c.Params["location"].(string)
			if !isPlace(defs, loc) {
				ve.errorf("%s: condition references unknown location %q", where, loc)
			}
		case "sensor":
			name, _ := c.Params["sensor"].(string)
			if sensors != nil && !sensors[name] {
				if t, _ := c.Params["target"].(string); t == "" {
					ve.errorf("%s: condition references unknown sensor %q", where, name)
				}
			}
		}
		if t, ok := c.Params["target"].(string); ok && !isSubject(defs, t) {
			ve.errorf("%s: condition targets unknown subject %q", where, t)
		}
	}
}

func validateEffects(effects []types.Effect, defs *state.Defs, where string, ve *ValidationError) {
	for _, e := range effects {
		if !validEffectTypes[e.Type] {
			ve.errorf("%s: unknown effect type %q", where, e.Type)
			continue
		}
		switch e.Type {
		case "move_player":
			loc, _ := e.Params["location"].(string)
			if _, ok := defs.Locations[loc]; !ok {
				ve.errorf("%s: effect references unknown location %q", where, loc)
			}
		case "emit_event":
			if ev, _ := e.Params["event"].(string); ev == "" {
				ve.errorf("%s: EmitEvent needs an event type", where)
			}
		}
		if t, ok := e.Params["target"].(string); ok && !isSubject(defs, t) {
			ve.errorf("%s: effect targets unknown subject %q", where, t)
		}
	}
}

// isPlace reports whether id names a location, an agent or the player.
func isPlace(defs *state.Defs, id string) bool {
	if _, ok := defs.Locations[id]; ok {
		return true
	}
	return isSubject(defs, id)
}

func isSubject(defs *state.Defs, id string) bool {
	if id == state.PlayerID {
		return true
	}
	_, ok := state.AgentDef(defs, id)
	return ok
}

func inBounds(sc types.ScenarioDef, p types.Vec) bool {
	if sc.Min == sc.Max {
		return true
	}
	return p.X >= sc.Min.X && p.X <= sc.Max.X && p.Z >= sc.Min.Z && p.Z <= sc.Max.Z
}
