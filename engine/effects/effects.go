// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"strings"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// Placer moves the player in the world. Positions are not part of
// types.State, so move_player goes through it.
type Placer interface {
	PlacePlayer(location string) bool
}

// Context carries who an effect list runs on behalf of.
type Context struct {
	Subject string // agent id the triggering event was about, if any
	Placer  Placer
}

// Apply applies a list of effects to the state, mutating it.
// Returns events emitted and output text collected.
func Apply(s *types.State, defs *state.Defs, effects []types.Effect, ctx Context) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effects {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, interpolate(text, s, defs, ctx))

		case "set_flag":
			flag, _ := eff.Params["flag"].(string)
			value, _ := eff.Params["value"].(bool)
			s.Flags[flag] = value
			events = append(events, types.Event{
				Type: "flag_changed",
				Data: map[string]any{"flag": flag, "value": value},
			})

		case "adjust_stat":
			target := targetOf(eff, ctx)
			stat, _ := eff.Params["stat"].(string)
			state.AdjustStat(s, target, stat, toInt(eff.Params["amount"]))

		case "set_stat":
			target := targetOf(eff, ctx)
			stat, _ := eff.Params["stat"].(string)
			state.SetStat(s, target, stat, toInt(eff.Params["value"]))

		case "damage_player":
			amount := toInt(eff.Params["amount"])
			events = append(events, DamagePlayer(s, ctx.Subject, amount)...)

		case "move_player":
			loc, _ := eff.Params["location"].(string)
			if ctx.Placer == nil || !ctx.Placer.PlacePlayer(loc) {
				continue
			}
			events = append(events, types.Event{
				Type: "player_moved",
				Data: map[string]any{"location": loc},
			})

		case "emit_event":
			event, _ := eff.Params["event"].(string)
			data := map[string]any{}
			if ctx.Subject != "" {
				data["agent"] = ctx.Subject
			}
			events = append(events, types.Event{Type: event, Data: data})

		case "stop":
			return events, output

		default:
			// Unknown effect type: ignore silently.
		}
	}

	return events, output
}

// DamagePlayer lowers the player's health and reports the hit. The first
// time health reaches zero the game_over flag is set and player_defeated
// is emitted.
func DamagePlayer(s *types.State, attacker string, amount int) []types.Event {
	if s.Flags["game_over"] {
		return nil
	}
	remaining := state.AdjustStat(s, state.PlayerID, "health", -amount)
	events := []types.Event{{
		Type: "player_hit",
		Data: map[string]any{"agent": attacker, "amount": amount, "remaining": remaining},
	}}
	if remaining <= 0 {
		s.Flags["game_over"] = true
		events = append(events, types.Event{
			Type: "player_defeated",
			Data: map[string]any{"agent": attacker},
		})
	}
	return events
}

// interpolate replaces template variables in text.
func interpolate(text string, s *types.State, defs *state.Defs, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	name := ctx.Subject
	if def, ok := state.AgentDef(defs, ctx.Subject); ok && def.Name != "" {
		name = def.Name
	}
	r := strings.NewReplacer(
		"{agent}", ctx.Subject,
		"{agent.name}", name,
		"{tick}", fmt.Sprintf("%d", s.Tick),
	)
	text = r.Replace(text)

	// {agent.<stat>} and {player.<stat>}
	text = replaceStats(text, "{agent.", ctx.Subject, s)
	text = replaceStats(text, "{player.", state.PlayerID, s)
	return text
}

func replaceStats(text, prefix, subject string, s *types.State) string {
	for {
		i := strings.Index(text, prefix)
		if i < 0 || subject == "" {
			return text
		}
		j := strings.Index(text[i:], "}")
		if j < 0 {
			return text
		}
		stat := text[i+len(prefix) : i+j]
		v, _ := state.GetStat(s, subject, stat)
		text = text[:i] + fmt.Sprintf("%d", v) + text[i+j+1:]
	}
}

// targetOf returns the effect's explicit target, else the context subject.
func targetOf(eff types.Effect, ctx Context) string {
	if t, ok := eff.Params["target"].(string); ok && t != "" {
		return t
	}
	return ctx.Subject
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
