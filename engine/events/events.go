// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"github.com/nathoo/goapcore/engine/rules"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// Reaction is the effect list of one matching handler, along with the
// agent the triggering event was about.
type Reaction struct {
	Subject string
	Event   string
	Effects []types.Effect
}

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. When an event names an agent, handler conditions are
// evaluated from that agent's point of view.
func Dispatch(events []types.Event, s *types.State, defs *state.Defs, scene rules.Scene) []Reaction {
	var result []Reaction

	for _, event := range events {
		subject, _ := event.Data["agent"].(string)
		env := rules.Env{State: s, Defs: defs, Scene: scene, Subject: subject}
		for _, handler := range defs.Handlers {
			if handler.EventType != event.Type {
				continue
			}
			if !rules.EvalAllConditions(handler.Conditions, env) {
				continue
			}
			result = append(result, Reaction{Subject: subject, Event: event.Type, Effects: handler.Effects})
		}
	}

	return result
}
