package events

import (
	"testing"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// restScene puts "guard" at the rest area and everyone else nowhere.
type restScene struct{}

func (restScene) Near(subject, location string, _ float64) bool {
	return subject == "guard" && location == "rest_area"
}
func (restScene) HasPath(string) bool               { return false }
func (restScene) SensorInRange(string, string) bool { return false }

func testDefs() *state.Defs {
	near := types.Condition{Type: "near", Params: map[string]any{"location": "rest_area", "range": 3.0}}
	return &state.Defs{
		Agents: []types.AgentDef{
			{ID: "guard", Stats: map[string]int{"stamina": 50}},
			{ID: "cook", Stats: map[string]int{"stamina": 50}},
		},
		Handlers: []types.EventHandler{
			{
				EventType:  "stats_tick",
				Conditions: []types.Condition{near},
				Effects: []types.Effect{
					{Type: "adjust_stat", Params: map[string]any{"stat": "stamina", "amount": 20}},
				},
			},
			{
				EventType:  "stats_tick",
				Conditions: []types.Condition{{Type: "not", Inner: &near}},
				Effects: []types.Effect{
					{Type: "adjust_stat", Params: map[string]any{"stat": "stamina", "amount": -10}},
				},
			},
			{
				EventType: "player_defeated",
				Effects: []types.Effect{
					{Type: "say", Params: map[string]any{"text": "You fall."}},
				},
			},
		},
	}
}

func TestDispatch_MatchesEventType(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	got := Dispatch([]types.Event{{Type: "player_defeated", Data: map[string]any{}}}, s, defs, restScene{})
	if len(got) != 1 {
		t.Fatalf("expected 1 reaction, got %d", len(got))
	}
	if got[0].Effects[0].Type != "say" || got[0].Event != "player_defeated" {
		t.Errorf("unexpected reaction %+v", got[0])
	}
}

func TestDispatch_SkipsNonMatchingEventType(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	got := Dispatch([]types.Event{{Type: "flag_changed"}}, s, defs, restScene{})
	if len(got) != 0 {
		t.Errorf("expected no reactions, got %v", got)
	}
}

func TestDispatch_ConditionsUseEventSubject(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)

	tests := []struct {
		agent  string
		amount int
	}{
		{"guard", 20},
		{"cook", -10},
	}
	for _, tt := range tests {
		t.Run(tt.agent, func(t *testing.T) {
			got := Dispatch([]types.Event{{Type: "stats_tick", Data: map[string]any{"agent": tt.agent}}}, s, defs, restScene{})
			if len(got) != 1 {
				t.Fatalf("expected exactly one branch to fire, got %d", len(got))
			}
			if got[0].Subject != tt.agent {
				t.Errorf("subject: got %q", got[0].Subject)
			}
			if amt := got[0].Effects[0].Params["amount"]; amt != tt.amount {
				t.Errorf("amount: got %v, want %d", amt, tt.amount)
			}
		})
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	defs := &state.Defs{}
	s := state.NewState(defs)
	if got := Dispatch([]types.Event{{Type: "stats_tick"}}, s, defs, nil); len(got) != 0 {
		t.Errorf("expected nothing, got %v", got)
	}
}

func TestDispatch_MultipleEvents(t *testing.T) {
	defs := testDefs()
	s := state.NewState(defs)
	evs := []types.Event{
		{Type: "stats_tick", Data: map[string]any{"agent": "guard"}},
		{Type: "stats_tick", Data: map[string]any{"agent": "cook"}},
		{Type: "player_defeated", Data: map[string]any{}},
	}
	if got := Dispatch(evs, s, defs, restScene{}); len(got) != 3 {
		t.Errorf("expected 3 reactions, got %d", len(got))
	}
}
