package effects

import (
	"testing"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

type fakePlacer struct {
	placed []string
}

func (p *fakePlacer) PlacePlayer(loc string) bool {
	if loc == "nowhere" {
		return false
	}
	p.placed = append(p.placed, loc)
	return true
}

func testSetup() (*types.State, *state.Defs, Context) {
	defs := &state.Defs{
		Player: types.PlayerDef{Stats: map[string]int{"health": 20}},
		Agents: []types.AgentDef{
			{ID: "guard", Name: "Old Guard", Stats: map[string]int{"health": 100, "stamina": 50}},
		},
	}
	s := state.NewState(defs)
	return s, defs, Context{Subject: "guard", Placer: &fakePlacer{}}
}

func TestApply_Say(t *testing.T) {
	s, defs, ctx := testSetup()
	_, out := Apply(s, defs, []types.Effect{
		{Type: "say", Params: map[string]any{"text": "Hello."}},
	}, ctx)
	if len(out) != 1 || out[0] != "Hello." {
		t.Errorf("got %v", out)
	}
}

func TestApply_Say_Interpolation(t *testing.T) {
	s, defs, ctx := testSetup()
	s.Tick = 12
	_, out := Apply(s, defs, []types.Effect{
		{Type: "say", Params: map[string]any{
			"text": "{agent.name} ({agent}) stamina {agent.stamina}, player health {player.health} at tick {tick}",
		}},
	}, ctx)
	want := "Old Guard (guard) stamina 50, player health 20 at tick 12"
	if len(out) != 1 || out[0] != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestApply_SetFlag(t *testing.T) {
	s, defs, ctx := testSetup()
	events, _ := Apply(s, defs, []types.Effect{
		{Type: "set_flag", Params: map[string]any{"flag": "alarm", "value": true}},
	}, ctx)
	if !s.Flags["alarm"] {
		t.Error("flag should be set")
	}
	if len(events) != 1 || events[0].Type != "flag_changed" {
		t.Errorf("expected flag_changed, got %v", events)
	}
}

func TestApply_AdjustStat(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		who    string
		want   int
	}{
		{"subject by default", map[string]any{"stat": "stamina", "amount": 20}, "guard", 70},
		{"lua numbers", map[string]any{"stat": "stamina", "amount": float64(-10)}, "guard", 40},
		{"clamped", map[string]any{"stat": "stamina", "amount": 500}, "guard", 100},
		{"explicit target", map[string]any{"stat": "health", "amount": 5, "target": "player"}, "player", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, defs, ctx := testSetup()
			Apply(s, defs, []types.Effect{{Type: "adjust_stat", Params: tt.params}}, ctx)
			stat, _ := tt.params["stat"].(string)
			if got, _ := state.GetStat(s, tt.who, stat); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApply_SetStat(t *testing.T) {
	s, defs, ctx := testSetup()
	Apply(s, defs, []types.Effect{
		{Type: "set_stat", Params: map[string]any{"stat": "health", "value": -4}},
	}, ctx)
	if got, _ := state.GetStat(s, "guard", "health"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestApply_DamagePlayer(t *testing.T) {
	s, defs, ctx := testSetup()
	events, _ := Apply(s, defs, []types.Effect{
		{Type: "damage_player", Params: map[string]any{"amount": 8}},
	}, ctx)
	if got, _ := state.GetStat(s, state.PlayerID, "health"); got != 12 {
		t.Errorf("health: got %d, want 12", got)
	}
	if len(events) != 1 || events[0].Type != "player_hit" {
		t.Fatalf("expected player_hit, got %v", events)
	}
	if events[0].Data["agent"] != "guard" {
		t.Errorf("hit should name the attacker, got %v", events[0].Data)
	}
}

func TestApply_DamagePlayer_Defeat(t *testing.T) {
	s, defs, ctx := testSetup()
	events, _ := Apply(s, defs, []types.Effect{
		{Type: "damage_player", Params: map[string]any{"amount": 50}},
		{Type: "damage_player", Params: map[string]any{"amount": 50}},
	}, ctx)
	if !s.Flags["game_over"] {
		t.Error("game_over should be set")
	}
	var kinds []string
	for _, e := range events {
		kinds = append(kinds, e.Type)
	}
	if len(kinds) != 2 || kinds[1] != "player_defeated" {
		t.Errorf("expected one hit then defeat, got %v", kinds)
	}
}

func TestApply_MovePlayer(t *testing.T) {
	s, defs, ctx := testSetup()
	placer := ctx.Placer.(*fakePlacer)
	events, _ := Apply(s, defs, []types.Effect{
		{Type: "move_player", Params: map[string]any{"location": "door_one"}},
		{Type: "move_player", Params: map[string]any{"location": "nowhere"}},
	}, ctx)
	if len(placer.placed) != 1 || placer.placed[0] != "door_one" {
		t.Errorf("placed: %v", placer.placed)
	}
	if len(events) != 1 || events[0].Type != "player_moved" {
		t.Errorf("expected one player_moved, got %v", events)
	}
}

func TestApply_EmitEvent(t *testing.T) {
	s, defs, ctx := testSetup()
	events, _ := Apply(s, defs, []types.Effect{
		{Type: "emit_event", Params: map[string]any{"event": "alarm_raised"}},
	}, ctx)
	if len(events) != 1 || events[0].Type != "alarm_raised" || events[0].Data["agent"] != "guard" {
		t.Errorf("got %v", events)
	}
}

func TestApply_Stop(t *testing.T) {
	s, defs, ctx := testSetup()
	_, out := Apply(s, defs, []types.Effect{
		{Type: "say", Params: map[string]any{"text": "before"}},
		{Type: "stop"},
		{Type: "say", Params: map[string]any{"text": "after"}},
	}, ctx)
	if len(out) != 1 || out[0] != "before" {
		t.Errorf("expected only output before stop, got %v", out)
	}
}

func TestApply_UnknownEffect_NoError(t *testing.T) {
	s, defs, ctx := testSetup()
	events, out := Apply(s, defs, []types.Effect{{Type: "summon_dragon"}}, ctx)
	if len(events) != 0 || len(out) != 0 {
		t.Errorf("unknown effect should be ignored, got %v %v", events, out)
	}
}
