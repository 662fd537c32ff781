package rules

import (
	"testing"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// fakeScene answers from fixed tables keyed by subject.
type fakeScene struct {
	near    map[string]string // subject -> location it stands at
	moving  map[string]bool
	sensors map[string]string // subject -> sensor currently in range
}

func (f fakeScene) Near(subject, location string, _ float64) bool {
	return f.near[subject] == location
}
func (f fakeScene) HasPath(subject string) bool { return f.moving[subject] }
func (f fakeScene) SensorInRange(subject, sensor string) bool {
	return f.sensors[subject] == sensor
}

func condTestEnv() Env {
	defs := &state.Defs{
		Player: types.PlayerDef{Stats: map[string]int{"health": 80}},
		Agents: []types.AgentDef{
			{ID: "guard", Stats: map[string]int{"health": 25, "stamina": 60}},
		},
	}
	s := state.NewState(defs)
	s.Flags["alarm"] = true
	return Env{
		State: s,
		Defs:  defs,
		Scene: fakeScene{
			near:    map[string]string{"guard": "food_shack", "player": "door_one"},
			moving:  map[string]bool{"guard": true},
			sensors: map[string]string{"guard": "chase"},
		},
		Subject: "guard",
	}
}

func cond(typ string, params map[string]any) types.Condition {
	return types.Condition{Type: typ, Params: params}
}

func TestEvalCondition(t *testing.T) {
	env := condTestEnv()

	tests := []struct {
		name string
		cond types.Condition
		want bool
	}{
		{"always", cond("always", nil), true},
		{"flag_set: set", cond("flag_set", map[string]any{"flag": "alarm"}), true},
		{"flag_set: unset", cond("flag_set", map[string]any{"flag": "game_over"}), false},
		{"flag_not: unset", cond("flag_not", map[string]any{"flag": "game_over"}), true},
		{"stat_lt: below", cond("stat_lt", map[string]any{"stat": "health", "value": 30}), true},
		{"stat_lt: equal is not below", cond("stat_lt", map[string]any{"stat": "health", "value": 25}), false},
		{"stat_gte: equal", cond("stat_gte", map[string]any{"stat": "stamina", "value": float64(60)}), true},
		{"stat_gte: missing stat", cond("stat_gte", map[string]any{"stat": "mana", "value": 0}), false},
		{"stat_gte: explicit target", cond("stat_gte", map[string]any{"stat": "health", "value": 50, "target": "player"}), true},
		{"near: at location", cond("near", map[string]any{"location": "food_shack", "range": 3.0}), true},
		{"near: elsewhere", cond("near", map[string]any{"location": "door_one", "range": 3.0}), false},
		{"near: player", cond("near", map[string]any{"location": "door_one", "range": 3.0, "target": "player"}), true},
		{"has_path", cond("has_path", nil), true},
		{"has_path: player idle", cond("has_path", map[string]any{"target": "player"}), false},
		{"sensor: in range", cond("sensor", map[string]any{"sensor": "chase"}), true},
		{"sensor: other sensor", cond("sensor", map[string]any{"sensor": "attack"}), false},
		{"unknown type", cond("teleported", nil), false},
		{
			name: "not: inverts",
			cond: types.Condition{Type: "not", Inner: &types.Condition{Type: "has_path"}},
			want: false,
		},
		{"not: empty is true", types.Condition{Type: "not"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvalCondition(tt.cond, env); got != tt.want {
				t.Errorf("EvalCondition(%s) = %v, want %v", tt.cond.Type, got, tt.want)
			}
		})
	}
}

func TestEvalCondition_NoScene(t *testing.T) {
	env := condTestEnv()
	env.Scene = nil
	for _, typ := range []string{"near", "has_path", "sensor"} {
		if EvalCondition(cond(typ, nil), env) {
			t.Errorf("%s without a scene should be false", typ)
		}
	}
}

func TestEvalAllConditions_AllPass(t *testing.T) {
	env := condTestEnv()
	conds := []types.Condition{
		cond("flag_set", map[string]any{"flag": "alarm"}),
		cond("has_path", nil),
	}
	if !EvalAllConditions(conds, env) {
		t.Error("expected all conditions to pass")
	}
}

func TestEvalAllConditions_OneFails(t *testing.T) {
	env := condTestEnv()
	conds := []types.Condition{
		cond("flag_set", map[string]any{"flag": "alarm"}),
		cond("flag_set", map[string]any{"flag": "game_over"}),
	}
	if EvalAllConditions(conds, env) {
		t.Error("expected failure when one condition fails")
	}
}

func TestEvalAllConditions_Empty(t *testing.T) {
	if !EvalAllConditions(nil, condTestEnv()) {
		t.Error("empty condition list should be vacuously true")
	}
}
