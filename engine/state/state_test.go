package state

import (
	"testing"

	"github.com/nathoo/goapcore/types"
)

func testDefs() *Defs {
	return &Defs{
		Scenario: types.ScenarioDef{Title: "Test", Seed: 7},
		Player:   types.PlayerDef{Stats: map[string]int{"health": 100, "defense": 1}},
		Locations: map[string]types.LocationDef{
			"food_shack": {ID: "food_shack", Name: "Food Shack", Position: types.Vec{X: 10, Z: 5}},
		},
		Agents: []types.AgentDef{
			{ID: "guard", Stats: map[string]int{"health": 100, "stamina": 250}},
			{ID: "cook", Stats: map[string]int{"health": 40}},
		},
	}
}

func TestNewState(t *testing.T) {
	s := NewState(testDefs())

	if s.RNGSeed != 7 {
		t.Errorf("seed: got %d, want 7", s.RNGSeed)
	}
	if v, _ := GetStat(s, PlayerID, "health"); v != 100 {
		t.Errorf("player health: got %d", v)
	}
	if v, _ := GetStat(s, "guard", "stamina"); v != MaxStat {
		t.Errorf("initial stats should be clamped, got %d", v)
	}
	if len(s.Agents) != 2 {
		t.Errorf("expected 2 agents, got %d", len(s.Agents))
	}
}

func TestNewState_DoesNotShareDefMaps(t *testing.T) {
	defs := testDefs()
	s := NewState(defs)
	SetStat(s, "guard", "health", 10)
	if defs.Agents[0].Stats["health"] != 100 {
		t.Error("state write leaked into definitions")
	}
}

func TestGetStat_Unknown(t *testing.T) {
	s := NewState(testDefs())
	if _, ok := GetStat(s, "nobody", "health"); ok {
		t.Error("unknown agent should not have stats")
	}
	if _, ok := GetStat(s, "guard", "mana"); ok {
		t.Error("unset stat should report missing")
	}
}

func TestAdjustStat_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"increase", 40, 20, 60},
		{"clamp high", 90, 20, 100},
		{"decrease", 40, -5, 35},
		{"clamp low", 3, -10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(testDefs())
			SetStat(s, "cook", "stamina", tt.start)
			if got := AdjustStat(s, "cook", "stamina", tt.delta); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetStat_UnknownAgentIgnored(t *testing.T) {
	s := NewState(testDefs())
	SetStat(s, "ghost", "health", 50)
	if _, ok := s.Agents["ghost"]; ok {
		t.Error("unknown agent should not be created")
	}
}

func TestGetFlag(t *testing.T) {
	s := NewState(testDefs())
	if GetFlag(s, "game_over") {
		t.Error("unset flag should be false")
	}
	s.Flags["game_over"] = true
	if !GetFlag(s, "game_over") {
		t.Error("expected flag set")
	}
}

func TestLookups(t *testing.T) {
	defs := testDefs()
	if _, ok := AgentDef(defs, "cook"); !ok {
		t.Error("cook should be found")
	}
	if _, ok := AgentDef(defs, "baker"); ok {
		t.Error("baker should not be found")
	}
	if l, ok := Location(defs, "food_shack"); !ok || l.Position.X != 10 {
		t.Errorf("food_shack lookup: %+v %v", l, ok)
	}
}
