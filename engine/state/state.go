// Package state manages the mutable simulation state and the lookups
// over the immutable scenario definitions.
package state

import "github.com/nathoo/goapcore/types"

// PlayerID names the player wherever a subject is expected.
const PlayerID = "player"

// Stat bounds. Every stat write is clamped into [MinStat, MaxStat].
const (
	MinStat = 0
	MaxStat = 100
)

// Defs holds the immutable scenario definitions loaded from Lua.
type Defs struct {
	Scenario  types.ScenarioDef
	Player    types.PlayerDef
	Locations map[string]types.LocationDef
	Agents    []types.AgentDef // declaration order
	Handlers  []types.EventHandler
}

// NewState creates a fresh state from definitions.
func NewState(defs *Defs) *types.State {
	s := &types.State{
		Player:     types.Player{Stats: copyStats(defs.Player.Stats)},
		Agents:     map[string]types.AgentState{},
		Flags:      map[string]bool{},
		RNGSeed:    defs.Scenario.Seed,
		CommandLog: []string{},
	}
	for _, a := range defs.Agents {
		s.Agents[a.ID] = types.AgentState{Stats: copyStats(a.Stats)}
	}
	return s
}

func copyStats(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = clamp(v)
	}
	return out
}

// GetFlag returns the value of a flag. Unset flags return false.
func GetFlag(s *types.State, name string) bool {
	return s.Flags[name]
}

func statsOf(s *types.State, subject string) map[string]int {
	if subject == PlayerID {
		if s.Player.Stats == nil {
			s.Player.Stats = map[string]int{}
		}
		return s.Player.Stats
	}
	as, ok := s.Agents[subject]
	if !ok {
		return nil
	}
	if as.Stats == nil {
		as.Stats = map[string]int{}
		s.Agents[subject] = as
	}
	return as.Stats
}

// GetStat returns a stat for the player or an agent.
func GetStat(s *types.State, subject, stat string) (int, bool) {
	stats := statsOf(s, subject)
	if stats == nil {
		return 0, false
	}
	v, ok := stats[stat]
	return v, ok
}

// SetStat writes a clamped stat value. Unknown agents are ignored.
func SetStat(s *types.State, subject, stat string, value int) int {
	stats := statsOf(s, subject)
	if stats == nil {
		return 0
	}
	stats[stat] = clamp(value)
	return stats[stat]
}

// AdjustStat adds delta to a stat and returns the clamped result.
func AdjustStat(s *types.State, subject, stat string, delta int) int {
	v, _ := GetStat(s, subject, stat)
	return SetStat(s, subject, stat, v+delta)
}

func clamp(v int) int {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}

// AgentDef returns the definition of the named agent.
func AgentDef(defs *Defs, id string) (types.AgentDef, bool) {
	for _, a := range defs.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return types.AgentDef{}, false
}

// Location returns the named location.
func Location(defs *Defs, id string) (types.LocationDef, bool) {
	l, ok := defs.Locations[id]
	return l, ok
}
