// Package save implements JSON serialization and deserialization of a
// running simulation.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nathoo/goapcore/engine"
	"github.com/nathoo/goapcore/engine/geom"
	"github.com/nathoo/goapcore/types"
)

// BodyData is where a body stood and which way it faced.
type BodyData struct {
	Position geom.Vec3 `json:"position"`
	Heading  float64   `json:"heading"`
}

// BrainData is the per-agent planning state that outlives a plan.
type BrainData struct {
	LastGoal       string  `json:"last_goal,omitempty"`
	StatsRemaining float64 `json:"stats_remaining,omitempty"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	ID          string                      `json:"id"`
	Version     string                      `json:"version"`
	Scenario    string                      `json:"scenario"`
	Tick        int                         `json:"tick"`
	Time        float64                     `json:"time"`
	Player      types.Player                `json:"player"`
	Agents      map[string]types.AgentState `json:"agents"`
	Bodies      map[string]BodyData         `json:"bodies"`
	Brains      map[string]BrainData        `json:"brains,omitempty"`
	Flags       map[string]bool             `json:"flags"`
	RNGSeed     int64                       `json:"rng_seed"`
	RNGPosition int64                       `json:"rng_position"`
	CommandLog  []string                    `json:"command_log"`
}

// Save serializes the engine's state and body positions to JSON bytes.
// In-flight plans are not saved; they are rebuilt after loading.
func Save(e *engine.Engine) ([]byte, error) {
	s := e.State
	data := SaveData{
		ID:          uuid.NewString(),
		Version:     e.Defs.Scenario.Version,
		Scenario:    e.Defs.Scenario.Title,
		Tick:        s.Tick,
		Time:        s.Time,
		Player:      s.Player,
		Agents:      s.Agents,
		Bodies:      map[string]BodyData{},
		Brains:      map[string]BrainData{},
		Flags:       s.Flags,
		RNGSeed:     s.RNGSeed,
		RNGPosition: e.RNG.Position(),
		CommandLog:  s.CommandLog,
	}
	for _, b := range e.World.Bodies() {
		data.Bodies[b.ID()] = BodyData{Position: b.Position(), Heading: b.Heading()}
	}
	for _, rt := range e.Agents() {
		bd := BrainData{StatsRemaining: rt.StatsRemaining()}
		if g := rt.Brain.LastGoal(); g != nil {
			bd.LastGoal = g.Name()
		}
		data.Brains[rt.Def.ID] = bd
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.Agents == nil {
		sd.Agents = map[string]types.AgentState{}
	}
	if sd.Bodies == nil {
		sd.Bodies = map[string]BodyData{}
	}
	if sd.Player.Stats == nil {
		sd.Player.Stats = map[string]int{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto an engine built from the same
// scenario. Every agent drops its plan and sensors are resampled silently,
// so agents replan from the restored world on the next tick.
func ApplySave(e *engine.Engine, sd *SaveData) error {
	if sd.Scenario != e.Defs.Scenario.Title {
		return fmt.Errorf("save: scenario %q does not match %q", sd.Scenario, e.Defs.Scenario.Title)
	}
	for id := range sd.Bodies {
		if _, ok := e.World.Body(id); !ok {
			return fmt.Errorf("save: unknown body %q", id)
		}
	}

	e.AbandonAll("save loaded")
	// A save without brain data restarts every stats cycle and forgets the
	// last goal.
	for _, rt := range e.Agents() {
		bd := sd.Brains[rt.Def.ID]
		rt.Brain.RestoreLastGoal(bd.LastGoal)
		rt.RestoreStats(bd.StatsRemaining)
	}

	s := e.State
	s.Player = sd.Player
	for id, as := range sd.Agents {
		if _, ok := e.Agent(id); ok {
			s.Agents[id] = as
		}
	}
	s.Flags = sd.Flags
	s.Tick = sd.Tick
	s.Time = sd.Time
	s.RNGSeed = sd.RNGSeed
	s.RNGPosition = sd.RNGPosition
	s.CommandLog = sd.CommandLog
	e.RestoreRNG(sd.RNGSeed, sd.RNGPosition)

	for id, bd := range sd.Bodies {
		b, _ := e.World.Body(id)
		b.Teleport(bd.Position)
		b.SetHeading(bd.Heading)
	}
	e.World.SetTime(sd.Time)
	e.World.Resample()
	return nil
}

// DefaultSlot is the slot used when no name is given.
const DefaultSlot = "quicksave"

// SlotPath returns the file a named slot lives in.
func SlotPath(dir, name string) string {
	if name == "" {
		name = DefaultSlot
	}
	return filepath.Join(dir, name+".json")
}

// WriteSlot saves the engine into the named slot under dir.
func WriteSlot(e *engine.Engine, dir, name string) error {
	data, err := Save(e)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(SlotPath(dir, name), data, 0o644)
}

// ReadSlot loads the named slot under dir and applies it to the engine.
func ReadSlot(e *engine.Engine, dir, name string) (*SaveData, error) {
	data, err := os.ReadFile(SlotPath(dir, name))
	if err != nil {
		return nil, err
	}
	sd, err := Load(data)
	if err != nil {
		return nil, err
	}
	if err := ApplySave(e, sd); err != nil {
		return nil, err
	}
	return sd, nil
}
