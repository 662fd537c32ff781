// Package types defines the shared data structures for the goapcore engine.
// This package contains only type definitions, no logic and no methods.
package types

// Vec is a point on the ground plane as written in scenario files.
// Y is carried for completeness; the simulation works on X/Z.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Command is the parsed representation of a console command.
type Command struct {
	Verb string
	Args []string
}

// Condition is a predicate over simulation state.
type Condition struct {
	Type   string         // "stat_lt", "near", "sensor", "flag_set", etc.
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for Not(): the negated inner condition
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted by the engine or by effects during a step.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine step or console command.
type Result struct {
	Effects []Effect
	Events  []Event
	Output  []string
}

// ScenarioDef holds scenario metadata from Lua.
type ScenarioDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Seed    int64
	Min     Vec // world bounds
	Max     Vec
}

// PlayerDef is the player's starting setup.
type PlayerDef struct {
	Position Vec
	Speed    float64
	Stats    map[string]int
}

// LocationDef is a named point in the world.
type LocationDef struct {
	ID          string
	Name        string
	Aliases     []string
	Description string
	Position    Vec
}

// SensorDef is a radius sensor carried by an agent.
// Passive sensors feed beliefs but never invalidate the running plan.
type SensorDef struct {
	Name    string
	Radius  float64
	Passive bool
}

// Belief kinds.
const (
	BeliefCondition = "condition"
	BeliefLocation  = "location"
	BeliefSensor    = "sensor"
)

// BeliefDef declares one belief. Condition beliefs hold while all their
// conditions pass; location beliefs while the agent is within Range of
// Location; sensor beliefs while any listed sensor sees the player.
// Negate inverts condition and sensor beliefs.
type BeliefDef struct {
	Name       string
	Kind       string
	Conditions []Condition
	Location   string
	Range      float64
	Sensors    []string
	Negate     bool
}

// StrategyDef selects an action strategy and its parameters.
type StrategyDef struct {
	Type   string         // "idle", "wander", "move", "attack", "emote", "wait_until_false", "look_at"
	Params map[string]any // strategy-specific parameters
}

// ActionDef declares one action.
type ActionDef struct {
	Name          string
	Cost          float64
	HasCost       bool     // cost was given explicitly; otherwise it defaults to 1
	Preconditions []string // belief names
	Effects       []string // belief names
	Strategy      StrategyDef
	MaxDuration   float64 // seconds; zero means no watchdog
	SourceOrder   int
}

// GoalDef declares one goal.
type GoalDef struct {
	Name     string
	Priority int
	Desired  string // belief name
}

// AgentDef is the full definition of one agent.
type AgentDef struct {
	ID            string
	Name          string
	Position      Vec
	Speed         float64
	Stats         map[string]int
	Clips         map[string]float64 // animation clip lengths in seconds
	StatsInterval float64            // seconds between stats_tick events; zero disables
	AttackReach   float64
	Sensors       []SensorDef
	Beliefs       []BeliefDef
	Actions       []ActionDef
	Goals         []GoalDef
}

// EventHandler is a rule triggered by an event. When the event names an
// agent, conditions are evaluated from that agent's point of view.
type EventHandler struct {
	EventType  string
	Conditions []Condition
	Effects    []Effect
}

// Player holds the player's runtime state. Position lives in the world.
type Player struct {
	Stats map[string]int
}

// AgentState holds runtime overrides for an agent.
type AgentState struct {
	Stats map[string]int
}

// State is the complete mutable simulation state outside the world.
type State struct {
	Player      Player
	Agents      map[string]AgentState
	Flags       map[string]bool
	Tick        int
	Time        float64
	RNGSeed     int64
	RNGPosition int64
	CommandLog  []string
}
