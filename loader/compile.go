package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    string
	table *lua.LTable
}

// rawAgent holds an agent table before compilation.
type rawAgent struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
// Whole numbers become int, matching how stats are stored.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts the string-keyed fields of a Lua table to a map.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// arrayTables returns the table elements of a Lua array in order.
func arrayTables(tbl *lua.LTable) []*lua.LTable {
	if tbl == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// stringList returns the string elements of a Lua array in order.
// A bare string is treated as a one-element list.
func stringList(v lua.LValue) []string {
	switch val := v.(type) {
	case lua.LString:
		return []string{string(val)}
	case *lua.LTable:
		var out []string
		for i := 1; i <= val.MaxN(); i++ {
			if s, ok := val.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	}
	return nil
}

func compileVec(tbl *lua.LTable) types.Vec {
	if tbl == nil {
		return types.Vec{}
	}
	return types.Vec{X: getNumber(tbl, "x"), Y: getNumber(tbl, "y"), Z: getNumber(tbl, "z")}
}

func compileStats(tbl *lua.LTable) map[string]int {
	stats := map[string]int{}
	if tbl == nil {
		return stats
	}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			stats[string(ks)] = int(n)
		}
	})
	return stats
}

func compileClips(tbl *lua.LTable) map[string]float64 {
	if tbl == nil {
		return nil
	}
	clips := map[string]float64{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			clips[string(ks)] = float64(n)
		}
	})
	return clips
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Locations: map[string]types.LocationDef{},
	}

	if coll.scenario == nil {
		return nil, fmt.Errorf("no Scenario{} definition found")
	}
	defs.Scenario = compileScenario(coll.scenario)

	defs.Player = types.PlayerDef{Stats: map[string]int{}}
	if coll.player != nil {
		defs.Player = types.PlayerDef{
			Position: compileVec(getTable(coll.player, "position")),
			Speed:    getNumber(coll.player, "speed"),
			Stats:    compileStats(getTable(coll.player, "stats")),
		}
	}

	for _, raw := range coll.locations {
		if _, dup := defs.Locations[raw.id]; dup {
			return nil, fmt.Errorf("duplicate location %q", raw.id)
		}
		defs.Locations[raw.id] = compileLocation(raw)
	}

	for _, raw := range coll.agents {
		agent, err := compileAgent(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling agent %s: %w", raw.id, err)
		}
		defs.Agents = append(defs.Agents, agent)
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileScenario(tbl *lua.LTable) types.ScenarioDef {
	return types.ScenarioDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Seed:    int64(getNumber(tbl, "seed")),
		Min:     compileVec(getTable(tbl, "min")),
		Max:     compileVec(getTable(tbl, "max")),
	}
}

func compileLocation(raw rawLocation) types.LocationDef {
	tbl := raw.table
	loc := types.LocationDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Aliases:     stringList(tbl.RawGetString("aliases")),
		Description: getString(tbl, "description"),
		Position:    compileVec(getTable(tbl, "position")),
	}
	if loc.Name == "" {
		loc.Name = raw.id
	}
	return loc
}

func compileAgent(raw rawAgent) (types.AgentDef, error) {
	tbl := raw.table
	agent := types.AgentDef{
		ID:            raw.id,
		Name:          getString(tbl, "name"),
		Position:      compileVec(getTable(tbl, "position")),
		Speed:         getNumber(tbl, "speed"),
		Stats:         compileStats(getTable(tbl, "stats")),
		Clips:         compileClips(getTable(tbl, "clips")),
		StatsInterval: getNumber(tbl, "stats_interval"),
		AttackReach:   getNumber(tbl, "attack_reach"),
	}
	if agent.Name == "" {
		agent.Name = raw.id
	}

	for _, s := range arrayTables(getTable(tbl, "sensors")) {
		agent.Sensors = append(agent.Sensors, types.SensorDef{
			Name:    getString(s, "name"),
			Radius:  getNumber(s, "radius"),
			Passive: getBool(s, "passive", false),
		})
	}

	for _, b := range arrayTables(getTable(tbl, "beliefs")) {
		belief, err := compileBelief(b)
		if err != nil {
			return agent, err
		}
		agent.Beliefs = append(agent.Beliefs, belief)
	}

	for _, a := range arrayTables(getTable(tbl, "actions")) {
		agent.Actions = append(agent.Actions, compileAction(a))
	}

	for _, g := range arrayTables(getTable(tbl, "goals")) {
		agent.Goals = append(agent.Goals, types.GoalDef{
			Name:     getString(g, "name"),
			Priority: getInt(g, "priority"),
			Desired:  getString(g, "desired"),
		})
	}

	return agent, nil
}

func compileBelief(tbl *lua.LTable) (types.BeliefDef, error) {
	b := types.BeliefDef{
		Name:   getString(tbl, "name"),
		Kind:   getString(tbl, "type"),
		Negate: getBool(tbl, "negate", false),
	}
	switch b.Kind {
	case types.BeliefCondition:
		if conds := getTable(tbl, "conditions"); conds != nil {
			b.Conditions = compileConditions(conds)
		}
	case types.BeliefLocation:
		b.Location = getString(tbl, "location")
		b.Range = getNumber(tbl, "range")
	case types.BeliefSensor:
		b.Sensors = stringList(tbl.RawGetString("sensors"))
	default:
		return b, fmt.Errorf("belief %q: unknown kind %q (use Belief, LocationBelief or SensorBelief)", b.Name, b.Kind)
	}
	return b, nil
}

func compileAction(tbl *lua.LTable) types.ActionDef {
	a := types.ActionDef{
		Name:          getString(tbl, "name"),
		Cost:          getNumber(tbl, "cost"),
		Preconditions: stringList(tbl.RawGetString("preconditions")),
		Effects:       stringList(tbl.RawGetString("effects")),
		MaxDuration:   getNumber(tbl, "max_duration"),
		SourceOrder:   getInt(tbl, "order"),
	}
	if _, ok := tbl.RawGetString("cost").(lua.LNumber); ok {
		a.HasCost = true
	}
	if st := getTable(tbl, "strategy"); st != nil {
		a.Strategy = compileStrategy(st)
	}
	return a
}

func compileStrategy(tbl *lua.LTable) types.StrategyDef {
	params := tableToAnyMap(tbl)
	delete(params, "type")
	return types.StrategyDef{Type: getString(tbl, "type"), Params: params}
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for _, c := range arrayTables(tbl) {
		conditions = append(conditions, compileCondition(c))
	}
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Inner: &inner}
		}
	}

	params := tableToAnyMap(tbl)
	delete(params, "type")
	return types.Condition{Type: condType, Params: params}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for _, e := range arrayTables(tbl) {
		params := tableToAnyMap(e)
		delete(params, "type")
		effects = append(effects, types.Effect{Type: getString(e, "type"), Params: params})
	}
	return effects
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{EventType: raw.eventType}
	if condTbl := getTable(raw.table, "conditions"); condTbl != nil {
		handler.Conditions = compileConditions(condTbl)
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// sortedLuaFiles returns .lua files with scenario.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var first string
	var others []string
	for _, f := range files {
		if f == "scenario.lua" {
			first = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if first != "" {
		return append([]string{first}, others...)
	}
	return others
}
