package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerBeliefHelpers(L)
	registerStrategyHelpers(L)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

// newTyped returns a table with its "type" field set.
func newTyped(L *lua.LState, typ string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	return tbl
}

// curried registers name as a constructor of the form Name "id" { ... }.
func curried(L *lua.LState, name string, fn func(id string, tbl *lua.LTable) lua.LValue) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			if v := fn(id, tbl); v != nil {
				L.Push(v)
				return 1
			}
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Scenario { title = "...", seed = 42, min = {...}, max = {...} }
	L.SetGlobal("Scenario", L.NewFunction(func(L *lua.LState) int {
		coll.scenario = L.CheckTable(1)
		return 0
	}))

	// Player { position = {...}, speed = 3.5, stats = {...} }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	// Location "id" { name = "...", position = {x = 0, z = 0} }
	curried(L, "Location", func(id string, tbl *lua.LTable) lua.LValue {
		coll.locations = append(coll.locations, rawLocation{id: id, table: tbl})
		return nil
	})

	// Agent "id" { sensors = {...}, beliefs = {...}, actions = {...}, goals = {...} }
	curried(L, "Agent", func(id string, tbl *lua.LTable) lua.LValue {
		coll.agents = append(coll.agents, rawAgent{id: id, table: tbl})
		return nil
	})

	// Action "name" { strategy = Idle(5), preconditions = {...}, effects = {...} }
	// Returns the table with its name set, for use inside an Agent's actions.
	curried(L, "Action", func(name string, tbl *lua.LTable) lua.LValue {
		tbl.RawSetString("name", lua.LString(name))
		tbl.RawSetString("order", lua.LNumber(coll.nextSourceOrder()))
		return tbl
	})

	// Goal "name" { priority = 1, desired = "Belief" }
	curried(L, "Goal", func(name string, tbl *lua.LTable) lua.LValue {
		tbl.RawSetString("name", lua.LString(name))
		return tbl
	})

	// Sensor { name = "chase", radius = 8, passive = false } passes through.
	L.SetGlobal("Sensor", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	// On("event_type", { conditions = {...}, effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}

func registerBeliefHelpers(L *lua.LState) {
	// Belief("name", cond1, cond2, ...) holds while every condition passes.
	// FalseBelief("name", ...) holds while they do not.
	for name, negate := range map[string]bool{"Belief": false, "FalseBelief": true} {
		negate := negate
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := newTyped(L, "condition")
			tbl.RawSetString("name", lua.LString(L.CheckString(1)))
			tbl.RawSetString("negate", lua.LBool(negate))
			conds := L.NewTable()
			for i := 2; i <= L.GetTop(); i++ {
				conds.Append(L.CheckTable(i))
			}
			tbl.RawSetString("conditions", conds)
			L.Push(tbl)
			return 1
		}))
	}

	// LocationBelief("name", "location", range)
	L.SetGlobal("LocationBelief", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "location")
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		tbl.RawSetString("location", lua.LString(L.CheckString(2)))
		tbl.RawSetString("range", L.CheckNumber(3))
		L.Push(tbl)
		return 1
	}))

	// SensorBelief("name", "sensor", ...) holds while any sensor sees the player.
	L.SetGlobal("SensorBelief", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "sensor")
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		sensors := L.NewTable()
		for i := 2; i <= L.GetTop(); i++ {
			sensors.Append(lua.LString(L.CheckString(i)))
		}
		tbl.RawSetString("sensors", sensors)
		L.Push(tbl)
		return 1
	}))

	// SensorFalseBelief("name", "sensor")
	L.SetGlobal("SensorFalseBelief", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "sensor")
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		sensors := L.NewTable()
		sensors.Append(lua.LString(L.CheckString(2)))
		tbl.RawSetString("sensors", sensors)
		tbl.RawSetString("negate", lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}

// withOptions copies the string-keyed fields of an optional table argument
// into tbl.
func withOptions(L *lua.LState, tbl *lua.LTable, arg int) {
	opts, ok := L.Get(arg).(*lua.LTable)
	if !ok {
		return
	}
	opts.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			tbl.RawSetString(string(ks), v)
		}
	})
}

func registerStrategyHelpers(L *lua.LState) {
	// Idle(seconds)
	L.SetGlobal("Idle", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "idle")
		tbl.RawSetString("duration", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// Wander(radius)
	L.SetGlobal("Wander", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "wander")
		tbl.RawSetString("radius", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// MoveTo("location or body", { emit = "event" })
	L.SetGlobal("MoveTo", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "move")
		tbl.RawSetString("to", lua.LString(L.CheckString(1)))
		withOptions(L, tbl, 2)
		L.Push(tbl)
		return 1
	}))

	// MoveToBelief("belief", { emit = "event" }) walks to the belief's location.
	L.SetGlobal("MoveToBelief", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "move")
		tbl.RawSetString("belief", lua.LString(L.CheckString(1)))
		withOptions(L, tbl, 2)
		L.Push(tbl)
		return 1
	}))

	// Attack()
	L.SetGlobal("Attack", L.NewFunction(func(L *lua.LState) int {
		L.Push(newTyped(L, "attack"))
		return 1
	}))

	// Dance()
	L.SetGlobal("Dance", L.NewFunction(func(L *lua.LState) int {
		L.Push(newTyped(L, "dance"))
		return 1
	}))

	// Emote("Trigger", "Clip"): clip defaults to Trigger.."Clip".
	L.SetGlobal("Emote", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "emote")
		tbl.RawSetString("trigger", lua.LString(L.CheckString(1)))
		if clip := L.OptString(2, ""); clip != "" {
			tbl.RawSetString("clip", lua.LString(clip))
		}
		L.Push(tbl)
		return 1
	}))

	// WaitUntilFalse("belief")
	L.SetGlobal("WaitUntilFalse", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "wait_until_false")
		tbl.RawSetString("belief", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// LookAt("location or body", { speed = 5, emit = "event" })
	L.SetGlobal("LookAt", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "look_at")
		tbl.RawSetString("to", lua.LString(L.CheckString(1)))
		withOptions(L, tbl, 2)
		L.Push(tbl)
		return 1
	}))

	// LookAtBelief("belief", { speed = 5, emit = "event" })
	L.SetGlobal("LookAtBelief", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "look_at")
		tbl.RawSetString("belief", lua.LString(L.CheckString(1)))
		withOptions(L, tbl, 2)
		L.Push(tbl)
		return 1
	}))
}

// setTarget stores an optional subject override from argument n.
func setTarget(L *lua.LState, tbl *lua.LTable, n int) {
	if target := L.OptString(n, ""); target != "" {
		tbl.RawSetString("target", lua.LString(target))
	}
}

func registerConditionHelpers(L *lua.LState) {
	// Always()
	L.SetGlobal("Always", L.NewFunction(func(L *lua.LState) int {
		L.Push(newTyped(L, "always"))
		return 1
	}))

	// Never()
	L.SetGlobal("Never", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "not")
		tbl.RawSetString("inner", newTyped(L, "always"))
		L.Push(tbl)
		return 1
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "flag_set")
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "flag_not")
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// StatBelow("stat", value [, target])
	L.SetGlobal("StatBelow", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "stat_lt")
		tbl.RawSetString("stat", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", L.CheckNumber(2))
		setTarget(L, tbl, 3)
		L.Push(tbl)
		return 1
	}))

	// StatAtLeast("stat", value [, target])
	L.SetGlobal("StatAtLeast", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "stat_gte")
		tbl.RawSetString("stat", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", L.CheckNumber(2))
		setTarget(L, tbl, 3)
		L.Push(tbl)
		return 1
	}))

	// Near("location", range [, target])
	L.SetGlobal("Near", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "near")
		tbl.RawSetString("location", lua.LString(L.CheckString(1)))
		tbl.RawSetString("range", L.CheckNumber(2))
		setTarget(L, tbl, 3)
		L.Push(tbl)
		return 1
	}))

	// HasPath([target])
	L.SetGlobal("HasPath", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "has_path")
		setTarget(L, tbl, 1)
		L.Push(tbl)
		return 1
	}))

	// Sees("sensor" [, target])
	L.SetGlobal("Sees", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "sensor")
		tbl.RawSetString("sensor", lua.LString(L.CheckString(1)))
		setTarget(L, tbl, 2)
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "not")
		tbl.RawSetString("inner", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Say("text")
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "say")
		tbl.RawSetString("text", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// SetFlag("flag", value)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "set_flag")
		tbl.RawSetString("flag", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", lua.LBool(L.CheckBool(2)))
		L.Push(tbl)
		return 1
	}))

	// AdjustStat("stat", amount [, target])
	L.SetGlobal("AdjustStat", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "adjust_stat")
		tbl.RawSetString("stat", lua.LString(L.CheckString(1)))
		tbl.RawSetString("amount", L.CheckNumber(2))
		setTarget(L, tbl, 3)
		L.Push(tbl)
		return 1
	}))

	// SetStat("stat", value [, target])
	L.SetGlobal("SetStat", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "set_stat")
		tbl.RawSetString("stat", lua.LString(L.CheckString(1)))
		tbl.RawSetString("value", L.CheckNumber(2))
		setTarget(L, tbl, 3)
		L.Push(tbl)
		return 1
	}))

	// DamagePlayer(amount)
	L.SetGlobal("DamagePlayer", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "damage_player")
		tbl.RawSetString("amount", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))

	// MovePlayer("location")
	L.SetGlobal("MovePlayer", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "move_player")
		tbl.RawSetString("location", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// EmitEvent("type")
	L.SetGlobal("EmitEvent", L.NewFunction(func(L *lua.LState) int {
		tbl := newTyped(L, "emit_event")
		tbl.RawSetString("event", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Stop()
	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		L.Push(newTyped(L, "stop"))
		return 1
	}))
}
