// Package rules evaluates the conditions that back scenario beliefs and
// gate event handlers.
package rules

import (
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/types"
)

// Scene answers the spatial questions conditions ask about a subject,
// which is the player or an agent id.
type Scene interface {
	Near(subject, location string, within float64) bool
	HasPath(subject string) bool
	SensorInRange(subject, sensor string) bool
}

// Env is what a condition is evaluated against. Subject is whose point of
// view the condition takes; stat conditions default to it.
type Env struct {
	State   *types.State
	Defs    *state.Defs
	Scene   Scene
	Subject string
}

// EvalCondition evaluates a single condition.
func EvalCondition(c types.Condition, env Env) bool {
	switch c.Type {
	case "always":
		return true

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return state.GetFlag(env.State, flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !state.GetFlag(env.State, flag)

	case "stat_lt":
		v, ok := subjectStat(c, env)
		return ok && v < toInt(c.Params["value"])

	case "stat_gte":
		v, ok := subjectStat(c, env)
		return ok && v >= toInt(c.Params["value"])

	case "near":
		if env.Scene == nil {
			return false
		}
		loc, _ := c.Params["location"].(string)
		return env.Scene.Near(subject(c, env), loc, toFloat(c.Params["range"]))

	case "has_path":
		if env.Scene == nil {
			return false
		}
		return env.Scene.HasPath(subject(c, env))

	case "sensor":
		if env.Scene == nil {
			return false
		}
		name, _ := c.Params["sensor"].(string)
		return env.Scene.SensorInRange(subject(c, env), name)

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, env)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, env Env) bool {
	for _, c := range conditions {
		if !EvalCondition(c, env) {
			return false
		}
	}
	return true
}

// subject returns the condition's explicit "target", else the env subject.
func subject(c types.Condition, env Env) string {
	if t, ok := c.Params["target"].(string); ok && t != "" {
		return t
	}
	return env.Subject
}

func subjectStat(c types.Condition, env Env) (int, bool) {
	stat, _ := c.Params["stat"].(string)
	return state.GetStat(env.State, subject(c, env), stat)
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
