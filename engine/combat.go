package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nathoo/goapcore/engine/effects"
	"github.com/nathoo/goapcore/engine/state"
	"github.com/nathoo/goapcore/engine/strategy"
	"github.com/nathoo/goapcore/types"
)

// defendBonus is added to the player's defense while the "defending" flag
// is set.
const defendBonus = 2

// DamageCalc computes damage: max(1, roll(1d6) + attack - defense).
// If defending, defense gets +2 bonus. Returns (damage, dieRoll).
func DamageCalc(attackerAttack, defenderDefense int, defending bool, rng *RNG) (damage, roll int) {
	roll = rng.Roll(6)
	def := defenderDefense
	if defending {
		def += defendBonus
	}
	damage = roll + attackerAttack - def
	if damage < 1 {
		damage = 1
	}
	return damage, roll
}

// resolveAttacks drains every agent's animator and lands each attack
// trigger on the player when the player is within the agent's reach.
func (e *Engine) resolveAttacks(ctx context.Context) ([]types.Event, []string) {
	var evts []types.Event
	var output []string

	for _, rt := range e.agents {
		for _, trig := range rt.Body.Animator().DrainTriggers() {
			if trig != strategy.AttackTrigger || state.GetFlag(e.State, "game_over") {
				continue
			}
			name := e.agentName(rt.Def.ID)

			reach := rt.Def.AttackReach
			if reach <= 0 {
				reach = DefaultAttackReach
			}
			if rt.Body.Position().Dist(e.player().Position()) > reach {
				output = append(output, fmt.Sprintf("%s swings at empty air.", name))
				continue
			}

			attackStat, _ := state.GetStat(e.State, rt.Def.ID, "attack")
			defenseStat, _ := state.GetStat(e.State, state.PlayerID, "defense")
			defending := state.GetFlag(e.State, "defending")
			damage, roll := DamageCalc(attackStat, defenseStat, defending, e.RNG)

			defDisplay := defenseStat
			if defending {
				defDisplay += defendBonus
			}
			output = append(output,
				fmt.Sprintf("%s attacks you!", name),
				fmt.Sprintf("  Roll: 1d6+%d → [%d]+%d = %d vs defense %d → %d damage",
					attackStat, roll, attackStat, roll+attackStat, defDisplay, damage),
			)
			e.Metrics.PlayerHits.Add(ctx, 1, metric.WithAttributes(attribute.String("agent", rt.Def.ID)))
			evts = append(evts, effects.DamagePlayer(e.State, rt.Def.ID, damage)...)
		}
	}
	return evts, output
}
