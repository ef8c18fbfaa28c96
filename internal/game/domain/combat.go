package domain

import (
	"fmt"

	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

// Rand supplies uniform random integers. *math/rand.Rand satisfies it;
// tests script it with fixed values.
type Rand interface {
	Intn(n int) int
}

// CombatAction is the player's declared action for a combat round.
type CombatAction string

const (
	ActionAttack  CombatAction = "attack"
	ActionDefend  CombatAction = "defend"
	ActionSpecial CombatAction = "special"
)

// Enemy is one opposing combatant.
type Enemy struct {
	Name      string `json:"name"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Strength  int    `json:"strength"`
}

// CombatState tracks an active encounter. It is present if and only if the
// session is in combat.
type CombatState struct {
	Enemies     []Enemy  `json:"enemies"`
	TurnOrder   []string `json:"turnOrder"`
	CurrentTurn int      `json:"currentTurn"`
}

// RoundResult reports the outcome of one resolved combat round.
type RoundResult struct {
	Log         []string `json:"log"`
	CombatEnded bool     `json:"combatEnded"`
	Victory     bool     `json:"victory"`
	Reward      int      `json:"reward,omitempty"`
}

// StartCombat enters combat against the provided roster. Turn order is the
// player followed by the enemies in roster order.
func StartCombat(state GameState, enemies []Enemy) (GameState, error) {
	if state.InCombat {
		return GameState{}, errors.E(errors.CodeInvalidState, "already in combat")
	}
	if len(enemies) == 0 {
		return GameState{}, errors.E(errors.CodeInvalidArgument, "enemy roster is empty")
	}

	next := state.Clone()
	turnOrder := make([]string, 0, len(enemies)+1)
	turnOrder = append(turnOrder, "player")
	for i := range enemies {
		turnOrder = append(turnOrder, fmt.Sprintf("enemy_%d", i))
	}
	next.InCombat = true
	next.CombatState = &CombatState{
		Enemies:     cloneSlice(enemies),
		TurnOrder:   turnOrder,
		CurrentTurn: 0,
	}
	return next, nil
}

// ResolveRound resolves one combat round: the player's action, then every
// living enemy's attack in roster order, then the end conditions.
//
// Every living enemy acts even when an earlier enemy already reduced the
// player to 0 health; the round is never cut short. When the round ends the
// encounter, victory is checked before defeat, so a simultaneous wipe-out
// resolves as a victory.
func ResolveRound(state GameState, action CombatAction, targetIndex int, rng Rand) (GameState, RoundResult, error) {
	if !state.InCombat || state.CombatState == nil {
		return GameState{}, RoundResult{}, errors.E(errors.CodeInvalidState, "not in combat")
	}

	next := state.Clone()
	combat := next.CombatState
	var result RoundResult

	// Player phase. A dead or out-of-range target wastes the action.
	if action == ActionAttack && targetIndex >= 0 && targetIndex < len(combat.Enemies) {
		target := &combat.Enemies[targetIndex]
		if target.Health > 0 {
			damage := max(1, next.Stats.Strength+rng.Intn(20)-10)
			target.Health = max(0, target.Health-damage)
			result.Log = append(result.Log, fmt.Sprintf("You attack %s for %d damage!", target.Name, damage))
			if target.Health == 0 {
				result.Log = append(result.Log, fmt.Sprintf("%s is defeated!", target.Name))
			}
		}
	}

	// Enemy phase.
	for i := range combat.Enemies {
		enemy := combat.Enemies[i]
		if enemy.Health <= 0 {
			continue
		}
		damage := max(1, enemy.Strength+rng.Intn(15)-7)
		next.Stats.Health = max(0, next.Stats.Health-damage)
		result.Log = append(result.Log, fmt.Sprintf("%s attacks you for %d damage!", enemy.Name, damage))
	}

	allEnemiesDefeated := true
	for _, enemy := range combat.Enemies {
		if enemy.Health > 0 {
			allEnemiesDefeated = false
			break
		}
	}
	playerDefeated := next.Stats.Health <= 0

	if allEnemiesDefeated || playerDefeated {
		next.InCombat = false
		next.CombatState = nil
		result.CombatEnded = true

		if allEnemiesDefeated {
			result.Victory = true
			result.Reward = rng.Intn(50) + 25
			next.Currency += result.Reward
			result.Log = append(result.Log, "Victory! You have defeated all enemies.")
			result.Log = append(result.Log, fmt.Sprintf("You earned %d gold!", result.Reward))
		} else {
			result.Log = append(result.Log, "Defeat! You have been overcome...")
		}
	}

	return next, result, nil
}
