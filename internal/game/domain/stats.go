package domain

import "strings"

// Stat names accepted by ApplyStatDelta.
const (
	StatHealth       = "health"
	StatStrength     = "strength"
	StatIntelligence = "intelligence"
	StatCharisma     = "charisma"
	StatLuck         = "luck"
)

// Stats holds the player's bounded attributes.
//
// Invariants: 0 <= Health <= MaxHealth; every other stat >= 1.
type Stats struct {
	Health       int `json:"health"`
	MaxHealth    int `json:"maxHealth"`
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Charisma     int `json:"charisma"`
	Luck         int `json:"luck"`
}

// ApplyStatDelta returns stats with delta applied to the named stat,
// clamped to the stat invariants. Unrecognized stat names are a no-op;
// callers feed free-form effect names through here and silently dropping
// unknown ones matches the engine's contract.
func ApplyStatDelta(stats Stats, name string, delta int) Stats {
	switch strings.ToLower(name) {
	case StatHealth:
		stats.Health = clamp(stats.Health+delta, 0, stats.MaxHealth)
	case StatStrength:
		stats.Strength = max(1, stats.Strength+delta)
	case StatIntelligence:
		stats.Intelligence = max(1, stats.Intelligence+delta)
	case StatCharisma:
		stats.Charisma = max(1, stats.Charisma+delta)
	case StatLuck:
		stats.Luck = max(1, stats.Luck+delta)
	}
	return stats
}

// Modifier derives the dice-check modifier for the named stat.
func (s Stats) Modifier(name string) int {
	switch strings.ToLower(name) {
	case StatStrength:
		return s.Strength / 10
	case StatIntelligence:
		return s.Intelligence / 10
	case StatCharisma:
		return s.Charisma / 10
	case StatLuck:
		return s.Luck / 10
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
