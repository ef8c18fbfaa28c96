package domain

import (
	"strconv"
	"strings"

	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

// DiceRoll is the outcome of a single die roll.
type DiceRoll struct {
	DiceType     string `json:"diceType"`
	Roll         int    `json:"roll"`
	Modifier     int    `json:"modifier"`
	Total        int    `json:"total"`
	TargetNumber int    `json:"targetNumber,omitempty"`
	Success      *bool  `json:"success,omitempty"`
}

// DiceCheck names the stat and difficulty a choice is tested against.
type DiceCheck struct {
	Stat         string `json:"stat"`
	TargetNumber int    `json:"targetNumber"`
}

// Roll rolls a die ("dN" or bare "N", 2 to 100 sides) and adds modifier.
// A targeted roll succeeds when total >= targetNumber; an untargeted roll
// always succeeds.
func Roll(diceType string, modifier, targetNumber int, rng Rand) (DiceRoll, error) {
	sides, err := parseDiceType(diceType)
	if err != nil {
		return DiceRoll{}, err
	}

	roll := rng.Intn(sides) + 1
	result := DiceRoll{
		DiceType: diceType,
		Roll:     roll,
		Modifier: modifier,
		Total:    roll + modifier,
	}
	success := targetNumber <= 0 || result.Total >= targetNumber
	result.Success = &success
	if targetNumber > 0 {
		result.TargetNumber = targetNumber
	}
	return result, nil
}

// CheckForChoice maps a free-form choice onto the stat check it triggers.
// The first matching keyword wins; anything else falls through to a flat
// d20 against 10.
func CheckForChoice(choice string, stats Stats) (DiceCheck, int) {
	lower := strings.ToLower(choice)

	var check DiceCheck
	switch {
	case containsAny(lower, "fight", "attack", "combat"):
		check = DiceCheck{Stat: StatStrength, TargetNumber: 12}
	case containsAny(lower, "persuade", "convince", "negotiate"):
		check = DiceCheck{Stat: StatCharisma, TargetNumber: 14}
	case containsAny(lower, "study", "research", "magic"):
		check = DiceCheck{Stat: StatIntelligence, TargetNumber: 13}
	case containsAny(lower, "sneak", "hide", "luck"):
		check = DiceCheck{Stat: StatLuck, TargetNumber: 15}
	default:
		return DiceCheck{TargetNumber: 10}, 0
	}
	return check, stats.Modifier(check.Stat)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func parseDiceType(diceType string) (int, error) {
	rest := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(diceType)), "d")
	sides, err := strconv.Atoi(rest)
	if err != nil || sides < 2 || sides > 100 {
		return 0, errors.Ef(errors.CodeInvalidArgument, "invalid dice type %q", diceType)
	}
	return sides, nil
}
