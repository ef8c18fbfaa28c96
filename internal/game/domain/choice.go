package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EffectType discriminates choice effect descriptors.
type EffectType string

const (
	EffectStat     EffectType = "stat"
	EffectCurrency EffectType = "currency"
	EffectItem     EffectType = "item"
	EffectStory    EffectType = "story"
)

// Effect is one consequence of a resolved choice. Stat and currency effects
// carry a numeric change; item and story effects carry text. On the wire the
// change field holds either form, so Effect marshals itself.
type Effect struct {
	Type     EffectType
	Name     string
	Amount   int
	Text     string
	Positive bool
}

type effectJSON struct {
	Type     EffectType      `json:"type"`
	Name     string          `json:"name"`
	Change   json.RawMessage `json:"change"`
	Positive bool            `json:"positive"`
}

func (e Effect) MarshalJSON() ([]byte, error) {
	out := effectJSON{Type: e.Type, Name: e.Name, Positive: e.Positive}
	var err error
	switch e.Type {
	case EffectItem, EffectStory:
		out.Change, err = json.Marshal(e.Text)
	default:
		out.Change, err = json.Marshal(e.Amount)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (e *Effect) UnmarshalJSON(data []byte) error {
	var in effectJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.Type = in.Type
	e.Name = in.Name
	e.Positive = in.Positive
	e.Amount = 0
	e.Text = ""
	if len(in.Change) == 0 {
		return nil
	}
	var amount int
	if err := json.Unmarshal(in.Change, &amount); err == nil {
		e.Amount = amount
		return nil
	}
	var text string
	if err := json.Unmarshal(in.Change, &text); err != nil {
		return fmt.Errorf("effect change is neither number nor string: %w", err)
	}
	e.Text = text
	return nil
}

// EffectsForChoice classifies a free-form choice into its outcome effects.
// Keyword groups are tried in order and the first match wins; unmatched
// choices fall through to the default table.
func EffectsForChoice(choiceText string, success bool) []Effect {
	lower := strings.ToLower(choiceText)

	switch {
	case containsAny(lower, "fight", "attack"):
		if success {
			return []Effect{
				{Type: EffectStat, Name: "Health", Amount: -2, Positive: false},
				{Type: EffectCurrency, Name: "Gold", Amount: 15, Positive: true},
				{Type: EffectStat, Name: "Strength", Amount: 1, Positive: true},
			}
		}
		return []Effect{
			{Type: EffectStat, Name: "Health", Amount: -8, Positive: false},
			{Type: EffectStory, Name: "Reputation", Text: "Wounded in battle", Positive: false},
		}
	case containsAny(lower, "study", "research"):
		if success {
			return []Effect{
				{Type: EffectStat, Name: "Intelligence", Amount: 2, Positive: true},
				{Type: EffectStory, Name: "Knowledge", Text: "Gained valuable insight", Positive: true},
			}
		}
		return []Effect{
			{Type: EffectStat, Name: "Intelligence", Amount: 1, Positive: true},
			{Type: EffectStory, Name: "Time", Text: "Wasted hours studying", Positive: false},
		}
	case containsAny(lower, "trade", "merchant"):
		if success {
			return []Effect{
				{Type: EffectCurrency, Name: "Gold", Amount: 25, Positive: true},
				{Type: EffectStat, Name: "Charisma", Amount: 1, Positive: true},
			}
		}
		return []Effect{
			{Type: EffectCurrency, Name: "Gold", Amount: -10, Positive: false},
		}
	default:
		if success {
			return []Effect{{Type: EffectStat, Name: "Luck", Amount: 1, Positive: true}}
		}
		return []Effect{{Type: EffectStat, Name: "Health", Amount: -1, Positive: false}}
	}
}

// ApplyChoiceEffects folds a batch of effects into the game state. Stat
// changes clamp per the stat invariants, currency floors at zero, item
// effects append to the inventory, and story effects are narrative-only.
func ApplyChoiceEffects(state GameState, effects []Effect) GameState {
	next := state.Clone()
	for _, effect := range effects {
		switch effect.Type {
		case EffectStat:
			next.Stats = ApplyStatDelta(next.Stats, effect.Name, effect.Amount)
		case EffectCurrency:
			next.Currency = max(0, next.Currency+effect.Amount)
		case EffectItem:
			item := InventoryItem{
				Name:        effect.Text,
				Description: "Acquired through adventure",
				Type:        ItemTypeEquipment,
			}
			if effect.Positive {
				item.StatBonus = &StatBonus{Stat: StatStrength, Value: 1}
			}
			next.Inventory = append(next.Inventory, item)
		case EffectStory:
			// Narrative flavor only.
		}
	}
	return next
}
