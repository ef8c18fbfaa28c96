package domain

import (
	"encoding/json"
	"testing"
)

func TestEffectsForChoiceFightSuccess(t *testing.T) {
	effects := EffectsForChoice("Fight the raiders", true)
	if len(effects) != 3 {
		t.Fatalf("effects = %d, want 3", len(effects))
	}
	if effects[0].Type != EffectStat || effects[0].Name != "Health" || effects[0].Amount != -2 {
		t.Fatalf("effects[0] = %+v", effects[0])
	}
	if effects[1].Type != EffectCurrency || effects[1].Amount != 15 {
		t.Fatalf("effects[1] = %+v", effects[1])
	}
	if effects[2].Name != "Strength" || effects[2].Amount != 1 {
		t.Fatalf("effects[2] = %+v", effects[2])
	}
}

func TestEffectsForChoiceFightFailure(t *testing.T) {
	effects := EffectsForChoice("Attack the camp", false)
	if len(effects) != 2 {
		t.Fatalf("effects = %d, want 2", len(effects))
	}
	if effects[0].Amount != -8 {
		t.Fatalf("effects[0] = %+v", effects[0])
	}
	if effects[1].Type != EffectStory || effects[1].Text != "Wounded in battle" {
		t.Fatalf("effects[1] = %+v", effects[1])
	}
}

func TestEffectsForChoiceFirstMatchWins(t *testing.T) {
	// "fight" outranks "trade" when both appear.
	effects := EffectsForChoice("Trade blows and fight", true)
	if effects[0].Name != "Health" || effects[0].Amount != -2 {
		t.Fatalf("expected fight table, got %+v", effects)
	}
}

func TestEffectsForChoiceDefault(t *testing.T) {
	success := EffectsForChoice("Keep walking", true)
	if len(success) != 1 || success[0].Name != "Luck" || success[0].Amount != 1 {
		t.Fatalf("success default = %+v", success)
	}
	failure := EffectsForChoice("Keep walking", false)
	if len(failure) != 1 || failure[0].Name != "Health" || failure[0].Amount != -1 {
		t.Fatalf("failure default = %+v", failure)
	}
}

func TestApplyChoiceEffects(t *testing.T) {
	state := GameState{
		Stats:    Stats{Health: 20, MaxHealth: 20, Strength: 5, Intelligence: 3, Charisma: 3, Luck: 3},
		Currency: 5,
	}

	next := ApplyChoiceEffects(state, []Effect{
		{Type: EffectStat, Name: "Health", Amount: -8, Positive: false},
		{Type: EffectCurrency, Name: "Gold", Amount: -10, Positive: false},
		{Type: EffectItem, Name: "Loot", Text: "Bandit Blade", Positive: true},
		{Type: EffectStory, Name: "Reputation", Text: "Feared", Positive: true},
	})

	if next.Stats.Health != 12 {
		t.Fatalf("health = %d, want 12", next.Stats.Health)
	}
	if next.Currency != 0 {
		t.Fatalf("currency = %d, want floored at 0", next.Currency)
	}
	if len(next.Inventory) != 1 || next.Inventory[0].Name != "Bandit Blade" {
		t.Fatalf("inventory = %+v", next.Inventory)
	}
	if next.Inventory[0].StatBonus == nil || next.Inventory[0].StatBonus.Value != 1 {
		t.Fatalf("item bonus = %+v", next.Inventory[0].StatBonus)
	}
	if state.Currency != 5 || len(state.Inventory) != 0 {
		t.Fatal("input state mutated")
	}
}

func TestEffectJSONRoundTrip(t *testing.T) {
	numeric := Effect{Type: EffectStat, Name: "Health", Amount: -2}
	data, err := json.Marshal(numeric)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decodedNumeric Effect
	if err := json.Unmarshal(data, &decodedNumeric); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decodedNumeric.Amount != -2 || decodedNumeric.Text != "" {
		t.Fatalf("decoded = %+v", decodedNumeric)
	}

	textual := Effect{Type: EffectStory, Name: "Knowledge", Text: "Gained valuable insight", Positive: true}
	data, err = json.Marshal(textual)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decodedText Effect
	if err := json.Unmarshal(data, &decodedText); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decodedText.Text != "Gained valuable insight" || decodedText.Amount != 0 {
		t.Fatalf("decoded = %+v", decodedText)
	}
}
