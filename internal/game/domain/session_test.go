package domain

import (
	"math/rand"
	"testing"
)

func elfSpec() RaceSpec {
	return RaceSpec{
		Name:          "Elf",
		Traits:        []string{"Wise", "Magical"},
		Buffs:         []string{"Nature Affinity"},
		Debuffs:       []string{"Physically Frail"},
		Description:   "Ancient and wise.",
		StatModifiers: StatModifiers{Health: -2, Strength: -1, Intelligence: 3, Charisma: 1, Luck: 1},
		PlayerNames:   []string{"Aelindra", "Thalorin"},
	}
}

func TestNewGameAppliesRaceModifiers(t *testing.T) {
	state := NewGame(elfSpec(), &scriptedRand{})

	// Negative health modifiers never reduce the starting 20.
	if state.Stats.Health != 20 || state.Stats.MaxHealth != 20 {
		t.Fatalf("health = %d/%d, want 20/20", state.Stats.Health, state.Stats.MaxHealth)
	}
	if state.Stats.Strength != 2 {
		t.Fatalf("strength = %d, want 2", state.Stats.Strength)
	}
	if state.Stats.Intelligence != 6 {
		t.Fatalf("intelligence = %d, want 6", state.Stats.Intelligence)
	}
	if state.Stats.Charisma != 4 || state.Stats.Luck != 4 {
		t.Fatalf("charisma/luck = %d/%d, want 4/4", state.Stats.Charisma, state.Stats.Luck)
	}
}

func TestNewGamePositiveHealthModifier(t *testing.T) {
	spec := elfSpec()
	spec.Name = "Demon"
	spec.StatModifiers = StatModifiers{Health: 5, Strength: 2, Intelligence: 1, Charisma: -1, Luck: -1}

	state := NewGame(spec, &scriptedRand{})
	if state.Stats.Health != 25 || state.Stats.MaxHealth != 25 {
		t.Fatalf("health = %d/%d, want 25/25", state.Stats.Health, state.Stats.MaxHealth)
	}
	if state.Stats.Charisma != 2 || state.Stats.Luck != 2 {
		t.Fatalf("charisma/luck = %d/%d, want 2/2", state.Stats.Charisma, state.Stats.Luck)
	}
}

func TestNewGameStartingLoadout(t *testing.T) {
	state := NewGame(elfSpec(), &scriptedRand{})

	if state.Currency != 50 {
		t.Fatalf("currency = %d, want 50", state.Currency)
	}
	if len(state.Inventory) != 3 {
		t.Fatalf("inventory = %d items, want 3", len(state.Inventory))
	}
	names := []string{"Rusty Sword", "Leather Armor", "Health Potion"}
	for i, want := range names {
		if state.Inventory[i].Name != want {
			t.Fatalf("inventory[%d] = %q, want %q", i, state.Inventory[i].Name, want)
		}
		if state.Inventory[i].Equipped {
			t.Fatalf("inventory[%d] should start unequipped", i)
		}
	}
	if state.Story.Chapter != 1 || state.Story.KingdomSize != TierVillage {
		t.Fatalf("story = %+v", state.Story)
	}
	if state.InCombat || state.CombatState != nil {
		t.Fatal("new game should not start in combat")
	}
	if state.PlayerName != "Aelindra" {
		t.Fatalf("player name = %q", state.PlayerName)
	}
}

func TestNewGameKingdomName(t *testing.T) {
	rng := &scriptedRand{values: []int{0, 4, 7}}
	state := NewGame(elfSpec(), rng)
	// Name roll 0, prefix roll 4 ("North"), suffix roll 7 ("field").
	if state.Story.KingdomName != "Northfield" {
		t.Fatalf("kingdom name = %q, want Northfield", state.Story.KingdomName)
	}
}

func TestNewGameRaceVillageAdjustments(t *testing.T) {
	base := NewGame(RaceSpec{Name: "Beastfolk", PlayerNames: []string{"Fenris"}}, &scriptedRand{})
	elf := NewGame(elfSpec(), &scriptedRand{})
	dwarf := NewGame(RaceSpec{Name: "Dwarf", PlayerNames: []string{"Thorin"}}, &scriptedRand{})
	orc := NewGame(RaceSpec{Name: "Orc", PlayerNames: []string{"Grosh"}}, &scriptedRand{})
	human := NewGame(RaceSpec{Name: "Human", PlayerNames: []string{"Alex"}}, &scriptedRand{})

	if got := elf.CityData.Resources["knowledge"] - base.CityData.Resources["knowledge"]; got != 20 {
		t.Fatalf("elf knowledge bonus = %d, want 20", got)
	}
	if got := dwarf.CityData.Jobs["crafters"] - base.CityData.Jobs["crafters"]; got != 10 {
		t.Fatalf("dwarf crafters bonus = %d, want 10", got)
	}
	if got := orc.CityData.Population - base.CityData.Population; got != 20 {
		t.Fatalf("orc population bonus = %d, want 20", got)
	}
	if got := human.CityData.Happiness - base.CityData.Happiness; got != 10 {
		t.Fatalf("human happiness bonus = %d, want 10", got)
	}
}

func TestNewGameVillageRangesWithRealRand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		state := NewGame(RaceSpec{Name: "Undead", PlayerNames: []string{"Mortis"}}, rng)
		city := state.CityData
		if city.Population < 80 || city.Population >= 120 {
			t.Fatalf("population = %d, want within [80,120)", city.Population)
		}
		if city.Happiness < 60 || city.Happiness >= 90 {
			t.Fatalf("happiness = %d, want within [60,90)", city.Happiness)
		}
	}
}
