package domain

// RaceSpec is a playable race definition with its starting adjustments and
// name pool.
type RaceSpec struct {
	Name          string        `json:"name" yaml:"name"`
	Traits        []string      `json:"traits" yaml:"traits"`
	Buffs         []string      `json:"buffs" yaml:"buffs"`
	Debuffs       []string      `json:"debuffs" yaml:"debuffs"`
	Description   string        `json:"description" yaml:"description"`
	StatModifiers StatModifiers `json:"statModifiers" yaml:"statModifiers"`
	PlayerNames   []string      `json:"playerNames" yaml:"playerNames"`
}

var kingdomPrefixes = []string{"New", "Old", "Great", "Little", "North", "South", "East", "West"}

var kingdomSuffixes = []string{"haven", "burg", "ford", "shire", "ton", "dale", "moor", "field"}

// GenerateKingdomName builds a settlement name from a random prefix and
// suffix pair.
func GenerateKingdomName(rng Rand) string {
	prefix := kingdomPrefixes[rng.Intn(len(kingdomPrefixes))]
	suffix := kingdomSuffixes[rng.Intn(len(kingdomSuffixes))]
	return prefix + suffix
}

// NewGame rolls up a fresh session for the chosen race: a name from the
// race's pool, a generated kingdom, racial stat adjustments over the base
// stats, the standard starting gear and a randomized starting village.
//
// Health modifiers below zero are ignored so no race starts wounded; every
// other stat floors at 1.
func NewGame(race RaceSpec, rng Rand) GameState {
	playerName := "Alex"
	if len(race.PlayerNames) > 0 {
		playerName = race.PlayerNames[rng.Intn(len(race.PlayerNames))]
	}

	healthBonus := max(0, race.StatModifiers.Health)
	stats := Stats{
		Health:       20 + healthBonus,
		MaxHealth:    20 + healthBonus,
		Strength:     max(1, 3+race.StatModifiers.Strength),
		Intelligence: max(1, 3+race.StatModifiers.Intelligence),
		Charisma:     max(1, 3+race.StatModifiers.Charisma),
		Luck:         max(1, 3+race.StatModifiers.Luck),
	}

	return GameState{
		PlayerName: playerName,
		Race: Race{
			Name:        race.Name,
			Traits:      cloneSlice(race.Traits),
			Buffs:       cloneSlice(race.Buffs),
			Debuffs:     cloneSlice(race.Debuffs),
			Description: race.Description,
		},
		Story: Story{
			CurrentScene: "",
			History:      []string{},
			Choices:      []Choice{},
			Chapter:      1,
			KingdomName:  GenerateKingdomName(rng),
			KingdomSize:  TierVillage,
		},
		Stats:         stats,
		Relationships: Relationships{Factions: map[string]int{}},
		Inventory:     startingInventory(),
		Currency:      50,
		InCombat:      false,
		CityData:      startingVillage(race.Name, rng),
	}
}

func startingInventory() []InventoryItem {
	return []InventoryItem{
		{
			Name:        "Rusty Sword",
			Description: "An old but serviceable blade",
			Type:        ItemTypeWeapon,
			StatBonus:   &StatBonus{Stat: StatStrength, Value: 1},
		},
		{
			Name:        "Leather Armor",
			Description: "Basic protection for adventurers",
			Type:        ItemTypeArmor,
			StatBonus:   &StatBonus{Stat: StatHealth, Value: 3},
		},
		{
			Name:        "Health Potion",
			Description: "Restores 10 health when consumed",
			Type:        ItemTypeConsumable,
			Effect:      &ItemEffect{Type: EffectHeal, Value: 10},
		},
	}
}

// startingVillage rolls the starting settlement and then nudges it toward
// the race's strengths.
func startingVillage(raceName string, rng Rand) *CityData {
	city := &CityData{
		Population: 80 + rng.Intn(40),
		Happiness:  60 + rng.Intn(30),
		Buildings: []Building{
			{Name: "Town Hall", Level: 1, Description: "Administrative center"},
			{Name: "Market", Level: 1, Description: "Trade hub"},
		},
		Jobs: map[string]int{
			"farmers":   25 + rng.Intn(15),
			"merchants": 10 + rng.Intn(10),
			"guards":    5 + rng.Intn(10),
			"crafters":  15 + rng.Intn(15),
			"scholars":  2 + rng.Intn(8),
		},
		Resources: map[string]int{
			"food":      100 + rng.Intn(100),
			"materials": 50 + rng.Intn(80),
			"knowledge": 10 + rng.Intn(40),
		},
	}

	switch raceName {
	case "Elf":
		city.Resources["knowledge"] += 20
		city.Jobs["scholars"] += 5
	case "Dwarf":
		city.Resources["materials"] += 30
		city.Jobs["crafters"] += 10
	case "Orc":
		city.Jobs["guards"] += 8
		city.Population += 20
	case "Human":
		city.Jobs["merchants"] += 5
		city.Happiness += 10
	}
	return city
}
