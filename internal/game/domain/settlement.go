package domain

import (
	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

// Tier is a settlement size on the progression ladder.
type Tier string

const (
	TierVillage Tier = "village"
	TierTown    Tier = "town"
	TierCity    Tier = "city"
	TierKingdom Tier = "kingdom"
	TierEmpire  Tier = "empire"
)

// TierInfo describes the step from one tier to the next.
type TierInfo struct {
	UpgradeCost   int
	Next          Tier
	MaxPopulation int
}

// NextTier returns the upgrade step for the given tier. The top of the
// ladder is terminal.
func NextTier(tier Tier) (TierInfo, error) {
	switch tier {
	case TierVillage:
		return TierInfo{UpgradeCost: 500, Next: TierTown, MaxPopulation: 1000}, nil
	case TierTown:
		return TierInfo{UpgradeCost: 2000, Next: TierCity, MaxPopulation: 5000}, nil
	case TierCity:
		return TierInfo{UpgradeCost: 10000, Next: TierKingdom, MaxPopulation: 25000}, nil
	case TierKingdom:
		return TierInfo{UpgradeCost: 50000, Next: TierEmpire, MaxPopulation: 100000}, nil
	default:
		return TierInfo{}, errors.E(errors.CodeTerminalState, "cannot upgrade further")
	}
}

// Building is one structure in the settlement.
type Building struct {
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

// BuildingSpec is a constructible building type with its gold cost.
type BuildingSpec struct {
	Name        string `json:"name" yaml:"name"`
	Cost        int    `json:"cost" yaml:"cost"`
	Description string `json:"description" yaml:"description"`
}

// CityData tracks the settlement behind the player's story.
type CityData struct {
	Population int            `json:"population"`
	Happiness  int            `json:"happiness"`
	Buildings  []Building     `json:"buildings"`
	Jobs       map[string]int `json:"jobs"`
	Resources  map[string]int `json:"resources"`
}

// DefaultCityData seeds the settlement for sessions created before city
// management existed.
func DefaultCityData() *CityData {
	return &CityData{
		Population: 100,
		Happiness:  75,
		Buildings: []Building{
			{Name: "Town Hall", Level: 1, Description: "Administrative center"},
			{Name: "Market", Level: 1, Description: "Trade hub"},
		},
		Jobs: map[string]int{
			"farmers":   30,
			"merchants": 15,
			"guards":    10,
			"crafters":  20,
			"scholars":  5,
		},
		Resources: map[string]int{
			"food":      150,
			"materials": 80,
			"knowledge": 25,
		},
	}
}

// UpgradeSettlement advances the settlement one tier, deducting the upgrade
// cost, growing the population toward the new cap and lifting happiness.
func UpgradeSettlement(state GameState) (GameState, Tier, error) {
	info, err := NextTier(state.Story.KingdomSize)
	if err != nil {
		return GameState{}, "", err
	}
	if state.Currency < info.UpgradeCost {
		return GameState{}, "", errors.E(errors.CodeInsufficientFunds, "not enough gold to upgrade")
	}

	next := state.Clone()
	if next.CityData == nil {
		next.CityData = DefaultCityData()
	}
	next.Currency -= info.UpgradeCost
	next.Story.KingdomSize = info.Next
	next.CityData.Population = min(next.CityData.Population*3/2, info.MaxPopulation)
	next.CityData.Happiness = min(next.CityData.Happiness+10, 100)
	return next, info.Next, nil
}

// ConstructBuilding builds or levels up the named building, deducting its
// cost and lifting happiness. Constructing a building the settlement already
// has raises its level instead of duplicating it.
func ConstructBuilding(state GameState, spec BuildingSpec) (GameState, error) {
	if state.Currency < spec.Cost {
		return GameState{}, errors.E(errors.CodeInsufficientFunds, "not enough gold to construct building")
	}

	next := state.Clone()
	if next.CityData == nil {
		next.CityData = DefaultCityData()
	}
	next.Currency -= spec.Cost

	upgraded := false
	for i := range next.CityData.Buildings {
		if next.CityData.Buildings[i].Name == spec.Name {
			next.CityData.Buildings[i].Level++
			upgraded = true
			break
		}
	}
	if !upgraded {
		next.CityData.Buildings = append(next.CityData.Buildings, Building{
			Name:        spec.Name,
			Level:       1,
			Description: spec.Description,
		})
	}
	next.CityData.Happiness = min(next.CityData.Happiness+5, 100)
	return next, nil
}
