// Package catalog holds the embedded game content: playable races,
// constructible buildings, merchant stock, fallback enemies and random
// events. Content ships inside the binary and is validated at startup.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
)

//go:embed *.yaml
var embeddedFS embed.FS

// EventEffect is a guaranteed outcome attached to an event choice.
type EventEffect struct {
	Type   string `yaml:"type"`
	Name   string `yaml:"name"`
	Change int    `yaml:"change"`
}

// EventDiceCheck gates an event choice behind a stat roll.
type EventDiceCheck struct {
	Stat       string `yaml:"stat"`
	Difficulty int    `yaml:"difficulty"`
}

// EventChoice is one option a random event offers.
type EventChoice struct {
	Text      string          `yaml:"text"`
	Cost      int             `yaml:"cost"`
	Effect    *EventEffect    `yaml:"effect"`
	DiceCheck *EventDiceCheck `yaml:"diceCheck"`
}

// Event is a random encounter presented outside the main story flow.
type Event struct {
	Description string        `yaml:"description"`
	Choices     []EventChoice `yaml:"choices"`
}

// Catalog is the full parsed game content.
type Catalog struct {
	Races           []domain.RaceSpec
	Buildings       []domain.BuildingSpec
	MerchantStock   []domain.MerchantItem
	FallbackEnemies []domain.Enemy
	Events          []Event
}

// Load parses and validates the embedded catalog files.
func Load() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS parses catalog files from the provided filesystem.
func LoadFromFS(catalogFS fs.FS) (*Catalog, error) {
	var c Catalog

	var races struct {
		Races []domain.RaceSpec `yaml:"races"`
	}
	if err := readYAML(catalogFS, "races.yaml", &races); err != nil {
		return nil, err
	}
	c.Races = races.Races

	var buildings struct {
		Buildings []domain.BuildingSpec `yaml:"buildings"`
	}
	if err := readYAML(catalogFS, "buildings.yaml", &buildings); err != nil {
		return nil, err
	}
	c.Buildings = buildings.Buildings

	var merchant struct {
		Items []domain.MerchantItem `yaml:"items"`
	}
	if err := readYAML(catalogFS, "merchant.yaml", &merchant); err != nil {
		return nil, err
	}
	c.MerchantStock = merchant.Items

	var enemies struct {
		Fallback []domain.Enemy `yaml:"fallback"`
	}
	if err := readYAML(catalogFS, "enemies.yaml", &enemies); err != nil {
		return nil, err
	}
	c.FallbackEnemies = enemies.Fallback
	for i := range c.FallbackEnemies {
		if c.FallbackEnemies[i].MaxHealth == 0 {
			c.FallbackEnemies[i].MaxHealth = c.FallbackEnemies[i].Health
		}
	}

	var events struct {
		Events []Event `yaml:"events"`
	}
	if err := readYAML(catalogFS, "events.yaml", &events); err != nil {
		return nil, err
	}
	c.Events = events.Events

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Race looks up a playable race by name.
func (c *Catalog) Race(name string) (domain.RaceSpec, bool) {
	for _, race := range c.Races {
		if race.Name == name {
			return race, true
		}
	}
	return domain.RaceSpec{}, false
}

// Building looks up a constructible building by name.
func (c *Catalog) Building(name string) (domain.BuildingSpec, bool) {
	for _, building := range c.Buildings {
		if building.Name == name {
			return building, true
		}
	}
	return domain.BuildingSpec{}, false
}

// Validate checks the catalog invariants the engine relies on.
func (c *Catalog) Validate() error {
	if len(c.Races) == 0 {
		return fmt.Errorf("catalog: no races defined")
	}
	seen := map[string]bool{}
	for _, race := range c.Races {
		if race.Name == "" {
			return fmt.Errorf("catalog: race with empty name")
		}
		if seen[race.Name] {
			return fmt.Errorf("catalog: duplicate race %q", race.Name)
		}
		seen[race.Name] = true
		if len(race.PlayerNames) == 0 {
			return fmt.Errorf("catalog: race %q has no player names", race.Name)
		}
	}

	if len(c.Buildings) == 0 {
		return fmt.Errorf("catalog: no buildings defined")
	}
	for _, building := range c.Buildings {
		if building.Name == "" || building.Cost <= 0 {
			return fmt.Errorf("catalog: invalid building %+v", building)
		}
	}

	if len(c.MerchantStock) == 0 {
		return fmt.Errorf("catalog: no merchant stock defined")
	}
	for _, item := range c.MerchantStock {
		if item.Name == "" || item.Price <= 0 {
			return fmt.Errorf("catalog: invalid merchant item %+v", item)
		}
	}

	if len(c.FallbackEnemies) == 0 {
		return fmt.Errorf("catalog: no fallback enemies defined")
	}
	for _, enemy := range c.FallbackEnemies {
		if enemy.Name == "" || enemy.Health <= 0 || enemy.Strength <= 0 {
			return fmt.Errorf("catalog: invalid fallback enemy %+v", enemy)
		}
	}

	if len(c.Events) == 0 {
		return fmt.Errorf("catalog: no events defined")
	}
	for _, event := range c.Events {
		if event.Description == "" {
			return fmt.Errorf("catalog: event with empty description")
		}
		if len(event.Choices) < 2 {
			return fmt.Errorf("catalog: event %q needs at least two choices", event.Description)
		}
		for _, choice := range event.Choices {
			if choice.Text == "" {
				return fmt.Errorf("catalog: event %q has a choice with empty text", event.Description)
			}
		}
	}
	return nil
}

func readYAML(catalogFS fs.FS, name string, out any) error {
	data, err := fs.ReadFile(catalogFS, name)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return nil
}
