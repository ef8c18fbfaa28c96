package domain

// Race describes the player's chosen race.
type Race struct {
	Name        string   `json:"name"`
	Traits      []string `json:"traits"`
	Buffs       []string `json:"buffs"`
	Debuffs     []string `json:"debuffs"`
	Description string   `json:"description"`
}

// StatModifiers captures a race's adjustments to the base starting stats.
type StatModifiers struct {
	Health       int `json:"health" yaml:"health"`
	Strength     int `json:"strength" yaml:"strength"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Charisma     int `json:"charisma" yaml:"charisma"`
	Luck         int `json:"luck" yaml:"luck"`
}

// Choice is one selectable narrative option in the current scene.
type Choice struct {
	Text        string `json:"text"`
	Consequence string `json:"consequence"`
}

// Story tracks narrative progression for a session.
type Story struct {
	CurrentScene string   `json:"currentScene"`
	History      []string `json:"history"`
	Choices      []Choice `json:"choices"`
	Chapter      int      `json:"chapter"`
	KingdomName  string   `json:"kingdomName"`
	KingdomSize  Tier     `json:"kingdomSize"`
}

// Relationships tracks faction standing from -100 to 100.
type Relationships struct {
	Factions map[string]int `json:"factions"`
}

// PendingScene marks an in-flight narrative generation request. The engine
// never blocks a transition on the collaborator; the caller completes the
// request with generated content or the deterministic fallback.
type PendingScene struct {
	RequestID     string `json:"requestId"`
	PlayerChoice  string `json:"playerChoice,omitempty"`
	ChoiceSuccess *bool  `json:"choiceSuccess,omitempty"`
}

// GameState is the full mutable state of one play session.
type GameState struct {
	PlayerName        string          `json:"playerName"`
	Race              Race            `json:"race"`
	Story             Story           `json:"story"`
	Stats             Stats           `json:"stats"`
	Relationships     Relationships   `json:"relationships"`
	Inventory         []InventoryItem `json:"inventory"`
	Currency          int             `json:"currency"`
	InCombat          bool            `json:"inCombat"`
	CombatState       *CombatState    `json:"combatState,omitempty"`
	MerchantInventory []MerchantItem  `json:"merchantInventory,omitempty"`
	MerchantAvailable bool            `json:"merchantAvailable,omitempty"`
	CityData          *CityData       `json:"cityData,omitempty"`
	PendingScene      *PendingScene   `json:"pendingScene,omitempty"`
}

// Clone returns a deep copy of the state. Transition functions operate on a
// clone so a failed operation leaves the caller's state untouched.
func (s GameState) Clone() GameState {
	out := s
	out.Story.History = cloneSlice(s.Story.History)
	out.Story.Choices = cloneSlice(s.Story.Choices)
	out.Inventory = cloneSlice(s.Inventory)
	out.MerchantInventory = cloneSlice(s.MerchantInventory)
	out.Race.Traits = cloneSlice(s.Race.Traits)
	out.Race.Buffs = cloneSlice(s.Race.Buffs)
	out.Race.Debuffs = cloneSlice(s.Race.Debuffs)
	if s.Relationships.Factions != nil {
		out.Relationships.Factions = make(map[string]int, len(s.Relationships.Factions))
		for k, v := range s.Relationships.Factions {
			out.Relationships.Factions[k] = v
		}
	}
	if s.CombatState != nil {
		cs := *s.CombatState
		cs.Enemies = cloneSlice(s.CombatState.Enemies)
		cs.TurnOrder = cloneSlice(s.CombatState.TurnOrder)
		out.CombatState = &cs
	}
	if s.CityData != nil {
		cd := *s.CityData
		cd.Buildings = cloneSlice(s.CityData.Buildings)
		cd.Jobs = cloneMap(s.CityData.Jobs)
		cd.Resources = cloneMap(s.CityData.Resources)
		out.CityData = &cd
	}
	if s.PendingScene != nil {
		ps := *s.PendingScene
		if s.PendingScene.ChoiceSuccess != nil {
			v := *s.PendingScene.ChoiceSuccess
			ps.ChoiceSuccess = &v
		}
		out.PendingScene = &ps
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
