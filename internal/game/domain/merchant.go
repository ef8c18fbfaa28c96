package domain

import (
	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

// MerchantItem is one entry in a merchant's stock.
type MerchantItem struct {
	Name        string      `json:"name" yaml:"name"`
	Price       int         `json:"price" yaml:"price"`
	StatBonus   *StatBonus  `json:"statBonus,omitempty" yaml:"statBonus,omitempty"`
	Effect      *ItemEffect `json:"effect,omitempty" yaml:"effect,omitempty"`
	Description string      `json:"description" yaml:"description"`
}

// OpenMerchant stocks a merchant for the session. Purchases stay available
// until the merchant is replaced or the session ends.
func OpenMerchant(state GameState, stock []MerchantItem) GameState {
	next := state.Clone()
	next.MerchantInventory = cloneSlice(stock)
	next.MerchantAvailable = true
	return next
}

// PurchaseItem buys the merchant item at index. Stat bonuses apply
// immediately and permanently; a health bonus raises both max and current
// health. Heal effects apply on purchase, clamped to max health. The bought
// item lands in the inventory with its bonus recorded, and the merchant's
// stock is not depleted.
func PurchaseItem(state GameState, index int) (GameState, MerchantItem, error) {
	if !state.MerchantAvailable || len(state.MerchantInventory) == 0 {
		return GameState{}, MerchantItem{}, errors.E(errors.CodeInvalidState, "no merchant available")
	}
	if index < 0 || index >= len(state.MerchantInventory) {
		return GameState{}, MerchantItem{}, errors.Ef(errors.CodeNotFound, "item %d not found", index)
	}
	item := state.MerchantInventory[index]
	if state.Currency < item.Price {
		return GameState{}, MerchantItem{}, errors.E(errors.CodeInsufficientFunds, "not enough gold")
	}

	next := state.Clone()
	next.Currency -= item.Price

	if item.StatBonus != nil {
		switch item.StatBonus.Stat {
		case StatStrength:
			next.Stats.Strength += item.StatBonus.Value
		case StatIntelligence:
			next.Stats.Intelligence += item.StatBonus.Value
		case StatCharisma:
			next.Stats.Charisma += item.StatBonus.Value
		case StatLuck:
			next.Stats.Luck += item.StatBonus.Value
		case StatHealth:
			next.Stats.MaxHealth += item.StatBonus.Value
			next.Stats.Health += item.StatBonus.Value
		}
	}
	if item.Effect != nil && item.Effect.Type == EffectHeal {
		next.Stats.Health = min(next.Stats.MaxHealth, next.Stats.Health+item.Effect.Value)
	}

	inventoryItem := InventoryItem{
		Name:        item.Name,
		Description: item.Description,
		Type:        ItemTypeEquipment,
	}
	if item.StatBonus != nil {
		bonus := *item.StatBonus
		inventoryItem.StatBonus = &bonus
	}
	next.Inventory = append(next.Inventory, inventoryItem)
	return next, item, nil
}
