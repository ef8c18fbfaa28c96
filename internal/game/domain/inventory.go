package domain

import (
	"fmt"

	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

// ItemType classifies inventory items. Equip slots are exclusive per type;
// consumables are never equipped.
type ItemType string

const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeEquipment  ItemType = "equipment"
)

// EffectHeal restores health when a consumable is used.
const EffectHeal = "heal"

// StatBonus is a passive stat adjustment granted by an item.
type StatBonus struct {
	Stat  string `json:"stat"`
	Value int    `json:"value"`
}

// ItemEffect is an active effect applied when a consumable is used.
type ItemEffect struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// InventoryItem is one entry in the session's ordered inventory.
type InventoryItem struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        ItemType    `json:"type"`
	Equipped    bool        `json:"equipped,omitempty"`
	StatBonus   *StatBonus  `json:"statBonus,omitempty"`
	Effect      *ItemEffect `json:"effect,omitempty"`
}

// Equip toggles the equipped flag on the item at index. When the item becomes
// equipped, every other item of the same type is force-unequipped so at most
// one item per slot type stays active.
func Equip(inventory []InventoryItem, index int) ([]InventoryItem, bool, error) {
	if index < 0 || index >= len(inventory) {
		return nil, false, errors.Ef(errors.CodeNotFound, "item %d not found", index)
	}
	item := inventory[index]
	if item.Type == ItemTypeConsumable {
		return nil, false, errors.E(errors.CodeInvalidOperation, "cannot equip consumable items")
	}

	updated := make([]InventoryItem, len(inventory))
	copy(updated, inventory)
	for i := range updated {
		if i == index {
			updated[i].Equipped = !updated[i].Equipped
			continue
		}
		if updated[i].Type == item.Type {
			updated[i].Equipped = false
		}
	}
	return updated, updated[index].Equipped, nil
}

// UseItem applies the consumable at index to stats and removes it from the
// inventory, preserving the order of the remaining items.
func UseItem(inventory []InventoryItem, index int, stats Stats) ([]InventoryItem, Stats, string, error) {
	if index < 0 || index >= len(inventory) {
		return nil, Stats{}, "", errors.Ef(errors.CodeNotFound, "item %d not found", index)
	}
	item := inventory[index]
	if item.Type != ItemTypeConsumable {
		return nil, Stats{}, "", errors.E(errors.CodeInvalidOperation, "item is not consumable")
	}
	if item.Effect == nil {
		return nil, Stats{}, "", errors.E(errors.CodeInvalidOperation, "item has no effect")
	}

	var message string
	switch item.Effect.Type {
	case EffectHeal:
		healAmount := min(item.Effect.Value, stats.MaxHealth-stats.Health)
		stats.Health += healAmount
		message = fmt.Sprintf("Restored %d health", healAmount)
	default:
		message = fmt.Sprintf("Used %s", item.Name)
	}

	updated := make([]InventoryItem, 0, len(inventory)-1)
	updated = append(updated, inventory[:index]...)
	updated = append(updated, inventory[index+1:]...)
	return updated, stats, message, nil
}
