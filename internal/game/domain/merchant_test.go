package domain

import (
	"testing"

	"github.com/louisbranch/kingdoms-of-fate/internal/errors"
)

func merchantStock() []MerchantItem {
	return []MerchantItem{
		{Name: "Iron Sword", Price: 50, StatBonus: &StatBonus{Stat: "strength", Value: 2}, Description: "A sturdy iron blade"},
		{Name: "Leather Armor", Price: 40, StatBonus: &StatBonus{Stat: "health", Value: 15}, Description: "Basic protection"},
		{Name: "Health Potion", Price: 20, Effect: &ItemEffect{Type: EffectHeal, Value: 25}, Description: "Restores health"},
	}
}

func TestOpenMerchant(t *testing.T) {
	state := GameState{Currency: 50}
	next := OpenMerchant(state, merchantStock())
	if !next.MerchantAvailable {
		t.Fatal("merchant should be available")
	}
	if len(next.MerchantInventory) != 3 {
		t.Fatalf("stock = %d, want 3", len(next.MerchantInventory))
	}
	if state.MerchantAvailable {
		t.Fatal("input state mutated")
	}
}

func TestPurchaseItemStatBonus(t *testing.T) {
	state := OpenMerchant(GameState{
		Currency: 60,
		Stats:    Stats{Health: 20, MaxHealth: 20, Strength: 5},
	}, merchantStock())

	next, item, err := PurchaseItem(state, 0)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if item.Name != "Iron Sword" {
		t.Fatalf("item = %+v", item)
	}
	if next.Currency != 10 {
		t.Fatalf("currency = %d, want 10", next.Currency)
	}
	if next.Stats.Strength != 7 {
		t.Fatalf("strength = %d, want 7", next.Stats.Strength)
	}
	if len(next.Inventory) != 1 || next.Inventory[0].Type != ItemTypeEquipment {
		t.Fatalf("inventory = %+v", next.Inventory)
	}
	// Stock stays available for further purchases.
	if !next.MerchantAvailable || len(next.MerchantInventory) != 3 {
		t.Fatal("merchant stock should not deplete")
	}
}

func TestPurchaseItemHealthBonusRaisesMaxHealth(t *testing.T) {
	state := OpenMerchant(GameState{
		Currency: 40,
		Stats:    Stats{Health: 12, MaxHealth: 20},
	}, merchantStock())

	next, _, err := PurchaseItem(state, 1)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if next.Stats.MaxHealth != 35 || next.Stats.Health != 27 {
		t.Fatalf("health = %d/%d, want 27/35", next.Stats.Health, next.Stats.MaxHealth)
	}
}

func TestPurchaseItemHealEffectClamped(t *testing.T) {
	state := OpenMerchant(GameState{
		Currency: 20,
		Stats:    Stats{Health: 10, MaxHealth: 20},
	}, merchantStock())

	next, _, err := PurchaseItem(state, 2)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if next.Stats.Health != 20 {
		t.Fatalf("health = %d, want clamped at 20", next.Stats.Health)
	}
}

func TestPurchaseItemInsufficientFunds(t *testing.T) {
	state := OpenMerchant(GameState{Currency: 10}, merchantStock())
	_, _, err := PurchaseItem(state, 0)
	if !errors.IsCode(err, errors.CodeInsufficientFunds) {
		t.Fatalf("err = %v, want INSUFFICIENT_FUNDS", err)
	}
}

func TestPurchaseItemNoMerchant(t *testing.T) {
	_, _, err := PurchaseItem(GameState{Currency: 100}, 0)
	if !errors.IsCode(err, errors.CodeInvalidState) {
		t.Fatalf("err = %v, want INVALID_STATE", err)
	}
}

func TestPurchaseItemBadIndex(t *testing.T) {
	state := OpenMerchant(GameState{Currency: 100}, merchantStock())
	_, _, err := PurchaseItem(state, 9)
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
