package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// EquipItem toggles the equipped state of the inventory item at index.
func (s *Service) EquipItem(ctx context.Context, playerContextID, sessionID string, index int) (storage.Session, bool, error) {
	var equipped bool
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		inventory, nowEquipped, err := domain.Equip(session.GameState.Inventory, index)
		if err != nil {
			return err
		}
		session.GameState.Inventory = inventory
		equipped = nowEquipped
		return nil
	})
	if err != nil {
		return storage.Session{}, false, err
	}
	s.emit(ctx, sessionID, "inventory.equip", telemetry.SeverityInfo, fmt.Sprintf("item %d equipped=%t", index, equipped))
	return session, equipped, nil
}

// UseItem consumes the inventory item at index and applies its effect.
func (s *Service) UseItem(ctx context.Context, playerContextID, sessionID string, index int) (storage.Session, string, error) {
	var message string
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		inventory, stats, msg, err := domain.UseItem(session.GameState.Inventory, index, session.GameState.Stats)
		if err != nil {
			return err
		}
		session.GameState.Inventory = inventory
		session.GameState.Stats = stats
		message = msg
		return nil
	})
	if err != nil {
		return storage.Session{}, "", err
	}
	s.emit(ctx, sessionID, "inventory.use", telemetry.SeverityInfo, message)
	return session, message, nil
}
