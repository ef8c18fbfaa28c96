package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// UpgradeSettlement advances the session's settlement one tier.
func (s *Service) UpgradeSettlement(ctx context.Context, playerContextID, sessionID string) (storage.Session, domain.Tier, error) {
	var newTier domain.Tier
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next, tier, err := domain.UpgradeSettlement(session.GameState)
		if err != nil {
			return err
		}
		session.GameState = next
		newTier = tier
		return nil
	})
	if err != nil {
		return storage.Session{}, "", err
	}
	s.emit(ctx, sessionID, "settlement.upgrade", telemetry.SeverityInfo, fmt.Sprintf("settlement is now a %s", newTier))
	return session, newTier, nil
}

// ConstructBuilding builds or levels up a catalog building in the settlement.
func (s *Service) ConstructBuilding(ctx context.Context, playerContextID, sessionID, buildingType string) (storage.Session, error) {
	spec, ok := s.catalog.Building(buildingType)
	if !ok {
		return storage.Session{}, apperrors.Ef(apperrors.CodeUnknownBuilding, "unknown building type %q", buildingType)
	}

	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next, err := domain.ConstructBuilding(session.GameState, spec)
		if err != nil {
			return err
		}
		session.GameState = next
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}
	s.emit(ctx, sessionID, "settlement.construct", telemetry.SeverityInfo, fmt.Sprintf("constructed %s", spec.Name))
	return session, nil
}
