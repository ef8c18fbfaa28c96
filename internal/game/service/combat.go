package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// StartCombat enters combat against the given roster. An empty roster falls
// back to the catalog's default enemies, so combat can always begin even when
// the narrative collaborator supplies nothing.
func (s *Service) StartCombat(ctx context.Context, playerContextID, sessionID string, enemies []domain.Enemy) (storage.Session, error) {
	if len(enemies) == 0 {
		enemies = s.catalog.FallbackEnemies
	}

	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next, err := domain.StartCombat(session.GameState, enemies)
		if err != nil {
			return err
		}
		session.GameState = next
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}
	s.emit(ctx, sessionID, "combat.start", telemetry.SeverityInfo, fmt.Sprintf("combat against %d enemies", len(enemies)))
	return session, nil
}

// ResolveCombatRound resolves one combat round for the player's action.
func (s *Service) ResolveCombatRound(ctx context.Context, playerContextID, sessionID string, action domain.CombatAction, targetIndex int) (storage.Session, domain.RoundResult, error) {
	rng, err := s.newRand()
	if err != nil {
		return storage.Session{}, domain.RoundResult{}, apperrors.Wrap(apperrors.CodeInternal, "initialize random source", err)
	}

	var result domain.RoundResult
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next, roundResult, err := domain.ResolveRound(session.GameState, action, targetIndex, rng)
		if err != nil {
			return err
		}
		session.GameState = next
		result = roundResult
		return nil
	})
	if err != nil {
		return storage.Session{}, domain.RoundResult{}, err
	}

	severity := telemetry.SeverityInfo
	message := "round resolved"
	if result.CombatEnded {
		if result.Victory {
			message = fmt.Sprintf("victory, %d gold earned", result.Reward)
		} else {
			severity = telemetry.SeverityWarn
			message = "player defeated"
		}
	}
	s.emit(ctx, sessionID, "combat.round", severity, message)
	return session, result, nil
}
