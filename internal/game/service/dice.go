package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/kingdoms-of-fate/internal/catalog"
	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// RollDice rolls a die for the session. Rolls never mutate game state; the
// caller feeds the outcome into MakeChoice when the roll gated a choice.
func (s *Service) RollDice(ctx context.Context, playerContextID, sessionID, diceType string, modifier, targetNumber int) (domain.DiceRoll, error) {
	if _, err := s.loadOwned(ctx, playerContextID, sessionID); err != nil {
		return domain.DiceRoll{}, err
	}

	rng, err := s.newRand()
	if err != nil {
		return domain.DiceRoll{}, apperrors.Wrap(apperrors.CodeInternal, "initialize random source", err)
	}
	roll, err := domain.Roll(diceType, modifier, targetNumber, rng)
	if err != nil {
		return domain.DiceRoll{}, err
	}

	s.emit(ctx, sessionID, "dice.roll", telemetry.SeverityInfo,
		fmt.Sprintf("%s rolled %d (total %d)", diceType, roll.Roll, roll.Total))
	return roll, nil
}

// CheckForChoice derives the dice check a choice triggers from the session's
// current stats.
func (s *Service) CheckForChoice(ctx context.Context, playerContextID, sessionID, choiceText string) (domain.DiceCheck, int, error) {
	session, err := s.loadOwned(ctx, playerContextID, sessionID)
	if err != nil {
		return domain.DiceCheck{}, 0, err
	}
	check, modifier := domain.CheckForChoice(choiceText, session.GameState.Stats)
	return check, modifier, nil
}

// RandomEvent picks one random event from the catalog table uniformly.
func (s *Service) RandomEvent(ctx context.Context, playerContextID, sessionID string) (catalog.Event, error) {
	if _, err := s.loadOwned(ctx, playerContextID, sessionID); err != nil {
		return catalog.Event{}, err
	}
	rng, err := s.newRand()
	if err != nil {
		return catalog.Event{}, apperrors.Wrap(apperrors.CodeInternal, "initialize random source", err)
	}
	event := s.catalog.Events[rng.Intn(len(s.catalog.Events))]
	s.emit(ctx, sessionID, "event.random", telemetry.SeverityInfo, event.Description)
	return event, nil
}
