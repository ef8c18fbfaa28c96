package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// DiceOutcome is the result of a roll that gated a choice.
type DiceOutcome struct {
	Roll    int  `json:"roll"`
	Total   int  `json:"total"`
	Success bool `json:"success"`
}

// ChoiceResult reports what a resolved choice did to the session.
type ChoiceResult struct {
	ChoiceText     string          `json:"choiceText"`
	Effects        []domain.Effect `json:"effects"`
	SceneRequestID string          `json:"sceneRequestId"`
}

// MakeChoice resolves the scene choice at choiceIndex. When a dice outcome
// is supplied, the choice's effect table applies for its success or failure
// branch. The next scene is requested through the two-phase protocol; the
// returned request ID completes it.
func (s *Service) MakeChoice(ctx context.Context, playerContextID, sessionID string, choiceIndex int, outcome *DiceOutcome) (storage.Session, ChoiceResult, error) {
	requestID, err := s.idGen()
	if err != nil {
		return storage.Session{}, ChoiceResult{}, apperrors.Wrap(apperrors.CodeInternal, "generate request id", err)
	}

	var result ChoiceResult
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		choices := session.GameState.Story.Choices
		if choiceIndex < 0 || choiceIndex >= len(choices) {
			return apperrors.Ef(apperrors.CodeNotFound, "choice %d not found", choiceIndex)
		}
		choice := choices[choiceIndex]
		result.ChoiceText = choice.Text

		next := session.GameState
		var choiceSuccess *bool
		if outcome != nil {
			success := outcome.Success
			choiceSuccess = &success
			result.Effects = domain.EffectsForChoice(choice.Text, success)
			next = domain.ApplyChoiceEffects(next, result.Effects)
		}

		next = next.Clone()
		next.PendingScene = &domain.PendingScene{
			RequestID:     requestID,
			PlayerChoice:  choice.Text,
			ChoiceSuccess: choiceSuccess,
		}
		session.GameState = next
		result.SceneRequestID = requestID
		return nil
	})
	if err != nil {
		return storage.Session{}, ChoiceResult{}, err
	}

	s.emit(ctx, sessionID, "choice.make", telemetry.SeverityInfo,
		fmt.Sprintf("chose %q", result.ChoiceText))
	return session, result, nil
}
