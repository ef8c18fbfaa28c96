package service

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/narrative"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// SceneRequest is a pending narrative generation request.
type SceneRequest struct {
	RequestID string `json:"requestId"`
	Prompt    string `json:"prompt"`
}

// RequestScene marks a scene generation request on the session and returns
// the prompt to generate from. A new request replaces any pending one, so a
// stalled collaborator never wedges the session.
func (s *Service) RequestScene(ctx context.Context, playerContextID, sessionID, playerChoice string, choiceSuccess *bool) (storage.Session, SceneRequest, error) {
	requestID, err := s.idGen()
	if err != nil {
		return storage.Session{}, SceneRequest{}, apperrors.Wrap(apperrors.CodeInternal, "generate request id", err)
	}

	var request SceneRequest
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		next := session.GameState.Clone()
		next.PendingScene = &domain.PendingScene{
			RequestID:     requestID,
			PlayerChoice:  playerChoice,
			ChoiceSuccess: choiceSuccess,
		}
		session.GameState = next

		request = SceneRequest{
			RequestID: requestID,
			Prompt:    narrative.BuildPrompt(sceneRequestFor(*session)),
		}
		return nil
	})
	if err != nil {
		return storage.Session{}, SceneRequest{}, err
	}

	s.emit(ctx, sessionID, "scene.request", telemetry.SeverityInfo, "scene generation requested")
	return session, request, nil
}

// CompleteScene applies generated content to the pending scene request. An
// empty scene resolves through the configured generator and degrades to the
// deterministic fallback, so completion always succeeds once a request is
// pending.
func (s *Service) CompleteScene(ctx context.Context, playerContextID, sessionID, requestID string, scene narrative.Scene) (storage.Session, error) {
	generated := false
	session, err := s.update(ctx, playerContextID, sessionID, func(session *storage.Session) error {
		pending := session.GameState.PendingScene
		if pending == nil {
			return apperrors.E(apperrors.CodeInvalidState, "no scene request is pending")
		}
		if pending.RequestID != requestID {
			return apperrors.Ef(apperrors.CodeNotFound, "scene request %s not found", requestID)
		}

		if scene.Text == "" {
			scene = s.generateScene(ctx, *session, pending)
			generated = true
		}

		next := session.GameState.Clone()
		if pending.PlayerChoice != "" {
			outcome := "Success"
			if pending.ChoiceSuccess != nil && !*pending.ChoiceSuccess {
				outcome = "Failure"
			}
			next.Story.History = append(next.Story.History,
				fmt.Sprintf("Choice: %s (%s)", pending.PlayerChoice, outcome), scene.Text)
		} else {
			next.Story.History = []string{scene.Text}
		}
		next.Story.CurrentScene = scene.Text
		next.Story.Choices = cloneChoices(scene.Choices)
		next.PendingScene = nil
		session.GameState = next
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}

	message := "scene applied"
	if generated {
		message = "scene generated server-side"
	}
	s.emit(ctx, sessionID, "scene.complete", telemetry.SeverityInfo, message)
	return session, nil
}

// generateScene produces scene content for a pending request. Collaborator
// failures never surface; the deterministic fallback covers them.
func (s *Service) generateScene(ctx context.Context, session storage.Session, pending *domain.PendingScene) narrative.Scene {
	req := sceneRequestFor(session)
	if s.generator != nil {
		scene, err := s.generator.GenerateScene(ctx, req)
		if err == nil {
			return scene
		}
		s.emit(ctx, session.ID, "scene.generate", telemetry.SeverityWarn,
			fmt.Sprintf("generation failed, using fallback: %v", err))
	}
	return narrative.FallbackScene(req)
}

// sceneRequestFor assembles the narrative context from a session, including
// its pending choice outcome when present.
func sceneRequestFor(session storage.Session) narrative.Request {
	state := session.GameState
	req := narrative.Request{
		PlayerName: state.PlayerName,
		Race:       state.Race,
		Story:      state.Story,
		Stats:      state.Stats,
	}
	if state.PendingScene != nil {
		req.PlayerChoice = state.PendingScene.PlayerChoice
		req.ChoiceSuccess = state.PendingScene.ChoiceSuccess
	}
	return req
}

func cloneChoices(choices []domain.Choice) []domain.Choice {
	out := make([]domain.Choice, len(choices))
	copy(out, choices)
	return out
}
