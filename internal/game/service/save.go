package service

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// SaveVersion is the save document format version.
const SaveVersion = "1.0"

// SaveDocument is a portable snapshot of a session's game state.
type SaveDocument struct {
	GameState domain.GameState `json:"gameState"`
	Timestamp int64            `json:"timestamp"`
	Version   string           `json:"version"`
}

// ExportSave snapshots the player context's active session.
func (s *Service) ExportSave(ctx context.Context, playerContextID string) (SaveDocument, error) {
	session, err := s.GetActiveSession(ctx, playerContextID)
	if err != nil {
		return SaveDocument{}, err
	}

	s.emit(ctx, session.ID, "save.export", telemetry.SeverityInfo, "save exported")
	return SaveDocument{
		GameState: session.GameState.Clone(),
		Timestamp: s.clock().UTC().UnixMilli(),
		Version:   SaveVersion,
	}, nil
}

// ImportSave deactivates any prior session and creates a new active session
// from the save document. Export then import round-trips the game state
// unchanged.
func (s *Service) ImportSave(ctx context.Context, playerContextID string, doc SaveDocument) (storage.Session, error) {
	if strings.TrimSpace(playerContextID) == "" {
		return storage.Session{}, apperrors.E(apperrors.CodeInvalidArgument, "player context id is required")
	}
	if doc.Version != SaveVersion {
		return storage.Session{}, apperrors.Ef(apperrors.CodeInvalidArgument, "unsupported save version %q", doc.Version)
	}

	sessionID, err := s.idGen()
	if err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "generate session id", err)
	}
	if err := s.sessions.DeactivateSessions(ctx, playerContextID); err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "deactivate prior sessions", err)
	}

	now := s.clock().UTC()
	session := storage.Session{
		ID:              sessionID,
		PlayerContextID: playerContextID,
		Active:          true,
		GameState:       doc.GameState.Clone(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.PutSession(ctx, session); err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "persist session", err)
	}

	s.emit(ctx, session.ID, "save.import", telemetry.SeverityInfo, "save imported")
	return session, nil
}
