// Package service implements the game session operations over the domain
// transitions and the session store.
//
// Every mutation loads the session, computes a full new state through a pure
// domain function, and persists it only on success, so a failed operation
// leaves the stored session untouched.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/kingdoms-of-fate/internal/catalog"
	apperrors "github.com/louisbranch/kingdoms-of-fate/internal/errors"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/narrative"
	"github.com/louisbranch/kingdoms-of-fate/internal/platform/id"
	"github.com/louisbranch/kingdoms-of-fate/internal/random"
	"github.com/louisbranch/kingdoms-of-fate/internal/telemetry"
)

// Service coordinates game session operations.
type Service struct {
	sessions        storage.SessionStore
	telemetry       *telemetry.Emitter
	telemetryReader storage.TelemetryStore
	generator       narrative.Generator
	catalog         *catalog.Catalog

	clock   func() time.Time
	idGen   func() (string, error)
	newRand func() (domain.Rand, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator overrides record ID generation.
func WithIDGenerator(idGen func() (string, error)) Option {
	return func(s *Service) { s.idGen = idGen }
}

// WithRand overrides the per-invocation random source.
func WithRand(newRand func() (domain.Rand, error)) Option {
	return func(s *Service) { s.newRand = newRand }
}

// WithGenerator sets the narrative scene generator. Without one, every scene
// completes with the deterministic fallback.
func WithGenerator(generator narrative.Generator) Option {
	return func(s *Service) { s.generator = generator }
}

// WithTelemetryReader enables session telemetry queries.
func WithTelemetryReader(store storage.TelemetryStore) Option {
	return func(s *Service) { s.telemetryReader = store }
}

// New creates a Service over the given stores and catalog.
func New(sessions storage.SessionStore, emitter *telemetry.Emitter, content *catalog.Catalog, opts ...Option) (*Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if content == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	s := &Service{
		sessions:  sessions,
		telemetry: emitter,
		catalog:   content,
		clock:     time.Now,
		idGen:     id.NewID,
		newRand:   newSeededRand,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newSeededRand builds a math/rand source seeded from crypto/rand, so no
// mutable RNG state is shared across sessions or invocations.
func newSeededRand() (domain.Rand, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("seed random source: %w", err)
	}
	return rand.New(rand.NewSource(seed)), nil
}

// StartGame deactivates any prior session for the player context and creates
// a fresh active session for the chosen race.
func (s *Service) StartGame(ctx context.Context, playerContextID, raceName string) (storage.Session, error) {
	if strings.TrimSpace(playerContextID) == "" {
		return storage.Session{}, apperrors.E(apperrors.CodeInvalidArgument, "player context id is required")
	}
	race, ok := s.catalog.Race(raceName)
	if !ok {
		return storage.Session{}, apperrors.Ef(apperrors.CodeNotFound, "race %q not found", raceName)
	}

	rng, err := s.newRand()
	if err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "initialize random source", err)
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
		GameState:       domain.NewGame(race, rng),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.sessions.PutSession(ctx, session); err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "persist session", err)
	}

	s.emit(ctx, session.ID, "game.start", telemetry.SeverityInfo,
		fmt.Sprintf("new %s game in %s", race.Name, session.GameState.Story.KingdomName))
	return session, nil
}

// GetSession fetches a session owned by the player context.
func (s *Service) GetSession(ctx context.Context, playerContextID, sessionID string) (storage.Session, error) {
	return s.loadOwned(ctx, playerContextID, sessionID)
}

// GetActiveSession fetches the player context's active session.
func (s *Service) GetActiveSession(ctx context.Context, playerContextID string) (storage.Session, error) {
	session, err := s.sessions.GetActiveSession(ctx, playerContextID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Session{}, apperrors.E(apperrors.CodeNotFound, "no active session")
		}
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "load active session", err)
	}
	return session, nil
}

// AbandonGame deactivates the player context's active session. The session
// record survives for save export and later inspection.
func (s *Service) AbandonGame(ctx context.Context, playerContextID string) error {
	session, err := s.GetActiveSession(ctx, playerContextID)
	if err != nil {
		return err
	}
	if err := s.sessions.DeactivateSessions(ctx, playerContextID); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "deactivate session", err)
	}
	s.emit(ctx, session.ID, "game.abandon", telemetry.SeverityInfo, "session deactivated")
	return nil
}

// ListRaces returns the playable race catalog.
func (s *Service) ListRaces() []domain.RaceSpec {
	return s.catalog.Races
}

// SessionTelemetry lists recent telemetry events for an owned session.
func (s *Service) SessionTelemetry(ctx context.Context, playerContextID, sessionID string, limit int) ([]storage.TelemetryEvent, error) {
	if s.telemetryReader == nil {
		return nil, apperrors.E(apperrors.CodeInvalidState, "telemetry is not configured")
	}
	if _, err := s.loadOwned(ctx, playerContextID, sessionID); err != nil {
		return nil, err
	}
	events, err := s.telemetryReader.ListTelemetryEvents(ctx, sessionID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "list telemetry events", err)
	}
	return events, nil
}

// loadOwned fetches a session and verifies ownership. Foreign sessions read
// as missing so session IDs cannot be probed.
func (s *Service) loadOwned(ctx context.Context, playerContextID, sessionID string) (storage.Session, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Session{}, apperrors.Ef(apperrors.CodeNotFound, "session %s not found", sessionID)
		}
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "load session", err)
	}
	if session.PlayerContextID != playerContextID {
		return storage.Session{}, apperrors.Ef(apperrors.CodeNotFound, "session %s not found", sessionID)
	}
	return session, nil
}

// update applies fn to an owned session and persists the result when fn
// succeeds.
func (s *Service) update(ctx context.Context, playerContextID, sessionID string, fn func(*storage.Session) error) (storage.Session, error) {
	session, err := s.loadOwned(ctx, playerContextID, sessionID)
	if err != nil {
		return storage.Session{}, err
	}
	if err := fn(&session); err != nil {
		return storage.Session{}, err
	}
	session.UpdatedAt = s.clock().UTC()
	if err := s.sessions.PutSession(ctx, session); err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeInternal, "persist session", err)
	}
	return session, nil
}

// emit records telemetry on a best-effort basis.
func (s *Service) emit(ctx context.Context, sessionID, operation string, severity telemetry.Severity, message string) {
	_ = s.telemetry.Emit(ctx, sessionID, operation, severity, message)
}
