// Package storage defines the persistence interfaces for the game engine.
//
// Sessions are stored as JSON documents keyed by ID, with a secondary index
// tracking the single active session per player context. Telemetry events
// land in a separate append-only store. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Session is a persisted play session document.
type Session struct {
	ID              string           `json:"id"`
	PlayerContextID string           `json:"playerContextId"`
	Active          bool             `json:"active"`
	GameState       domain.GameState `json:"gameState"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// SessionStore persists play sessions.
//
// At most one session per player context is active at a time; PutSession of
// an active session must atomically replace the active index entry.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	GetActiveSession(ctx context.Context, playerContextID string) (Session, error)
	DeactivateSessions(ctx context.Context, playerContextID string) error
}

// TelemetryEvent is one operational telemetry record.
type TelemetryEvent struct {
	ID        string
	SessionID string
	Operation string
	Severity  string
	Message   string
	Timestamp time.Time
}

// TelemetryStore persists operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, event TelemetryEvent) error
	ListTelemetryEvents(ctx context.Context, sessionID string, limit int) ([]TelemetryEvent, error)
}
