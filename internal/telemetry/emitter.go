// Package telemetry records operational events for game sessions.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
	"github.com/louisbranch/kingdoms-of-fate/internal/platform/id"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
	idGen func() (string, error)
}

// NewEmitter creates a new telemetry emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now, idGen: id.NewID}
}

// Emit records a telemetry event for a session. It is a no-op when the
// store is nil, so callers never guard telemetry.
func (e *Emitter) Emit(ctx context.Context, sessionID, operation string, severity Severity, message string) error {
	if e == nil || e.store == nil {
		return nil
	}
	eventID, err := e.generateID()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	event := storage.TelemetryEvent{
		ID:        eventID,
		SessionID: sessionID,
		Operation: operation,
		Severity:  string(severity),
		Message:   message,
		Timestamp: e.now(),
	}
	return e.store.AppendTelemetryEvent(ctx, event)
}

func (e *Emitter) now() time.Time {
	if e.clock == nil {
		return time.Now().UTC()
	}
	return e.clock().UTC()
}

func (e *Emitter) generateID() (string, error) {
	if e.idGen == nil {
		return id.NewID()
	}
	return e.idGen()
}
