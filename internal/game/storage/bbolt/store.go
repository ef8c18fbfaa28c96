// Package bbolt provides a BoltDB-backed session store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/louisbranch/kingdoms-of-fate/internal/game/storage"
)

const (
	sessionBucket     = "session"
	activeIndexBucket = "active_index"
)

// Store provides a BoltDB-backed session store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutSession persists a session record. When the session is active, the
// active index entry for its player context moves to it in the same
// transaction.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.PlayerContextID) == "" {
		return fmt.Errorf("player context id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket([]byte(sessionBucket))
		if sessions == nil {
			return fmt.Errorf("session bucket is missing")
		}
		if err := sessions.Put([]byte(session.ID), payload); err != nil {
			return err
		}

		index := tx.Bucket([]byte(activeIndexBucket))
		if index == nil {
			return fmt.Errorf("active index bucket is missing")
		}
		indexKey := []byte(session.PlayerContextID)
		if session.Active {
			return index.Put(indexKey, []byte(session.ID))
		}
		if string(index.Get(indexKey)) == session.ID {
			return index.Delete(indexKey)
		}
		return nil
	})
}

// GetSession fetches a session record by ID.
func (s *Store) GetSession(ctx context.Context, id string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if s == nil || s.db == nil {
		return storage.Session{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	var session storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		sessions := tx.Bucket([]byte(sessionBucket))
		if sessions == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := sessions.Get([]byte(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}
	return session, nil
}

// GetActiveSession fetches the active session for a player context.
func (s *Store) GetActiveSession(ctx context.Context, playerContextID string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if s == nil || s.db == nil {
		return storage.Session{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(playerContextID) == "" {
		return storage.Session{}, fmt.Errorf("player context id is required")
	}

	var session storage.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		index := tx.Bucket([]byte(activeIndexBucket))
		if index == nil {
			return fmt.Errorf("active index bucket is missing")
		}
		sessionID := index.Get([]byte(playerContextID))
		if sessionID == nil {
			return storage.ErrNotFound
		}

		sessions := tx.Bucket([]byte(sessionBucket))
		if sessions == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := sessions.Get(sessionID)
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if !session.Active {
			return storage.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return storage.Session{}, err
	}
	return session, nil
}

// DeactivateSessions marks the active session for a player context inactive
// and clears the index entry. It is a no-op when no session is active.
func (s *Store) DeactivateSessions(ctx context.Context, playerContextID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(playerContextID) == "" {
		return fmt.Errorf("player context id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket([]byte(activeIndexBucket))
		if index == nil {
			return fmt.Errorf("active index bucket is missing")
		}
		indexKey := []byte(playerContextID)
		sessionID := index.Get(indexKey)
		if sessionID == nil {
			return nil
		}

		sessions := tx.Bucket([]byte(sessionBucket))
		if sessions == nil {
			return fmt.Errorf("session bucket is missing")
		}
		payload := sessions.Get(sessionID)
		if payload != nil {
			var session storage.Session
			if err := json.Unmarshal(payload, &session); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
			session.Active = false
			updated, err := json.Marshal(session)
			if err != nil {
				return fmt.Errorf("marshal session: %w", err)
			}
			if err := sessions.Put(sessionID, updated); err != nil {
				return err
			}
		}
		return index.Delete(indexKey)
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{sessionBucket, activeIndexBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
