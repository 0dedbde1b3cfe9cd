package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

var bucketState = []byte("state")

// Keys within the state bucket.
const (
	keyAccumulator = "accumulator"
	keySession     = "session_id"
	keyEvaluation  = "evaluation_id"
)

// Store persists the small pieces of UI state that should survive restarts:
// the frame accumulator collected from the player widget, the submission
// session token, and the selected evaluation id.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) get(key string) (string, error) {
	var out string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketState).Get([]byte(key)); v != nil {
			out = string(v)
		}
		return nil
	})
	return out, err
}

func (s *Store) put(key, val string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), []byte(val))
	})
}

// Accumulator returns the comma-joined frame list collected so far.
func (s *Store) Accumulator() (string, error) { return s.get(keyAccumulator) }

// AppendFrame adds one frame number to the accumulator. Any trailing comma
// is trimmed before appending, so the value stays well-formed regardless of
// what a previous run left behind.
func (s *Store) AppendFrame(frame int) (string, error) {
	var next string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketState)
		cur := strings.TrimSpace(string(b.Get([]byte(keyAccumulator))))
		cur = strings.TrimSuffix(cur, ",")
		next = strconv.Itoa(frame)
		if cur != "" {
			next = cur + "," + next
		}
		return b.Put([]byte(keyAccumulator), []byte(next))
	})
	if err != nil {
		return "", fmt.Errorf("append frame: %w", err)
	}
	return next, nil
}

// ResetAccumulator clears the collected frame list.
func (s *Store) ResetAccumulator() error { return s.put(keyAccumulator, "") }

// SessionID returns the persisted submission session token, if any.
func (s *Store) SessionID() (string, error) { return s.get(keySession) }

// SetSessionID persists the submission session token.
func (s *Store) SetSessionID(id string) error { return s.put(keySession, id) }

// EvaluationID returns the persisted evaluation selection, if any.
func (s *Store) EvaluationID() (string, error) { return s.get(keyEvaluation) }

// SetEvaluationID persists the evaluation selection.
func (s *Store) SetEvaluationID(id string) error { return s.put(keyEvaluation, id) }
