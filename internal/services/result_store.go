package services

import (
	"encoding/json"
	"log"
	"strings"
	"time"
)

// KeyValueStore is the storage capability results are persisted in.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// ResultStore persists the last result of a guide under a guide-specific key.
type ResultStore struct {
	kv  KeyValueStore
	now func() time.Time
}

func NewResultStore(kv KeyValueStore) *ResultStore {
	return &ResultStore{kv: kv, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ResultStore) Save(key string, r DiagnosticResult) error {
	if strings.TrimSpace(key) == "" {
		return NewInvalidError("storage key required")
	}
	if r.DateCompleted.IsZero() {
		r.DateCompleted = s.now()
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.kv.Set(key, string(b))
}

// Load returns the stored result or nil when it is missing, unreadable or older
// than freshness. Stale entries are left in place.
func (s *ResultStore) Load(key string, freshness time.Duration) *DiagnosticResult {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		log.Printf("result store: load %s: %v", key, err)
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var r DiagnosticResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		log.Printf("result store: discard malformed entry %s: %v", key, err)
		return nil
	}
	if r.MaxScore <= 0 || r.Level == "" || r.DateCompleted.IsZero() {
		return nil
	}
	if freshness > 0 && s.now().Sub(r.DateCompleted) > freshness {
		return nil
	}
	return &r
}

func (s *ResultStore) Clear(key string) error {
	return s.kv.Delete(key)
}
