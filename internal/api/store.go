package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/msl-itech/MSL-Conseil-sub002/internal/services"
)

// MemoryStore is the default KeyValueStore. With a snapshot path every write
// is mirrored to a JSON file so results survive restarts without SQLite.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	path    string
}

var _ services.KeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

// NewMemoryStoreFromPath loads the snapshot at path; a missing file yields an
// empty store that will create it on first write.
func NewMemoryStoreFromPath(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.path = path
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.entries == nil {
		s.entries = map[string]string{}
	}
	return s, nil
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return s.persistLocked()
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.persistLocked()
}

// Snapshot copies every entry.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) persistLocked() error {
	if s.path == "" {
		return nil
	}
	b, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("memory store: persist snapshot: %v", err)
		return err
	}
	return nil
}
