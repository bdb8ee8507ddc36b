// Package consent persists the analytics opt-in decision.
//
// The record gates all telemetry: nothing is ever sent unless the user has
// affirmatively opted in. Missing or corrupt state reads as opted out.
package consent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the fixed storage key inside the state directory.
const FileName = "consent.json"

type record struct {
	Analytics bool `json:"analytics"`
}

// Store reads and writes the consent record under a state directory.
type Store struct {
	path string

	mu      sync.Mutex
	loaded  bool
	current bool
}

// NewStore creates a store rooted at stateDir.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, FileName)}
}

// HasConsent reports whether analytics consent has been recorded. It fails
// closed: absent files, unreadable files, and malformed JSON all read as
// false.
func (s *Store) HasConsent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current
	}
	s.loaded = true
	s.current = false

	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return false
	}
	s.current = r.Analytics
	return s.current
}

// SetConsent persists the decision and flips the in-memory gate
// synchronously, so a decline stops future events immediately.
func (s *Store) SetConsent(granted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(record{Analytics: granted})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.loaded = true
	s.current = granted
	return nil
}

// Recorded reports whether any decision (accept or decline) exists on disk.
// When absent, the consent prompt has never been answered.
func (s *Store) Recorded() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
