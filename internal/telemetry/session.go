package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the sliding inactivity window after which a new session id
// is issued.
const SessionTTL = 30 * time.Minute

// sessionFile is the fixed storage key inside the state directory.
const sessionFile = "session.json"

type sessionRecord struct {
	SID     string    `json:"sid"`
	Expires time.Time `json:"expires"`
}

// SessionStore issues a sliding-window session identifier, persisted so
// consecutive invocations within the TTL share one session.
type SessionStore struct {
	path string
	now  func() time.Time
}

// NewSessionStore creates a store rooted at stateDir.
func NewSessionStore(stateDir string) *SessionStore {
	return &SessionStore{path: filepath.Join(stateDir, sessionFile), now: time.Now}
}

// Touch returns the current session id, sliding its expiry. A missing,
// corrupt, or expired record starts a fresh session (isNew = true).
func (s *SessionStore) Touch() (sid string, isNew bool) {
	rec := s.load()
	if rec == nil || s.now().After(rec.Expires) {
		rec = &sessionRecord{SID: uuid.NewString()}
		isNew = true
	}
	rec.Expires = s.now().Add(SessionTTL)
	s.save(rec)
	return rec.SID, isNew
}

func (s *SessionStore) load() *sessionRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.SID == "" {
		return nil
	}
	return &rec
}

func (s *SessionStore) save(rec *sessionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	os.MkdirAll(filepath.Dir(s.path), 0o755)
	// Best effort: session continuity is not worth failing telemetry over.
	os.WriteFile(s.path, data, 0o600)
}
