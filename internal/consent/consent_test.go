package consent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasConsentFailsClosed(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	if s.HasConsent() {
		t.Fatal("missing record should read as no consent")
	}
	if s.Recorded() {
		t.Fatal("missing record should not count as recorded")
	}

	// Malformed JSON on disk also reads as no consent.
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s = NewStore(dir)
	if s.HasConsent() {
		t.Fatal("malformed record should read as no consent")
	}
	if !s.Recorded() {
		t.Fatal("a file on disk counts as recorded, even malformed")
	}
}

func TestSetConsentRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	if err := s.SetConsent(true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !s.HasConsent() {
		t.Fatal("accept should flip the gate immediately")
	}

	// A fresh store reads the persisted decision.
	if !NewStore(dir).HasConsent() {
		t.Fatal("accept should survive a restart")
	}

	if err := s.SetConsent(false); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if s.HasConsent() {
		t.Fatal("decline should flip the gate immediately")
	}
	if NewStore(dir).HasConsent() {
		t.Fatal("decline should survive a restart")
	}
}
