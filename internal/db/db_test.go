package db

import (
	"path/filepath"
	"testing"

	"github.com/mialhq/recapctl/internal/types"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestReplaceProfilesRoundTrip(t *testing.T) {
	d := openTest(t)

	in := []*types.RecapProfile{
		{ID: "1", EmailAccountID: "7", Recipient: "a@b.test", SendTime: "08:00:00", Status: "active", AudioEnabled: true},
		{ID: "2", EmailAccountID: "7", Recipient: "c@d.test", SendTime: "18:00:00", Status: "inactive"},
	}
	if err := d.ReplaceProfiles(in); err != nil {
		t.Fatalf("replace: %v", err)
	}

	out, err := d.Profiles()
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(out))
	}
	if out[0].Recipient != "a@b.test" || !out[0].AudioEnabled {
		t.Fatalf("unexpected profile: %+v", out[0])
	}

	counts, err := d.ProfileCountByStatus()
	if err != nil {
		t.Fatal(err)
	}
	if counts["active"] != 1 || counts["inactive"] != 1 {
		t.Fatalf("counts = %v", counts)
	}

	// A second replace fully swaps the collection.
	if err := d.ReplaceProfiles(in[:1]); err != nil {
		t.Fatal(err)
	}
	if n := d.ProfileCount(); n != 1 {
		t.Fatalf("count after swap = %d", n)
	}
	if d.LatestFetchedAt("profiles") == "" {
		t.Fatal("fetched_at missing")
	}
}

func TestMailboxRoundTrip(t *testing.T) {
	d := openTest(t)

	in := []*types.Mailbox{
		{ID: "m2", Email: "zz@test", Provider: "gmail", Status: "connected"},
		{ID: "m1", Email: "aa@test"},
	}
	if err := d.ReplaceMailboxes(in); err != nil {
		t.Fatal(err)
	}

	out, err := d.Mailboxes()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Email != "aa@test" {
		t.Fatalf("unexpected order: %+v", out)
	}
	if d.MailboxCount() != 2 {
		t.Fatalf("count = %d", d.MailboxCount())
	}
}

func TestLeadRoundTrip(t *testing.T) {
	d := openTest(t)

	in := []*types.Lead{
		{ID: "l1", Email: "old@test", CreatedAt: "2026-01-01T00:00:00Z"},
		{ID: "l2", Email: "new@test", CreatedAt: "2026-06-01T00:00:00Z", Message: "hello"},
	}
	if err := d.ReplaceLeads(in); err != nil {
		t.Fatal(err)
	}

	out, err := d.Leads()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Email != "new@test" {
		t.Fatalf("expected newest first: %+v", out)
	}
	if out[0].Message != "hello" {
		t.Fatalf("unexpected lead: %+v", out[0])
	}
	if d.LeadCount() != 2 {
		t.Fatalf("count = %d", d.LeadCount())
	}
}
