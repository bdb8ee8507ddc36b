package admintree

import (
	"context"
	"testing"

	"github.com/mialhq/recapctl/internal/types"
)

// fakeAdmin serves a small fixed hierarchy and counts fetches per parent.
type fakeAdmin struct {
	users    []*types.User
	boxes    map[types.FlexID][]*types.Mailbox
	profiles map[types.FlexID][]*types.RecapProfile

	mailboxFetches map[types.FlexID]int
	profileFetches map[types.FlexID]int
	deletedUsers   []types.FlexID
	deletedBoxes   []types.FlexID
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{
		users: []*types.User{
			{ID: "u1", Email: "one@test", MailboxCount: 5},
			{ID: "u2", Email: "two@test"},
		},
		boxes: map[types.FlexID][]*types.Mailbox{
			"u1": {{ID: "m1", Email: "box1@test"}, {ID: "m2", Email: "box2@test"}},
			"u2": {},
		},
		profiles: map[types.FlexID][]*types.RecapProfile{
			"m1": {{ID: "p1", Recipient: "dest@test"}},
		},
		mailboxFetches: make(map[types.FlexID]int),
		profileFetches: make(map[types.FlexID]int),
	}
}

func (f *fakeAdmin) Users(ctx context.Context) ([]*types.User, error) { return f.users, nil }

func (f *fakeAdmin) UserMailboxes(ctx context.Context, userID types.FlexID) ([]*types.Mailbox, error) {
	f.mailboxFetches[userID]++
	return f.boxes[userID], nil
}

func (f *fakeAdmin) MailboxProfiles(ctx context.Context, mailboxID types.FlexID) ([]*types.RecapProfile, error) {
	f.profileFetches[mailboxID]++
	return f.profiles[mailboxID], nil
}

func (f *fakeAdmin) DeleteUser(ctx context.Context, id types.FlexID) error {
	f.deletedUsers = append(f.deletedUsers, id)
	return nil
}

func (f *fakeAdmin) DeleteMailbox(ctx context.Context, id types.FlexID) error {
	f.deletedBoxes = append(f.deletedBoxes, id)
	return nil
}

func (f *fakeAdmin) DeleteProfile(ctx context.Context, id types.FlexID) error { return nil }

func TestExpandUserFetchesOnce(t *testing.T) {
	api := newFakeAdmin()
	b := New(api)
	ctx := context.Background()

	if _, err := b.LoadUsers(ctx); err != nil {
		t.Fatal(err)
	}

	boxes, ok, err := b.ExpandUser(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("first expand: ok=%v err=%v", ok, err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 mailboxes, got %d", len(boxes))
	}
	if !b.Expanded("u1") {
		t.Fatal("node should be marked open")
	}

	// Collapse keeps the cache; re-expand does not refetch.
	b.Collapse("u1")
	if b.Expanded("u1") {
		t.Fatal("node should be closed")
	}
	if _, ok, err := b.ExpandUser(ctx, "u1"); err != nil || !ok {
		t.Fatalf("re-expand: ok=%v err=%v", ok, err)
	}
	if api.mailboxFetches["u1"] != 1 {
		t.Fatalf("expected 1 fetch, got %d", api.mailboxFetches["u1"])
	}
}

func TestExpandMailboxCachesProfiles(t *testing.T) {
	api := newFakeAdmin()
	b := New(api)
	ctx := context.Background()

	profiles, ok, err := b.ExpandMailbox(ctx, "m1")
	if err != nil || !ok || len(profiles) != 1 {
		t.Fatalf("expand: %d profiles, ok=%v err=%v", len(profiles), ok, err)
	}
	if _, _, err := b.ExpandMailbox(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if api.profileFetches["m1"] != 1 {
		t.Fatalf("expected 1 fetch, got %d", api.profileFetches["m1"])
	}
}

func TestMailboxCountPrefersCache(t *testing.T) {
	api := newFakeAdmin()
	b := New(api)
	ctx := context.Background()

	users, err := b.LoadUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Before expansion the server summary is all we have.
	if got := b.MailboxCount(users[0]); got != 5 {
		t.Fatalf("badge = %d, want server summary 5", got)
	}

	// After fetching, the cache wins over the stale summary.
	if _, _, err := b.ExpandUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if got := b.MailboxCount(users[0]); got != 2 {
		t.Fatalf("badge = %d, want cached 2", got)
	}
}

func TestDeleteMailboxEvictsCache(t *testing.T) {
	api := newFakeAdmin()
	b := New(api)
	ctx := context.Background()

	if _, _, err := b.ExpandUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.ExpandMailbox(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if err := b.DeleteMailbox(ctx, "u1", "m1"); err != nil {
		t.Fatal(err)
	}
	if len(api.deletedBoxes) != 1 || api.deletedBoxes[0] != "m1" {
		t.Fatalf("unexpected deletes: %v", api.deletedBoxes)
	}

	// The cached children are gone and a re-expand refetches.
	boxes, _, err := b.ExpandUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range boxes {
		if m.ID == "m1" {
			t.Fatal("deleted mailbox still in cached list")
		}
	}
	if _, _, err := b.ExpandMailbox(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if api.profileFetches["m1"] != 2 {
		t.Fatalf("expected refetch after delete, got %d fetches", api.profileFetches["m1"])
	}
}

func TestDeleteUserEvictsSubtree(t *testing.T) {
	api := newFakeAdmin()
	b := New(api)
	ctx := context.Background()

	if _, err := b.LoadUsers(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.ExpandUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.ExpandMailbox(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if err := b.DeleteUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	for _, u := range b.Users() {
		if u.ID == "u1" {
			t.Fatal("deleted user still listed")
		}
	}
	if b.Expanded("u1") || b.Expanded("m1") {
		t.Fatal("deleted subtree should be closed")
	}
	if _, _, err := b.ExpandMailbox(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if api.profileFetches["m1"] != 2 {
		t.Fatalf("expected refetch after user delete, got %d fetches", api.profileFetches["m1"])
	}
}
