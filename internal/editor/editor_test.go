package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/mialhq/recapctl/internal/types"
)

// fakeAPI records calls and serves a canned profile list.
type fakeAPI struct {
	profiles []*types.RecapProfile

	listCalls  int
	created    []*types.RecapProfile
	updated    map[types.FlexID]*types.RecapProfile
	statuses   map[types.FlexID]string
	deleted    []types.FlexID
	failCreate error
	failStatus error
	onCreate   func()
}

func newFakeAPI(profiles ...*types.RecapProfile) *fakeAPI {
	return &fakeAPI{
		profiles: profiles,
		updated:  make(map[types.FlexID]*types.RecapProfile),
		statuses: make(map[types.FlexID]string),
	}
}

func (f *fakeAPI) List(ctx context.Context) ([]*types.RecapProfile, error) {
	f.listCalls++
	return f.profiles, nil
}

func (f *fakeAPI) Create(ctx context.Context, p *types.RecapProfile) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	if f.onCreate != nil {
		f.onCreate()
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeAPI) Update(ctx context.Context, id types.FlexID, p *types.RecapProfile) error {
	f.updated[id] = p
	return nil
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, id types.FlexID, status string) error {
	if f.failStatus != nil {
		return f.failStatus
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeAPI) Delete(ctx context.Context, id types.FlexID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:05", "08:05:00", false},
		{"23:59", "23:59:00", false},
		{"08:05:00", "08:05:00", false},
		{"00:00:00", "00:00:00", false},
		{"8:5", "", true},
		{"8:05", "", true},
		{"25:00", "", true},
		{"08:61", "", true},
		{"", "", true},
		{"08:05:0", "", true},
	}
	for _, c := range cases {
		got, err := NormalizeTime(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizeTime(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeTime(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOpenForCreateRequiresMailboxID(t *testing.T) {
	e := New(newFakeAPI(), false)

	err := e.OpenForCreate(&types.Mailbox{Email: "a@b.test"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if e.View() != ViewList {
		t.Fatal("failed open should leave the list showing")
	}

	if err := e.OpenForCreate(&types.Mailbox{ID: "7", Email: "a@b.test"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if e.View() != ViewEditor {
		t.Fatal("editor should be showing")
	}
	d := e.Draft()
	if d.EmailAccountID != "7" || d.SendTime != DefaultSendTime || !d.FilterSpam || !d.FilterMarketing {
		t.Fatalf("unexpected draft defaults: %+v", d)
	}
	if d.StartTime != DefaultStartTime || d.EndTime != DefaultEndTime || d.Status != types.StatusActive {
		t.Fatalf("unexpected draft defaults: %+v", d)
	}
	if e.SaveLabel() != "Create automation" {
		t.Fatalf("unexpected save label: %q", e.SaveLabel())
	}
}

func TestOpenForEditUnknownIDIsNoOp(t *testing.T) {
	api := newFakeAPI(&types.RecapProfile{ID: "1", EmailAccountID: "7", Recipient: "a@b.test"})
	e := New(api, false)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	e.OpenForEdit("999")
	if e.View() != ViewList || e.Draft() != nil {
		t.Fatal("unknown id should leave the list showing with no draft")
	}

	e.OpenForEdit("1")
	if e.View() != ViewEditor {
		t.Fatal("editor should be showing")
	}
	if e.SaveLabel() != "Save changes" {
		t.Fatalf("unexpected save label: %q", e.SaveLabel())
	}
	// Missing optional fields take defaults in the form.
	if d := e.Draft(); d.SendTime != DefaultSendTime || d.VoiceID != DefaultVoice || d.Speed != DefaultSpeed {
		t.Fatalf("unexpected edit defaults: %+v", d)
	}
}

func TestSaveCreateNormalizesAndReloads(t *testing.T) {
	api := newFakeAPI()
	e := New(api, false)

	if err := e.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}
	e.Draft().Recipient = "dest@b.test"
	e.Draft().SendTime = "09:30"

	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(api.created) != 1 {
		t.Fatalf("expected one create call, got %d", len(api.created))
	}
	sent := api.created[0]
	if sent.SendTime != "09:30:00" {
		t.Fatalf("send time not normalized: %q", sent.SendTime)
	}
	if sent.DomainsExclude == nil || sent.Keywords == nil || sent.SendersAllow == nil {
		t.Fatal("filter arrays must be present, not null")
	}
	if e.View() != ViewList {
		t.Fatal("save should return to the list")
	}
	if api.listCalls != 1 {
		t.Fatalf("save should reload, got %d list calls", api.listCalls)
	}
}

func TestSaveValidation(t *testing.T) {
	api := newFakeAPI()
	e := New(api, false)
	if err := e.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}

	// Missing recipient.
	var verr *ValidationError
	if err := e.Save(context.Background()); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Bad time format.
	e.Draft().Recipient = "dest@b.test"
	e.Draft().SendTime = "9h30"
	if err := e.Save(context.Background()); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if len(api.created) != 0 {
		t.Fatal("no request should have been sent")
	}
	if e.View() != ViewEditor {
		t.Fatal("failed save should keep the editor open")
	}
}

func TestSaveFailureKeepsEditorOpen(t *testing.T) {
	api := newFakeAPI()
	api.failCreate = errors.New("boom")
	e := New(api, false)
	if err := e.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}
	e.Draft().Recipient = "dest@b.test"

	if err := e.Save(context.Background()); err == nil {
		t.Fatal("expected create failure to surface")
	}
	if e.View() != ViewEditor {
		t.Fatal("failed save should keep the editor open")
	}
	if api.listCalls != 0 {
		t.Fatal("failed save should not reload")
	}
}

func TestSaveRejectsReentry(t *testing.T) {
	api := newFakeAPI()
	e := New(api, false)
	if err := e.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}
	e.Draft().Recipient = "dest@b.test"

	var reentry error
	api.onCreate = func() {
		reentry = e.Save(context.Background())
	}
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !errors.Is(reentry, ErrBusy) {
		t.Fatalf("expected ErrBusy on reentrant save, got %v", reentry)
	}
}

func TestToggleStatus(t *testing.T) {
	cases := []struct {
		current string
		want    string
	}{
		{"active", "inactive"},
		{"ACTIVE", "inactive"},
		{"Active", "inactive"},
		{"inactive", "active"},
		{"paused", "active"},
		{"", "active"},
	}
	for _, c := range cases {
		api := newFakeAPI(&types.RecapProfile{ID: "1", Status: c.current})
		e := New(api, false)
		if err := e.Reload(context.Background()); err != nil {
			t.Fatal(err)
		}

		next, err := e.ToggleStatus(context.Background(), "1")
		if err != nil {
			t.Fatalf("toggle from %q: %v", c.current, err)
		}
		if next != c.want {
			t.Errorf("toggle from %q = %q, want %q", c.current, next, c.want)
		}
		if api.statuses["1"] != c.want {
			t.Errorf("status endpoint got %q, want %q", api.statuses["1"], c.want)
		}
		// 1 initial + 1 post-toggle reload.
		if api.listCalls != 2 {
			t.Errorf("toggle should reload, got %d list calls", api.listCalls)
		}
	}
}

func TestToggleStatusFailureSkipsReload(t *testing.T) {
	api := newFakeAPI(&types.RecapProfile{ID: "1", Status: "active"})
	api.failStatus = errors.New("boom")
	e := New(api, false)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := e.ToggleStatus(context.Background(), "1"); err == nil {
		t.Fatal("expected toggle failure to surface")
	}
	if api.listCalls != 1 {
		t.Fatalf("failed toggle should not reload, got %d list calls", api.listCalls)
	}
	if e.Get("1").Status != "active" {
		t.Fatal("cached status must not change on failure")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := newFakeAPI(&types.RecapProfile{ID: "1"})
	e := New(api, false)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := e.Delete(context.Background(), "1", false); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if len(api.deleted) != 0 {
		t.Fatal("unconfirmed delete must not reach the API")
	}

	if err := e.Delete(context.Background(), "1", true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "1" {
		t.Fatalf("unexpected deletes: %v", api.deleted)
	}
}

func TestAdminDraftTimezone(t *testing.T) {
	e := New(newFakeAPI(), true)
	if err := e.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}
	if e.Draft().Timezone != DefaultTimezone {
		t.Fatalf("admin draft timezone = %q, want %q", e.Draft().Timezone, DefaultTimezone)
	}

	e2 := New(newFakeAPI(), false)
	if err := e2.OpenForCreate(&types.Mailbox{ID: "7"}); err != nil {
		t.Fatal(err)
	}
	if e2.Draft().Timezone != "" {
		t.Fatalf("self-service draft should carry no timezone, got %q", e2.Draft().Timezone)
	}
}
