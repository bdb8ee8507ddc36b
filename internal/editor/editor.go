// Package editor implements the recap-profile editor state machine: it
// toggles between list and editor views, hydrates a draft from a cached
// entity, and serialises the draft back into a request payload.
//
// The editor holds its entire state on the struct, so the self-service
// and admin instances never interfere.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mialhq/recapctl/internal/types"
)

// API is the portal surface the editor drives. The self-service and admin
// variants bind different endpoint families behind the same shape.
type API interface {
	List(ctx context.Context) ([]*types.RecapProfile, error)
	Create(ctx context.Context, p *types.RecapProfile) error
	Update(ctx context.Context, id types.FlexID, p *types.RecapProfile) error
	UpdateStatus(ctx context.Context, id types.FlexID, status string) error
	Delete(ctx context.Context, id types.FlexID) error
}

// View is the editor's visible surface.
type View int

const (
	ViewList View = iota
	ViewEditor
)

// Draft defaults applied on create and substituted for missing optional
// fields on edit.
const (
	DefaultSendTime  = "08:00"
	DefaultStartTime = "00:00"
	DefaultEndTime   = "23:59"
	DefaultVoice     = "fr_default"
	DefaultSpeed     = 1.0
	DefaultLanguage  = "fr"
	DefaultSort      = "date"
	DefaultTimezone  = "Europe/Brussels"
)

// ErrBusy means a save/delete is already in flight for this editor.
var ErrBusy = errors.New("operation already in progress")

// ErrNotConfirmed means a delete was attempted without confirmation.
var ErrNotConfirmed = errors.New("delete not confirmed")

// ValidationError is a client-side rejection: no request was sent.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Editor is one instance of the profile editor state machine.
type Editor struct {
	api   API
	admin bool

	view    View
	editing types.FlexID // empty while creating
	draft   *types.RecapProfile
	cache   map[types.FlexID]*types.RecapProfile
	order   []types.FlexID
	busy    bool
}

// New creates an editor. admin enables the extra administrative fields
// (timezone, assignment, debug).
func New(api API, admin bool) *Editor {
	return &Editor{
		api:   api,
		admin: admin,
		view:  ViewList,
		cache: make(map[types.FlexID]*types.RecapProfile),
	}
}

// Reload fetches the authoritative list and rebuilds the read cache. Every
// mutation ends here: the server state always wins over local edits.
func (e *Editor) Reload(ctx context.Context) error {
	list, err := e.api.List(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	e.cache = make(map[types.FlexID]*types.RecapProfile, len(list))
	e.order = e.order[:0]
	for _, p := range list {
		e.cache[p.ID] = p
		e.order = append(e.order, p.ID)
	}
	return nil
}

// Profiles returns the cached profiles in server order.
func (e *Editor) Profiles() []*types.RecapProfile {
	out := make([]*types.RecapProfile, 0, len(e.order))
	for _, id := range e.order {
		if p, ok := e.cache[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Get returns a cached profile, or nil.
func (e *Editor) Get(id types.FlexID) *types.RecapProfile {
	return e.cache[id]
}

// View reports whether the list or the editor is showing.
func (e *Editor) View() View { return e.view }

// Editing returns the id being edited, empty in create mode.
func (e *Editor) Editing() types.FlexID { return e.editing }

// SaveLabel is the label the save control carries in the current mode.
func (e *Editor) SaveLabel() string {
	if e.editing.IsZero() {
		return "Create automation"
	}
	return "Save changes"
}

// Draft returns the current form draft, nil while the list is showing.
func (e *Editor) Draft() *types.RecapProfile { return e.draft }

// OpenForCreate switches to the editor with a fresh draft seeded from the
// given mailbox. The mailbox id may arrive under either upstream key; the
// types.Mailbox adapter has already normalised it, so only a genuinely
// missing id fails here, with a user-visible error and no view change.
func (e *Editor) OpenForCreate(mbx *types.Mailbox) error {
	if mbx == nil || mbx.ID.IsZero() {
		return &ValidationError{Msg: "no mailbox account id available, connect a mailbox first"}
	}

	e.draft = &types.RecapProfile{
		EmailAccountID:  mbx.ID,
		SendTime:        DefaultSendTime,
		StartDays:       0,
		EndDays:         0,
		StartTime:       DefaultStartTime,
		EndTime:         DefaultEndTime,
		FilterSpam:      true,
		FilterMarketing: true,
		VoiceID:         DefaultVoice,
		Speed:           DefaultSpeed,
		Language:        DefaultLanguage,
		SortMode:        DefaultSort,
		Status:          types.StatusActive,
	}
	if e.admin {
		e.draft.Timezone = DefaultTimezone
	}
	e.editing = ""
	e.view = ViewEditor
	return nil
}

// OpenForEdit populates the draft from the cached entity. An unknown id is
// a no-op (the list stays up). Missing optional fields take the documented
// defaults.
func (e *Editor) OpenForEdit(id types.FlexID) {
	p, ok := e.cache[id]
	if !ok {
		return
	}

	draft := *p
	if draft.SendTime == "" {
		draft.SendTime = DefaultSendTime
	}
	if draft.StartTime == "" {
		draft.StartTime = DefaultStartTime
	}
	if draft.EndTime == "" {
		draft.EndTime = DefaultEndTime
	}
	if draft.VoiceID == "" {
		draft.VoiceID = DefaultVoice
	}
	if draft.Speed == 0 {
		draft.Speed = DefaultSpeed
	}
	if draft.Language == "" {
		draft.Language = DefaultLanguage
	}
	if e.admin && draft.Timezone == "" {
		draft.Timezone = DefaultTimezone
	}
	e.draft = &draft
	e.editing = id
	e.view = ViewEditor
}

// Cancel abandons the draft and returns to the list.
func (e *Editor) Cancel() {
	e.draft = nil
	e.editing = ""
	e.view = ViewList
}

// Save validates the draft, assembles the payload, and issues the create
// or update call. On success the editor returns to the list and reloads;
// on failure the editor stays open and the error text is surfaced as-is.
func (e *Editor) Save(ctx context.Context) error {
	if e.busy {
		return ErrBusy
	}
	if e.draft == nil {
		return &ValidationError{Msg: "nothing to save"}
	}
	e.busy = true
	defer func() { e.busy = false }()

	if e.draft.EmailAccountID.IsZero() {
		return &ValidationError{Msg: "source mailbox is required"}
	}
	if e.draft.Recipient == "" {
		return &ValidationError{Msg: "recipient address is required"}
	}

	payload := *e.draft
	var err error
	if payload.SendTime, err = NormalizeTime(e.draft.SendTime); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("send time: %v", err)}
	}
	if payload.StartTime, err = NormalizeTime(e.draft.StartTime); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("window start: %v", err)}
	}
	if payload.EndTime, err = NormalizeTime(e.draft.EndTime); err != nil {
		return &ValidationError{Msg: fmt.Sprintf("window end: %v", err)}
	}

	// Filter categories not yet exposed anywhere: the API requires the
	// arrays to be present, so they always go out empty.
	payload.DomainsExclude = []string{}
	payload.Keywords = []string{}
	if payload.SendersAllow == nil {
		payload.SendersAllow = []string{}
	}
	if payload.SendersExclude == nil {
		payload.SendersExclude = []string{}
	}
	if payload.CCAllow == nil {
		payload.CCAllow = []string{}
	}

	if e.editing.IsZero() {
		err = e.api.Create(ctx, &payload)
	} else {
		err = e.api.Update(ctx, e.editing, &payload)
	}
	if err != nil {
		return err
	}

	e.Cancel()
	return e.Reload(ctx)
}

// ToggleStatus flips a profile's status to the case-insensitive inverse of
// "active" via the dedicated status endpoint, then reloads. There is no
// optimistic local mutation: the fresh fetch is the authority.
func (e *Editor) ToggleStatus(ctx context.Context, id types.FlexID) (string, error) {
	if e.busy {
		return "", ErrBusy
	}
	p, ok := e.cache[id]
	if !ok {
		return "", fmt.Errorf("profile %q not found", id)
	}
	e.busy = true
	defer func() { e.busy = false }()

	next := types.InverseStatus(p.Status)
	if err := e.api.UpdateStatus(ctx, id, next); err != nil {
		return "", err
	}
	return next, e.Reload(ctx)
}

// Delete removes a profile. confirmed must be true; the caller is
// responsible for the interactive confirmation.
func (e *Editor) Delete(ctx context.Context, id types.FlexID, confirmed bool) error {
	if e.busy {
		return ErrBusy
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	e.busy = true
	defer func() { e.busy = false }()

	if err := e.api.Delete(ctx, id); err != nil {
		return err
	}
	return e.Reload(ctx)
}

// NormalizeTime converts an HH:MM value to the HH:MM:SS form the portal
// stores. Already-normalized 8-character input passes through unchanged;
// everything else is rejected rather than silently truncated.
func NormalizeTime(s string) (string, error) {
	switch len(s) {
	case 8:
		if _, err := time.Parse("15:04:05", s); err != nil {
			return "", fmt.Errorf("invalid time %q", s)
		}
		return s, nil
	case 5:
		if _, err := time.Parse("15:04", s); err != nil {
			return "", fmt.Errorf("invalid time %q", s)
		}
		return s + ":00", nil
	default:
		return "", fmt.Errorf("invalid time %q", s)
	}
}
