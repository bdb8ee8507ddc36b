// Package admintree implements the three-level admin browser:
// users -> mailboxes -> recap profiles. Children are fetched lazily on first
// expansion and cached per parent; collapsing hides a node without
// evicting its cache, and deletes evict so a re-expand cannot resurrect
// stale rows.
package admintree

import (
	"context"
	"fmt"

	"github.com/mialhq/recapctl/internal/types"
)

// API is the admin portal surface the browser consumes.
type API interface {
	Users(ctx context.Context) ([]*types.User, error)
	UserMailboxes(ctx context.Context, userID types.FlexID) ([]*types.Mailbox, error)
	MailboxProfiles(ctx context.Context, mailboxID types.FlexID) ([]*types.RecapProfile, error)
	DeleteUser(ctx context.Context, id types.FlexID) error
	DeleteMailbox(ctx context.Context, id types.FlexID) error
	DeleteProfile(ctx context.Context, id types.FlexID) error
}

// Browser owns the tree state: per-parent child caches, in-flight flags,
// and the expanded set. All state is explicit so a fresh Browser starts
// from a clean slate.
type Browser struct {
	api API

	users     []*types.User
	mailboxes map[types.FlexID][]*types.Mailbox
	profiles  map[types.FlexID][]*types.RecapProfile

	loadingMailboxes map[types.FlexID]bool
	loadingProfiles  map[types.FlexID]bool

	expanded map[types.FlexID]bool
}

// New creates a browser over the given admin API.
func New(api API) *Browser {
	return &Browser{
		api:              api,
		mailboxes:        make(map[types.FlexID][]*types.Mailbox),
		profiles:         make(map[types.FlexID][]*types.RecapProfile),
		loadingMailboxes: make(map[types.FlexID]bool),
		loadingProfiles:  make(map[types.FlexID]bool),
		expanded:         make(map[types.FlexID]bool),
	}
}

// LoadUsers fetches the root level.
func (b *Browser) LoadUsers(ctx context.Context) ([]*types.User, error) {
	users, err := b.api.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	b.users = users
	return users, nil
}

// Users returns the cached root level.
func (b *Browser) Users() []*types.User { return b.users }

// ExpandUser returns the user's mailboxes, fetching on first expansion
// only. A node already loading is left alone (nil, false) so concurrent
// expand clicks cannot issue duplicate fetches.
func (b *Browser) ExpandUser(ctx context.Context, userID types.FlexID) ([]*types.Mailbox, bool, error) {
	if b.loadingMailboxes[userID] {
		return nil, false, nil
	}
	b.expanded[userID] = true
	if cached, ok := b.mailboxes[userID]; ok {
		return cached, true, nil
	}

	b.loadingMailboxes[userID] = true
	defer delete(b.loadingMailboxes, userID)

	boxes, err := b.api.UserMailboxes(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load mailboxes: %w", err)
	}
	b.mailboxes[userID] = boxes
	return boxes, true, nil
}

// ExpandMailbox returns the mailbox's recap profiles, fetching on first
// expansion only.
func (b *Browser) ExpandMailbox(ctx context.Context, mailboxID types.FlexID) ([]*types.RecapProfile, bool, error) {
	if b.loadingProfiles[mailboxID] {
		return nil, false, nil
	}
	b.expanded[mailboxID] = true
	if cached, ok := b.profiles[mailboxID]; ok {
		return cached, true, nil
	}

	b.loadingProfiles[mailboxID] = true
	defer delete(b.loadingProfiles, mailboxID)

	profiles, err := b.api.MailboxProfiles(ctx, mailboxID)
	if err != nil {
		return nil, false, fmt.Errorf("load profiles: %w", err)
	}
	b.profiles[mailboxID] = profiles
	return profiles, true, nil
}

// Collapse hides a node. The cache stays: re-expanding is free.
func (b *Browser) Collapse(id types.FlexID) { delete(b.expanded, id) }

// Expanded reports whether a node is currently open.
func (b *Browser) Expanded(id types.FlexID) bool { return b.expanded[id] }

// MailboxCount returns the badge count for a user: the cache when the
// mailboxes have been fetched, the server summary otherwise. The cache is
// always the fresher of the two.
func (b *Browser) MailboxCount(u *types.User) int {
	if boxes, ok := b.mailboxes[u.ID]; ok {
		return len(boxes)
	}
	return u.MailboxCount
}

// DeleteUser removes a user and evicts its subtree from the cache.
func (b *Browser) DeleteUser(ctx context.Context, userID types.FlexID) error {
	if err := b.api.DeleteUser(ctx, userID); err != nil {
		return err
	}
	for _, mbx := range b.mailboxes[userID] {
		delete(b.profiles, mbx.ID)
		delete(b.expanded, mbx.ID)
	}
	delete(b.mailboxes, userID)
	delete(b.expanded, userID)
	for i, u := range b.users {
		if u.ID == userID {
			b.users = append(b.users[:i], b.users[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteMailbox removes a mailbox and evicts its cache entries, so a
// later re-expand refetches instead of resurrecting the deleted row.
func (b *Browser) DeleteMailbox(ctx context.Context, userID, mailboxID types.FlexID) error {
	if err := b.api.DeleteMailbox(ctx, mailboxID); err != nil {
		return err
	}
	delete(b.profiles, mailboxID)
	delete(b.expanded, mailboxID)
	if boxes, ok := b.mailboxes[userID]; ok {
		for i, m := range boxes {
			if m.ID == mailboxID {
				b.mailboxes[userID] = append(boxes[:i], boxes[i+1:]...)
				break
			}
		}
	}
	return nil
}

// DeleteProfile removes a recap profile and evicts it from its mailbox's
// cached children.
func (b *Browser) DeleteProfile(ctx context.Context, mailboxID, profileID types.FlexID) error {
	if err := b.api.DeleteProfile(ctx, profileID); err != nil {
		return err
	}
	if profiles, ok := b.profiles[mailboxID]; ok {
		for i, p := range profiles {
			if p.ID == profileID {
				b.profiles[mailboxID] = append(profiles[:i], profiles[i+1:]...)
				break
			}
		}
	}
	return nil
}
