package admintree

import (
	"context"

	"github.com/mialhq/recapctl/internal/portal"
	"github.com/mialhq/recapctl/internal/types"
)

// portalAPI binds the browser to the portal admin endpoints.
type portalAPI struct{ c *portal.Client }

// PortalAPI wraps a portal client as the browser's API.
func PortalAPI(c *portal.Client) API { return portalAPI{c} }

func (a portalAPI) Users(ctx context.Context) ([]*types.User, error) {
	return a.c.AdminUsers(ctx)
}

func (a portalAPI) UserMailboxes(ctx context.Context, userID types.FlexID) ([]*types.Mailbox, error) {
	return a.c.AdminUserMailboxes(ctx, userID)
}

func (a portalAPI) MailboxProfiles(ctx context.Context, mailboxID types.FlexID) ([]*types.RecapProfile, error) {
	return a.c.AdminMailboxProfiles(ctx, mailboxID)
}

func (a portalAPI) DeleteUser(ctx context.Context, id types.FlexID) error {
	return a.c.AdminDeleteUser(ctx, id)
}

func (a portalAPI) DeleteMailbox(ctx context.Context, id types.FlexID) error {
	return a.c.AdminDeleteMailbox(ctx, id)
}

func (a portalAPI) DeleteProfile(ctx context.Context, id types.FlexID) error {
	return a.c.AdminDeleteProfile(ctx, id)
}
