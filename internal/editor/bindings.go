package editor

import (
	"context"

	"github.com/mialhq/recapctl/internal/portal"
	"github.com/mialhq/recapctl/internal/types"
)

// userAPI binds the self-service /my/profiles endpoints.
type userAPI struct{ c *portal.Client }

// UserAPI returns the API for the caller's own profiles.
func UserAPI(c *portal.Client) API { return userAPI{c} }

func (a userAPI) List(ctx context.Context) ([]*types.RecapProfile, error) {
	return a.c.MyProfiles(ctx)
}

func (a userAPI) Create(ctx context.Context, p *types.RecapProfile) error {
	return a.c.CreateProfile(ctx, p)
}

func (a userAPI) Update(ctx context.Context, id types.FlexID, p *types.RecapProfile) error {
	return a.c.UpdateProfile(ctx, id, p)
}

func (a userAPI) UpdateStatus(ctx context.Context, id types.FlexID, status string) error {
	return a.c.UpdateProfileStatus(ctx, id, status)
}

func (a userAPI) Delete(ctx context.Context, id types.FlexID) error {
	return a.c.DeleteProfile(ctx, id)
}

// adminAPI binds the /admin/api/recap-profiles endpoints, scoped to one
// mailbox for listing (the admin editor always operates inside the tree).
type adminAPI struct {
	c       *portal.Client
	mailbox types.FlexID
}

// AdminAPI returns the API for administering the profiles of one mailbox.
func AdminAPI(c *portal.Client, mailbox types.FlexID) API {
	return adminAPI{c: c, mailbox: mailbox}
}

func (a adminAPI) List(ctx context.Context) ([]*types.RecapProfile, error) {
	return a.c.AdminMailboxProfiles(ctx, a.mailbox)
}

func (a adminAPI) Create(ctx context.Context, p *types.RecapProfile) error {
	// Admin creation goes through the same self-service collection; the
	// payload's email_account_id routes it to the right mailbox.
	return a.c.CreateProfile(ctx, p)
}

func (a adminAPI) Update(ctx context.Context, id types.FlexID, p *types.RecapProfile) error {
	return a.c.AdminUpdateProfile(ctx, id, p)
}

func (a adminAPI) UpdateStatus(ctx context.Context, id types.FlexID, status string) error {
	return a.c.AdminUpdateProfileStatus(ctx, id, status)
}

func (a adminAPI) Delete(ctx context.Context, id types.FlexID) error {
	return a.c.AdminDeleteProfile(ctx, id)
}
