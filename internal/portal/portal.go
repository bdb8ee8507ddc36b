// Package portal implements the HTTP client for the MIAL portal API.
//
// All endpoints live under the fixed /portal-api prefix. The same relative
// paths work both against a same-origin deployment and against a remote
// host configured for a packaged shell; Client.URL resolves the host.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/mialhq/recapctl/internal/types"
)

// APIError is a server-rejected request (non-2xx). Body carries the
// response text verbatim, which callers surface to the user as-is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("portal returned HTTP %d", e.StatusCode)
}

// Client talks to the portal API with cookie credentials and an optional
// bearer token for non-browser contexts.
type Client struct {
	host  string
	token string
	hc    *http.Client
}

// New creates a client for the given host (e.g. "https://mial.be").
// An empty host targets a same-origin deployment via relative paths.
func New(host string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		host: strings.TrimSuffix(host, "/"),
		hc: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken attaches a session token sent as a bearer credential on every
// request. Used by packaged shells where no cookie jar survives restarts.
func (c *Client) SetToken(token string) { c.token = token }

// URL resolves a portal path against the configured host.
func (c *Client) URL(path string) string {
	return c.host + Endpoint(path)
}

// do issues a JSON request and decodes a JSON response into out (when out
// is non-nil). Non-2xx responses come back as *APIError with the body
// text preserved verbatim.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("portal request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// --- Session / auth ---

// Login authenticates and returns the session token issued by the portal.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// Me returns the authenticated identity.
func (c *Client) Me(ctx context.Context) (*types.Session, error) {
	s := &types.Session{}
	if err := c.do(ctx, http.MethodGet, "/me", nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// --- Self-service profiles ---

// MyProfiles lists the caller's recap profiles.
func (c *Client) MyProfiles(ctx context.Context) ([]*types.RecapProfile, error) {
	var out []*types.RecapProfile
	if err := c.do(ctx, http.MethodGet, "/my/profiles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProfile creates a recap profile.
func (c *Client) CreateProfile(ctx context.Context, p *types.RecapProfile) error {
	return c.do(ctx, http.MethodPost, "/my/profiles", p, nil)
}

// UpdateProfile replaces an existing profile.
func (c *Client) UpdateProfile(ctx context.Context, id types.FlexID, p *types.RecapProfile) error {
	return c.do(ctx, http.MethodPut, "/my/profiles/"+url.PathEscape(id.String()), p, nil)
}

// UpdateProfileStatus flips only the status field.
func (c *Client) UpdateProfileStatus(ctx context.Context, id types.FlexID, status string) error {
	return c.do(ctx, http.MethodPut, "/my/profiles/"+url.PathEscape(id.String())+"/status",
		map[string]string{"status": status}, nil)
}

// DeleteProfile deletes a profile.
func (c *Client) DeleteProfile(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/my/profiles/"+url.PathEscape(id.String()), nil, nil)
}

// RunNow triggers an immediate recap run for a profile.
func (c *Client) RunNow(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodPost, "/my/profiles/"+url.PathEscape(id.String())+"/run-now", nil, nil)
}

// Buffer returns the pending recap buffer for a profile.
func (c *Client) Buffer(ctx context.Context, id types.FlexID) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/my/profiles/"+url.PathEscape(id.String())+"/buffer", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Audio streams the latest audio recap for a profile. The caller owns the
// returned reader.
func (c *Client) Audio(ctx context.Context, id types.FlexID) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.URL("/my/profiles/"+url.PathEscape(id.String())+"/audio.mp3"), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	return resp.Body, nil
}

// MyMailboxes lists the caller's connected mailboxes.
func (c *Client) MyMailboxes(ctx context.Context) ([]*types.Mailbox, error) {
	var out []*types.Mailbox
	if err := c.do(ctx, http.MethodGet, "/my/mailboxes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Admin ---

// AdminUsers lists all portal users.
func (c *Client) AdminUsers(ctx context.Context) ([]*types.User, error) {
	var out []*types.User
	if err := c.do(ctx, http.MethodGet, "/admin/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDeleteUser deletes a user.
func (c *Client) AdminDeleteUser(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/admin/api/users/"+url.PathEscape(id.String()), nil, nil)
}

// AdminUserMailboxes lists a user's connected email accounts.
func (c *Client) AdminUserMailboxes(ctx context.Context, userID types.FlexID) ([]*types.Mailbox, error) {
	var out []*types.Mailbox
	path := "/admin/api/users/" + url.PathEscape(userID.String()) + "/email-accounts"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDeleteMailbox deletes an email account.
func (c *Client) AdminDeleteMailbox(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/admin/api/email-accounts/"+url.PathEscape(id.String()), nil, nil)
}

// AdminMailboxProfiles lists the recap profiles attached to a mailbox.
func (c *Client) AdminMailboxProfiles(ctx context.Context, mailboxID types.FlexID) ([]*types.RecapProfile, error) {
	var out []*types.RecapProfile
	path := "/admin/api/email-accounts/" + url.PathEscape(mailboxID.String()) + "/recap-profiles"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminProfile fetches a single recap profile.
func (c *Client) AdminProfile(ctx context.Context, id types.FlexID) (*types.RecapProfile, error) {
	p := &types.RecapProfile{}
	if err := c.do(ctx, http.MethodGet, "/admin/api/recap-profiles/"+url.PathEscape(id.String()), nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AdminUpdateProfile replaces a recap profile.
func (c *Client) AdminUpdateProfile(ctx context.Context, id types.FlexID, p *types.RecapProfile) error {
	return c.do(ctx, http.MethodPut, "/admin/api/recap-profiles/"+url.PathEscape(id.String()), p, nil)
}

// AdminDeleteProfile deletes a recap profile.
func (c *Client) AdminDeleteProfile(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/admin/api/recap-profiles/"+url.PathEscape(id.String()), nil, nil)
}

// AdminUpdateProfileStatus flips only the status field of a profile.
func (c *Client) AdminUpdateProfileStatus(ctx context.Context, id types.FlexID, status string) error {
	return c.do(ctx, http.MethodPut, "/admin/api/recap-profiles/"+url.PathEscape(id.String())+"/status",
		map[string]string{"status": status}, nil)
}

// AdminAssign assigns a recap profile to a user email.
func (c *Client) AdminAssign(ctx context.Context, profileID types.FlexID, userEmail string) error {
	return c.do(ctx, http.MethodPost, "/admin/assign",
		map[string]string{"profile_id": profileID.String(), "user_email": userEmail}, nil)
}

// AdminUnassign removes a profile assignment.
func (c *Client) AdminUnassign(ctx context.Context, profileID types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/admin/assign/"+url.PathEscape(profileID.String()), nil, nil)
}

// AdminLeads lists inbound prospects.
func (c *Client) AdminLeads(ctx context.Context) ([]*types.Lead, error) {
	var out []*types.Lead
	if err := c.do(ctx, http.MethodGet, "/admin/api/prospects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminLead fetches a single prospect.
func (c *Client) AdminLead(ctx context.Context, id types.FlexID) (*types.Lead, error) {
	l := &types.Lead{}
	if err := c.do(ctx, http.MethodGet, "/admin/api/prospects/"+url.PathEscape(id.String()), nil, l); err != nil {
		return nil, err
	}
	return l, nil
}

// AdminDeleteLead deletes a prospect.
func (c *Client) AdminDeleteLead(ctx context.Context, id types.FlexID) error {
	return c.do(ctx, http.MethodDelete, "/admin/api/prospects/"+url.PathEscape(id.String()), nil, nil)
}

// AdminReplyLead sends a reply to a prospect.
func (c *Client) AdminReplyLead(ctx context.Context, id types.FlexID, subject, body string) error {
	return c.do(ctx, http.MethodPost, "/admin/api/prospects/"+url.PathEscape(id.String())+"/reply",
		map[string]string{"subject": subject, "body": body}, nil)
}

// --- Public ---

// Contact submits the public contact form.
func (c *Client) Contact(ctx context.Context, lead *types.Lead) error {
	return c.do(ctx, http.MethodPost, "/contact", lead, nil)
}

// SubmitLead submits a marketing lead. The endpoint path differs between
// deployments (/public/lead vs /api/lead), so it is passed in.
func (c *Client) SubmitLead(ctx context.Context, endpoint string, lead *types.Lead) error {
	if endpoint == "" {
		endpoint = "/api/lead"
	}
	return c.do(ctx, http.MethodPost, endpoint, lead, nil)
}
