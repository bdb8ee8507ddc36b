// Package types defines core data structures for recapctl.
package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexID is an entity identifier that the portal serialises inconsistently:
// some endpoints return a JSON number, others a string. It unmarshals from
// either and always marshals back as a string.
type FlexID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON always serialises as a string.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

// IsZero reports whether the id is empty.
func (f FlexID) IsZero() bool { return f == "" }

// Status constants.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// InverseStatus returns the opposite profile status, comparing
// case-insensitively against "active".
func InverseStatus(status string) string {
	if strings.EqualFold(status, StatusActive) {
		return StatusInactive
	}
	return StatusActive
}

// RecapProfile is a saved automation describing how and when a mailbox's
// messages are summarised and delivered. JSON keys follow the portal's
// (French) wire contract.
type RecapProfile struct {
	ID             FlexID `json:"id,omitempty"`
	EmailAccountID FlexID `json:"email_account_id"`
	Recipient      string `json:"destinataire"`

	// Schedule and lookback window.
	SendTime  string `json:"heure_envoi"`
	StartDays int    `json:"jours_arriere_start"`
	EndDays   int    `json:"jours_arriere_end"`
	StartTime string `json:"heure_debut"`
	EndTime   string `json:"heure_fin"`

	// Filters.
	SendersAllow    []string `json:"expediteurs_inclus"`
	SendersExclude  []string `json:"expediteurs_exclus"`
	CCAllow         []string `json:"cc_inclus"`
	UnreadOnly      bool     `json:"non_lus_uniquement"`
	FilterSpam      bool     `json:"filtre_spam"`
	FilterMarketing bool     `json:"filtre_marketing"`
	MarkAsRead      bool     `json:"marquer_lu"`

	// Placeholder filter categories, accepted by the API but not yet
	// exposed anywhere. Always transmitted as empty arrays.
	DomainsExclude []string `json:"domaines_exclus"`
	Keywords       []string `json:"mots_cles"`

	// Audio rendition.
	AudioEnabled bool    `json:"audio_active"`
	VoiceID      string  `json:"voix"`
	Speed        float64 `json:"vitesse"`
	Language     string  `json:"langue"`

	SortMode string `json:"tri"`
	Status   string `json:"status"`

	// Admin-only fields.
	AssignedEmail string `json:"assigned_user_email,omitempty"`
	Timezone      string `json:"timezone,omitempty"`
	Debug         bool   `json:"debug,omitempty"`
}

// UnmarshalJSON applies the contract defaults the portal sometimes omits:
// the spam and marketing filters are enabled unless explicitly false.
func (p *RecapProfile) UnmarshalJSON(data []byte) error {
	type alias RecapProfile
	aux := struct {
		*alias
		FilterSpam      *bool `json:"filtre_spam"`
		FilterMarketing *bool `json:"filtre_marketing"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.FilterSpam = aux.FilterSpam == nil || *aux.FilterSpam
	p.FilterMarketing = aux.FilterMarketing == nil || *aux.FilterMarketing
	return nil
}

// Mailbox is a connected email account, owned by a user.
type Mailbox struct {
	ID       FlexID `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Status   string `json:"status"`
}

// UnmarshalJSON normalises the two shapes the portal returns for a mailbox:
// the list endpoints populate "id", the admin tree endpoints populate
// "email_account_id". Internal code only ever sees ID.
func (m *Mailbox) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID             FlexID `json:"id"`
		EmailAccountID FlexID `json:"email_account_id"`
		Email          string `json:"email"`
		Provider       string `json:"provider"`
		Status         string `json:"status"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id.IsZero() {
		id = w.EmailAccountID
	}
	*m = Mailbox{ID: id, Email: w.Email, Provider: w.Provider, Status: w.Status}
	return nil
}

// User is a portal account, visible to admins only.
type User struct {
	ID        FlexID `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`

	// Server-supplied summary count, used for badges until the
	// mailbox list has been fetched.
	MailboxCount int `json:"mailbox_count,omitempty"`
}

// Lead is an inbound prospect captured by the public marketing form.
type Lead struct {
	ID          FlexID `json:"id,omitempty"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	ProfileType string `json:"profile_type,omitempty"`
	Message     string `json:"message,omitempty"`
	Source      string `json:"source,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Session is the authenticated identity returned by GET /me.
type Session struct {
	ID    FlexID `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the session has the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && strings.EqualFold(s.Role, "admin")
}

// SyncResult holds the outcome of syncing one remote collection.
type SyncResult struct {
	Collection string `json:"collection"`
	Fetched    int    `json:"fetched"`
	Error      string `json:"error,omitempty"`
}

// SyncSummary aggregates sync results across collections.
type SyncSummary struct {
	Collections []SyncResult `json:"collections"`
	Total       int          `json:"total"`
}
