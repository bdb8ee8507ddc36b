// Package db provides the SQLite snapshot cache for recapctl.
//
// The cache mirrors remote collections (profiles, mailboxes, leads) so
// stats and listings work offline; every sync fully replaces a
// collection, keeping the cache a read model with no local edits.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mialhq/recapctl/internal/types"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for cache operations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the cache database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Now returns the current time as an ISO 8601 string.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// --- Profile snapshot ---

// ReplaceProfiles swaps the cached profile collection for a fresh fetch.
func (d *DB) ReplaceProfiles(profiles []*types.RecapProfile) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profiles"); err != nil {
		return err
	}
	now := Now()
	for _, p := range profiles {
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		audio := 0
		if p.AudioEnabled {
			audio = 1
		}
		_, err = tx.Exec(`
			INSERT INTO profiles (id, email_account_id, recipient, send_time, status, audio_enabled, payload, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID.String(), p.EmailAccountID.String(), p.Recipient, p.SendTime,
			p.Status, audio, string(payload), now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Profiles returns the cached profiles.
func (d *DB) Profiles() ([]*types.RecapProfile, error) {
	rows, err := d.conn.Query("SELECT payload FROM profiles ORDER BY email_account_id, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*types.RecapProfile
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		p := &types.RecapProfile{}
		if err := json.Unmarshal([]byte(payload), p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ProfileCountByStatus returns cached profile counts grouped by status.
func (d *DB) ProfileCountByStatus() (map[string]int, error) {
	rows, err := d.conn.Query("SELECT LOWER(status), COUNT(*) FROM profiles GROUP BY LOWER(status)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int{types.StatusActive: 0, types.StatusInactive: 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ProfileCount returns the total cached profile count.
func (d *DB) ProfileCount() int {
	var n int
	d.conn.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&n)
	return n
}

// --- Mailbox snapshot ---

// ReplaceMailboxes swaps the cached mailbox collection.
func (d *DB) ReplaceMailboxes(boxes []*types.Mailbox) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM mailboxes"); err != nil {
		return err
	}
	now := Now()
	for _, m := range boxes {
		_, err := tx.Exec(`
			INSERT INTO mailboxes (id, email, provider, status, fetched_at)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID.String(), m.Email, m.Provider, m.Status, now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Mailboxes returns the cached mailboxes.
func (d *DB) Mailboxes() ([]*types.Mailbox, error) {
	rows, err := d.conn.Query("SELECT id, email, provider, status FROM mailboxes ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*types.Mailbox
	for rows.Next() {
		var id, email string
		var provider, status sql.NullString
		if err := rows.Scan(&id, &email, &provider, &status); err != nil {
			return nil, err
		}
		result = append(result, &types.Mailbox{
			ID:       types.FlexID(id),
			Email:    email,
			Provider: provider.String,
			Status:   status.String,
		})
	}
	return result, rows.Err()
}

// MailboxCount returns the total cached mailbox count.
func (d *DB) MailboxCount() int {
	var n int
	d.conn.QueryRow("SELECT COUNT(*) FROM mailboxes").Scan(&n)
	return n
}

// --- Lead snapshot ---

// ReplaceLeads swaps the cached lead collection.
func (d *DB) ReplaceLeads(leads []*types.Lead) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM leads"); err != nil {
		return err
	}
	now := Now()
	for _, l := range leads {
		_, err := tx.Exec(`
			INSERT INTO leads (id, email, first_name, company, message, source, created_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID.String(), l.Email, nullStr(l.FirstName), nullStr(l.Company),
			nullStr(l.Message), nullStr(l.Source), nullStr(l.CreatedAt), now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Leads returns the cached leads, newest first.
func (d *DB) Leads() ([]*types.Lead, error) {
	rows, err := d.conn.Query(`
		SELECT id, email, first_name, company, message, source, created_at
		FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*types.Lead
	for rows.Next() {
		var id, email string
		var firstName, company, message, source, createdAt sql.NullString
		if err := rows.Scan(&id, &email, &firstName, &company, &message, &source, &createdAt); err != nil {
			return nil, err
		}
		result = append(result, &types.Lead{
			ID:        types.FlexID(id),
			Email:     email,
			FirstName: firstName.String,
			Company:   company.String,
			Message:   message.String,
			Source:    source.String,
			CreatedAt: createdAt.String,
		})
	}
	return result, rows.Err()
}

// LeadCount returns the total cached lead count.
func (d *DB) LeadCount() int {
	var n int
	d.conn.QueryRow("SELECT COUNT(*) FROM leads").Scan(&n)
	return n
}

// LatestFetchedAt returns the most recent fetch time for a collection
// ("profiles", "mailboxes", or "leads").
func (d *DB) LatestFetchedAt(collection string) string {
	var t sql.NullString
	switch collection {
	case "profiles":
		d.conn.QueryRow("SELECT MAX(fetched_at) FROM profiles").Scan(&t)
	case "mailboxes":
		d.conn.QueryRow("SELECT MAX(fetched_at) FROM mailboxes").Scan(&t)
	case "leads":
		d.conn.QueryRow("SELECT MAX(fetched_at) FROM leads").Scan(&t)
	}
	if t.Valid {
		return t.String
	}
	return ""
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
