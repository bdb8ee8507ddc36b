// Package auth persists the portal session token between invocations.
//
// Browsers carry the session in a cookie; a packaged shell has no cookie
// jar that survives restarts, so the token issued at login is stored in
// the state dir and replayed as a bearer credential.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const tokenFile = "token.json"

type storedToken struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	SavedAt string `json:"saved_at"`
}

// SaveToken writes the session token for the given account.
func SaveToken(stateDir, email, token string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(storedToken{
		Token:   token,
		Email:   email,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, tokenFile), data, 0o600)
}

// LoadToken returns the stored token and account email, or empty strings
// when no session exists.
func LoadToken(stateDir string) (token, email string) {
	data, err := os.ReadFile(filepath.Join(stateDir, tokenFile))
	if err != nil {
		return "", ""
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return "", ""
	}
	return st.Token, st.Email
}

// ClearToken removes the stored session.
func ClearToken(stateDir string) error {
	err := os.Remove(filepath.Join(stateDir, tokenFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
