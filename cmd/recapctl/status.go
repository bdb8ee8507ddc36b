package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/auth"
	"github.com/mialhq/recapctl/internal/display"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Host      string         `json:"host"`
	Account   string         `json:"account,omitempty"`
	Consent   bool           `json:"consent"`
	Profiles  map[string]int `json:"profiles"`
	Mailboxes int            `json:"mailboxes"`
	LastSync  string         `json:"last_sync,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show session, consent, and cache overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, account := auth.LoadToken(cfg.StateDir)
		counts, err := store.ProfileCountByStatus()
		if err != nil {
			return fmt.Errorf("profile counts: %w", err)
		}

		out := statusOutput{
			Host:      cfg.Host,
			Account:   account,
			Consent:   consentStore.HasConsent(),
			Profiles:  counts,
			Mailboxes: store.MailboxCount(),
			LastSync:  store.LatestFetchedAt("profiles"),
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		display.Header("Recapctl Status")
		fmt.Println()
		fmt.Printf("  Portal     %s\n", out.Host)
		if account != "" {
			fmt.Printf("  Account    %s\n", account)
		} else {
			fmt.Printf("  Account    %s\n", display.Dim.Render("(not logged in; run 'recapctl login')"))
		}
		consentLabel := display.Dim.Render("off")
		if out.Consent {
			consentLabel = display.Success.Render("on")
		}
		fmt.Printf("  Analytics  %s\n", consentLabel)
		fmt.Println()
		fmt.Printf("  Cache      %d profiles (%d active), %d mailboxes",
			counts["active"]+counts["inactive"], counts["active"], out.Mailboxes)
		if out.LastSync != "" {
			fmt.Printf("  %s", display.Dim.Render("(synced "+display.TimeAgo(out.LastSync)+")"))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
