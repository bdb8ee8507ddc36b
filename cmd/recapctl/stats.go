package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/spf13/cobra"
)

type statsOutput struct {
	Profiles  map[string]int `json:"profiles"`
	Mailboxes int            `json:"mailboxes"`
	Leads     int            `json:"leads"`
	LastSync  string         `json:"last_sync,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached portal statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := store.ProfileCountByStatus()
		if err != nil {
			return fmt.Errorf("profile counts: %w", err)
		}

		out := statsOutput{
			Profiles:  counts,
			Mailboxes: store.MailboxCount(),
			Leads:     store.LeadCount(),
			LastSync:  store.LatestFetchedAt("profiles"),
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		display.Header("Recapctl Statistics")
		fmt.Println()
		fmt.Println("  Profiles")
		fmt.Printf("    Active     %3d\n", counts["active"])
		fmt.Printf("    Inactive   %3d\n", counts["inactive"])
		fmt.Println()
		fmt.Printf("  Mailboxes  %3d\n", out.Mailboxes)
		fmt.Printf("  Leads      %3d\n", out.Leads)
		if out.LastSync != "" {
			fmt.Printf("\n  %s\n", display.Dim.Render("last sync: "+display.TimeAgo(out.LastSync)))
		} else {
			fmt.Printf("\n  %s\n", display.Dim.Render("cache empty; run 'recapctl sync' first"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
