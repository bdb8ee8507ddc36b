package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var mailboxesCached bool

var mailboxesCmd = &cobra.Command{
	Use:   "mailboxes",
	Short: "List connected mailboxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		var boxes []*types.Mailbox
		var err error
		if mailboxesCached {
			boxes, err = store.Mailboxes()
		} else {
			boxes, err = client.MyMailboxes(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("list mailboxes: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(boxes)
		}

		if len(boxes) == 0 {
			fmt.Println("No mailboxes connected.")
			return nil
		}
		for _, m := range boxes {
			provider := m.Provider
			if provider == "" {
				provider = display.AccountLabel(m.Email)
			}
			fmt.Printf("  %s %-34s %-10s %s\n",
				display.StatusDot(m.Status),
				m.Email,
				display.Dim.Render(provider),
				display.Dim.Render(m.ID.String()),
			)
		}
		return nil
	},
}

func init() {
	mailboxesCmd.Flags().BoolVar(&mailboxesCached, "cached", false, "Read from the local cache instead of the portal")
	rootCmd.AddCommand(mailboxesCmd)
}
