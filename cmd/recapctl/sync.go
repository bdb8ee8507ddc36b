package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	msync "github.com/mialhq/recapctl/internal/sync"
	"github.com/spf13/cobra"
)

var syncAdmin bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull mailboxes and profiles from the portal into the local cache",
	Long:  "Sync remote collections into the snapshot cache so stats and --cached listings work offline.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !quietFlag {
			fmt.Println("Syncing from portal...")
		}

		summary, err := msync.Pull(cmd.Context(), store, client, syncAdmin, quietFlag)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		if !quietFlag {
			for _, c := range summary.Collections {
				if c.Error != "" {
					continue
				}
				fmt.Printf("  %-10s %4d\n", c.Collection, c.Fetched)
			}
			display.SuccessMsg("Done! %d records cached.", summary.Total)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncAdmin, "admin", false, "Also sync admin collections (leads)")
	rootCmd.AddCommand(syncCmd)
}
