package main

import (
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var (
	contactEmail   string
	contactName    string
	contactMessage string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the public contact form",
	RunE: func(cmd *cobra.Command, args []string) error {
		if contactEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if contactMessage == "" {
			return fmt.Errorf("--message is required")
		}

		err := client.Contact(cmd.Context(), &types.Lead{
			Email:     contactEmail,
			FirstName: contactName,
			Message:   contactMessage,
			Source:    "recapctl",
			UserAgent: "recapctl/" + Version,
		})
		if err != nil {
			return err
		}
		page.Conversion("contact")

		if !quietFlag {
			display.SuccessMsg("Message sent.")
		}
		return nil
	},
}

func init() {
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "Your email (required)")
	contactCmd.Flags().StringVar(&contactName, "name", "", "Your name")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "Message body (required)")
	rootCmd.AddCommand(contactCmd)
}
