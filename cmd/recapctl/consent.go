package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/spf13/cobra"
)

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Manage analytics consent",
	Long: `Show or change the analytics opt-in.

No telemetry leaves this machine unless consent has been explicitly
accepted. Declining takes effect immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recorded := consentStore.Recorded()
		granted := consentStore.HasConsent()

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]bool{"recorded": recorded, "analytics": granted})
		}

		switch {
		case !recorded:
			fmt.Println("Consent: not yet answered (analytics off)")
		case granted:
			fmt.Println("Consent: analytics " + display.Success.Render("on"))
		default:
			fmt.Println("Consent: analytics " + display.Dim.Render("off"))
		}
		return nil
	},
}

var consentAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Opt in to analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := consentStore.SetConsent(true); err != nil {
			return fmt.Errorf("save consent: %w", err)
		}
		// The pageview at startup was gated off; now that consent holds,
		// this invocation's view starts here.
		page.Start()
		if !quietFlag {
			display.SuccessMsg("Analytics enabled.")
		}
		return nil
	},
}

var consentDeclineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Opt out of analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := consentStore.SetConsent(false); err != nil {
			return fmt.Errorf("save consent: %w", err)
		}
		if !quietFlag {
			display.SuccessMsg("Analytics disabled.")
		}
		return nil
	},
}

func init() {
	consentCmd.AddCommand(consentAcceptCmd)
	consentCmd.AddCommand(consentDeclineCmd)
	rootCmd.AddCommand(consentCmd)
}
