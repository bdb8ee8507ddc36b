package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inbound sales leads",
}

var leadsCached bool

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prospects (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var leads []*types.Lead
		var err error
		if leadsCached {
			leads, err = store.Leads()
		} else {
			leads, err = client.AdminLeads(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("list leads: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		if len(leads) == 0 {
			fmt.Println("No leads.")
			return nil
		}
		for _, l := range leads {
			name := l.FirstName
			if name == "" {
				name = "-"
			}
			fmt.Printf("  %-26s %-16s %-22s %s\n",
				display.Truncate(l.Email, 26),
				display.Truncate(name, 16),
				display.Dim.Render(display.Truncate(l.Source, 22)),
				display.Dim.Render(display.TimeAgo(l.CreatedAt)),
			)
		}
		return nil
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Display one prospect (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lead, err := client.AdminLead(cmd.Context(), types.FlexID(args[0]))
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lead)
		}

		fmt.Printf("Lead: %s\n", display.Bold.Render(lead.Email))
		if lead.FirstName != "" {
			fmt.Printf("  Name:     %s\n", lead.FirstName)
		}
		if lead.Phone != "" {
			fmt.Printf("  Phone:    %s\n", lead.Phone)
		}
		if lead.Company != "" {
			fmt.Printf("  Company:  %s\n", lead.Company)
		}
		if lead.Source != "" {
			fmt.Printf("  Source:   %s\n", lead.Source)
		}
		if lead.Message != "" {
			fmt.Printf("  Message:  %s\n", lead.Message)
		}
		fmt.Printf("  Created:  %s\n", display.TimeAgo(lead.CreatedAt))
		return nil
	},
}

var (
	leadsReplySubject string
	leadsReplyBody    string
)

var leadsReplyCmd = &cobra.Command{
	Use:   "reply ID",
	Short: "Reply to a prospect (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if leadsReplyBody == "" {
			return fmt.Errorf("--body is required")
		}
		if err := client.AdminReplyLead(cmd.Context(), types.FlexID(args[0]), leadsReplySubject, leadsReplyBody); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Reply sent to lead %s", args[0])
		}
		return nil
	},
}

var leadsDeleteYes bool

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a prospect (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !leadsDeleteYes && !confirm(fmt.Sprintf("Delete lead %s?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := client.AdminDeleteLead(cmd.Context(), types.FlexID(args[0])); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Lead %s deleted", args[0])
		}
		return nil
	},
}

var (
	submitEmail   string
	submitName    string
	submitPhone   string
	submitProfile string
	submitMessage string
	submitSource  string
)

var leadsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a marketing lead (public endpoint)",
	Long: `Submit a lead through the public capture endpoint.

UTM tags from the config are folded into the source field, the same way
the marketing pages report them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if submitEmail == "" {
			return fmt.Errorf("--email is required")
		}

		source := submitSource
		if source == "" {
			source = "recapctl"
		}
		if len(cfg.UTM) > 0 {
			var parts []string
			for _, k := range []string{"source", "medium", "campaign", "content"} {
				if v := cfg.UTM[k]; v != "" {
					parts = append(parts, k+":"+v)
				}
			}
			if len(parts) > 0 {
				source += " (" + strings.Join(parts, ", ") + ")"
			}
		}

		lead := &types.Lead{
			Email:       submitEmail,
			FirstName:   submitName,
			Phone:       submitPhone,
			ProfileType: submitProfile,
			Message:     submitMessage,
			Source:      source,
			UserAgent:   "recapctl/" + Version,
		}
		if err := client.SubmitLead(cmd.Context(), cfg.LeadEndpoint, lead); err != nil {
			return err
		}
		page.Conversion("lead_submit")

		if !quietFlag {
			display.SuccessMsg("Lead submitted for %s", submitEmail)
		}
		return nil
	},
}

func init() {
	leadsListCmd.Flags().BoolVar(&leadsCached, "cached", false, "Read from the local cache instead of the portal")
	leadsReplyCmd.Flags().StringVar(&leadsReplySubject, "subject", "", "Reply subject")
	leadsReplyCmd.Flags().StringVar(&leadsReplyBody, "body", "", "Reply body (required)")
	leadsDeleteCmd.Flags().BoolVarP(&leadsDeleteYes, "yes", "y", false, "Skip confirmation")

	leadsSubmitCmd.Flags().StringVar(&submitEmail, "email", "", "Lead email (required)")
	leadsSubmitCmd.Flags().StringVar(&submitName, "name", "", "First name")
	leadsSubmitCmd.Flags().StringVar(&submitPhone, "phone", "", "Phone number")
	leadsSubmitCmd.Flags().StringVar(&submitProfile, "profile-type", "", "Prospect profile type")
	leadsSubmitCmd.Flags().StringVar(&submitMessage, "message", "", "Message")
	leadsSubmitCmd.Flags().StringVar(&submitSource, "source", "", "Source label (default: recapctl)")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsReplyCmd)
	leadsCmd.AddCommand(leadsDeleteCmd)
	leadsCmd.AddCommand(leadsSubmitCmd)
	rootCmd.AddCommand(leadsCmd)
}
