package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/editor"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var profilesCached bool

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"pr"},
	Short:   "Manage recap automations",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recap profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		var profiles []*types.RecapProfile
		var err error
		if profilesCached {
			profiles, err = store.Profiles()
		} else {
			profiles, err = client.MyProfiles(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("list profiles: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		}

		if len(profiles) == 0 {
			fmt.Println("No recap profiles yet. Run 'recapctl profiles create' to add one.")
			return nil
		}
		for _, p := range profiles {
			fmt.Printf("  %s %s %-28s %s  %s\n",
				display.StatusDot(p.Status),
				display.AudioBadge(p.AudioEnabled),
				display.Truncate(p.Recipient, 28),
				p.SendTime,
				display.Dim.Render(p.ID.String()),
			)
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Display one recap profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := editor.New(editor.UserAPI(client), false)
		if err := ed.Reload(cmd.Context()); err != nil {
			return err
		}
		p := ed.Get(types.FlexID(args[0]))
		if p == nil {
			return fmt.Errorf("profile %q not found", args[0])
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Printf("Profile: %s\n", display.Bold.Render(p.ID.String()))
		fmt.Printf("  Status:     %s %s\n", display.StatusDot(p.Status), display.StatusLabel(p.Status))
		fmt.Printf("  Mailbox:    %s\n", p.EmailAccountID)
		fmt.Printf("  Recipient:  %s\n", p.Recipient)
		fmt.Printf("  Schedule:   daily at %s\n", p.SendTime)
		fmt.Printf("  Window:     day %+d to %+d, %s-%s\n", p.StartDays, p.EndDays, p.StartTime, p.EndTime)
		fmt.Printf("  Filters:    unread-only=%v spam=%v marketing=%v mark-read=%v\n",
			p.UnreadOnly, p.FilterSpam, p.FilterMarketing, p.MarkAsRead)
		if len(p.SendersAllow) > 0 {
			fmt.Printf("  Senders:    %v\n", p.SendersAllow)
		}
		if len(p.SendersExclude) > 0 {
			fmt.Printf("  Excluded:   %v\n", p.SendersExclude)
		}
		if p.AudioEnabled {
			fmt.Printf("  Audio:      voice=%s speed=%.2g lang=%s\n", p.VoiceID, p.Speed, p.Language)
		}
		if p.AssignedEmail != "" {
			fmt.Printf("  Assigned:   %s\n", p.AssignedEmail)
		}
		return nil
	},
}

var profilesToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip a profile between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := editor.New(editor.UserAPI(client), false)
		if err := ed.Reload(cmd.Context()); err != nil {
			return err
		}
		next, err := ed.ToggleStatus(cmd.Context(), types.FlexID(args[0]))
		if err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s is now %s", args[0], next)
		}
		return nil
	},
}

var profilesDeleteYes bool

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a recap profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed := profilesDeleteYes
		if !confirmed {
			confirmed = confirm(fmt.Sprintf("Delete profile %s?", args[0]))
		}

		ed := editor.New(editor.UserAPI(client), false)
		if err := ed.Reload(cmd.Context()); err != nil {
			return err
		}
		if err := ed.Delete(cmd.Context(), types.FlexID(args[0]), confirmed); err != nil {
			if err == editor.ErrNotConfirmed {
				fmt.Println("Aborted.")
				return nil
			}
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s deleted", args[0])
		}
		return nil
	},
}

var profilesRunCmd = &cobra.Command{
	Use:   "run ID",
	Short: "Trigger an immediate recap run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.RunNow(cmd.Context(), types.FlexID(args[0])); err != nil {
			return fmt.Errorf("run profile: %w", err)
		}
		if !quietFlag {
			display.SuccessMsg("Recap run queued for %s", args[0])
		}
		return nil
	},
}

var profilesBufferCmd = &cobra.Command{
	Use:   "buffer ID",
	Short: "Show the pending recap buffer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := client.Buffer(cmd.Context(), types.FlexID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch buffer: %w", err)
		}
		var pretty any
		if err := json.Unmarshal(buf, &pretty); err != nil {
			// Not JSON, print as-is.
			fmt.Println(string(buf))
			return nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(pretty)
	},
}

var profilesAudioOut string

var profilesAudioCmd = &cobra.Command{
	Use:   "audio ID",
	Short: "Download the latest audio recap (mp3)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := client.Audio(cmd.Context(), types.FlexID(args[0]))
		if err != nil {
			return err
		}
		defer body.Close()

		out := profilesAudioOut
		if out == "" {
			out = "recap-" + args[0] + ".mp3"
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		n, err := io.Copy(f, body)
		if err != nil {
			return fmt.Errorf("download audio: %w", err)
		}
		page.Click("audio_download")
		if !quietFlag {
			display.SuccessMsg("Saved %s (%d bytes)", out, n)
		}
		return nil
	},
}

// confirm asks an interactive y/N question on stderr.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

func init() {
	profilesListCmd.Flags().BoolVar(&profilesCached, "cached", false, "Read from the local cache instead of the portal")
	profilesDeleteCmd.Flags().BoolVarP(&profilesDeleteYes, "yes", "y", false, "Skip confirmation")
	profilesAudioCmd.Flags().StringVarP(&profilesAudioOut, "out", "o", "", "Output file (default: recap-ID.mp3)")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesToggleCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	profilesCmd.AddCommand(profilesRunCmd)
	profilesCmd.AddCommand(profilesBufferCmd)
	profilesCmd.AddCommand(profilesAudioCmd)
	rootCmd.AddCommand(profilesCmd)
}
