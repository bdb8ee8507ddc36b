package main

import (
	"encoding/json"
	"fmt"

	"github.com/mialhq/recapctl/internal/admintree"
	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/editor"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations (requires the admin role)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List portal users",
	RunE: func(cmd *cobra.Command, args []string) error {
		browser := admintree.New(admintree.PortalAPI(client))
		users, err := browser.LoadUsers(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(users)
		}

		for _, u := range users {
			active := display.StatusDot(types.StatusInactive)
			if u.Active {
				active = display.StatusDot(types.StatusActive)
			}
			fmt.Printf("  %s %-34s %-8s %2d mailboxes  %s\n",
				active,
				u.Email,
				display.Dim.Render(u.Role),
				browser.MailboxCount(u),
				display.Dim.Render(display.TimeAgo(u.CreatedAt)),
			)
		}
		return nil
	},
}

var (
	treeUser     string
	treeProfiles bool
)

var adminTreeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Browse users, their mailboxes, and their recap profiles",
	Long: `Walk the users -> mailboxes -> recap-profiles hierarchy.

Children load lazily level by level, exactly like the dashboard browser:
each parent is fetched once and cached for the rest of the run.

Examples:
  recapctl admin tree                      # users with mailboxes
  recapctl admin tree --profiles           # include recap profiles
  recapctl admin tree --user someone@x.be  # one user's subtree`,
	RunE: func(cmd *cobra.Command, args []string) error {
		browser := admintree.New(admintree.PortalAPI(client))
		users, err := browser.LoadUsers(cmd.Context())
		if err != nil {
			return err
		}

		for _, u := range users {
			if treeUser != "" && u.Email != treeUser && u.ID.String() != treeUser {
				continue
			}
			fmt.Printf("%s %s  %s\n",
				display.Bold.Render(u.Email),
				display.Dim.Render("("+u.Role+")"),
				display.Dim.Render(fmt.Sprintf("%d mailboxes", browser.MailboxCount(u))),
			)

			boxes, _, err := browser.ExpandUser(cmd.Context(), u.ID)
			if err != nil {
				display.ErrorMsg("%v", err)
				continue
			}
			for i, m := range boxes {
				connector := "├─"
				if i == len(boxes)-1 {
					connector = "└─"
				}
				display.TreeRow(0, connector, m.Email, m.Provider+" · "+m.ID.String())

				if !treeProfiles {
					continue
				}
				profiles, _, err := browser.ExpandMailbox(cmd.Context(), m.ID)
				if err != nil {
					display.ErrorMsg("%v", err)
					continue
				}
				for j, p := range profiles {
					pc := "├─"
					if j == len(profiles)-1 {
						pc = "└─"
					}
					display.TreeRow(1, pc,
						display.StatusDot(p.Status)+" "+p.Recipient+" at "+p.SendTime,
						p.ID.String())
				}
			}
		}
		return nil
	},
}

var adminRmUserYes bool

var adminRmUserCmd = &cobra.Command{
	Use:   "rm-user ID",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !adminRmUserYes && !confirm(fmt.Sprintf("Delete user %s?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		browser := admintree.New(admintree.PortalAPI(client))
		if err := browser.DeleteUser(cmd.Context(), types.FlexID(args[0])); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("User %s deleted", args[0])
		}
		return nil
	},
}

var adminRmMailboxYes bool

var adminRmMailboxCmd = &cobra.Command{
	Use:   "rm-mailbox ID",
	Short: "Delete an email account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !adminRmMailboxYes && !confirm(fmt.Sprintf("Delete mailbox %s?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := client.AdminDeleteMailbox(cmd.Context(), types.FlexID(args[0])); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Mailbox %s deleted", args[0])
		}
		return nil
	},
}

var (
	adminProfileMailbox string
	adminAssignEmail    string
	adminTimezone       string
	adminDebug          bool
)

var adminProfileCmd = &cobra.Command{
	Use:   "profile ID",
	Short: "Show a recap profile (any user's)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := client.AdminProfile(cmd.Context(), types.FlexID(args[0]))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var adminEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a recap profile (any user's)",
	Long: `Edit a recap profile through the administrative endpoints.

--mailbox scopes the profile list used for the edit; it is the mailbox the
profile belongs to (shown by 'recapctl admin tree --profiles').`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminProfileMailbox == "" {
			return fmt.Errorf("--mailbox is required")
		}
		ed := editor.New(editor.AdminAPI(client, types.FlexID(adminProfileMailbox)), true)
		if err := ed.Reload(cmd.Context()); err != nil {
			return err
		}
		ed.OpenForEdit(types.FlexID(args[0]))
		if ed.View() != editor.ViewEditor {
			return fmt.Errorf("profile %q not found under mailbox %q", args[0], adminProfileMailbox)
		}

		applyProfileFlags(cmd, ed.Draft())
		if cmd.Flags().Changed("assign") {
			ed.Draft().AssignedEmail = adminAssignEmail
		}
		if cmd.Flags().Changed("timezone") {
			ed.Draft().Timezone = adminTimezone
		}
		if cmd.Flags().Changed("debug") {
			ed.Draft().Debug = adminDebug
		}

		if err := ed.Save(cmd.Context()); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s updated", args[0])
		}
		return nil
	},
}

var adminToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip a recap profile between active and inactive (any user's)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminProfileMailbox == "" {
			return fmt.Errorf("--mailbox is required")
		}
		ed := editor.New(editor.AdminAPI(client, types.FlexID(adminProfileMailbox)), true)
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

var adminRmProfileYes bool

var adminRmProfileCmd = &cobra.Command{
	Use:   "rm-profile ID",
	Short: "Delete a recap profile (any user's)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !adminRmProfileYes && !confirm(fmt.Sprintf("Delete profile %s?", args[0])) {
			fmt.Println("Aborted.")
			return nil
		}
		if err := client.AdminDeleteProfile(cmd.Context(), types.FlexID(args[0])); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s deleted", args[0])
		}
		return nil
	},
}

var adminAssignCmd = &cobra.Command{
	Use:   "assign PROFILE_ID USER_EMAIL",
	Short: "Assign a recap profile to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.AdminAssign(cmd.Context(), types.FlexID(args[0]), args[1]); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s assigned to %s", args[0], args[1])
		}
		return nil
	},
}

var adminUnassignCmd = &cobra.Command{
	Use:   "unassign PROFILE_ID",
	Short: "Remove a recap profile's assignment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.AdminUnassign(cmd.Context(), types.FlexID(args[0])); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Assignment removed from %s", args[0])
		}
		return nil
	},
}

func init() {
	adminTreeCmd.Flags().StringVar(&treeUser, "user", "", "Limit to one user (email or id)")
	adminTreeCmd.Flags().BoolVar(&treeProfiles, "profiles", false, "Include recap profiles")
	adminRmUserCmd.Flags().BoolVarP(&adminRmUserYes, "yes", "y", false, "Skip confirmation")
	adminRmMailboxCmd.Flags().BoolVarP(&adminRmMailboxYes, "yes", "y", false, "Skip confirmation")
	adminRmProfileCmd.Flags().BoolVarP(&adminRmProfileYes, "yes", "y", false, "Skip confirmation")

	registerProfileFlags(adminEditCmd)
	adminEditCmd.Flags().StringVar(&adminProfileMailbox, "mailbox", "", "Mailbox id the profile belongs to (required)")
	adminEditCmd.Flags().StringVar(&adminAssignEmail, "assign", "", "Assigned user email")
	adminEditCmd.Flags().StringVar(&adminTimezone, "timezone", "", "Profile timezone")
	adminEditCmd.Flags().BoolVar(&adminDebug, "debug", false, "Enable the debug flag")
	adminToggleCmd.Flags().StringVar(&adminProfileMailbox, "mailbox", "", "Mailbox id the profile belongs to (required)")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminTreeCmd)
	adminCmd.AddCommand(adminRmUserCmd)
	adminCmd.AddCommand(adminRmMailboxCmd)
	adminCmd.AddCommand(adminProfileCmd)
	adminCmd.AddCommand(adminEditCmd)
	adminCmd.AddCommand(adminToggleCmd)
	adminCmd.AddCommand(adminRmProfileCmd)
	adminCmd.AddCommand(adminAssignCmd)
	adminCmd.AddCommand(adminUnassignCmd)
	rootCmd.AddCommand(adminCmd)
}
