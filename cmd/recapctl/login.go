package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mialhq/recapctl/internal/auth"
	"github.com/mialhq/recapctl/internal/display"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the portal and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginEmail == "" {
			return fmt.Errorf("--email is required")
		}
		password := loginPassword
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		token, err := client.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if err := auth.SaveToken(cfg.StateDir, loginEmail, token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		if !quietFlag {
			display.SuccessMsg("Logged in as %s", loginEmail)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate the session and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Logout(cmd.Context()); err != nil {
			// The local token is cleared regardless; a dead server-side
			// session is not worth keeping the user locked in.
			display.ErrorMsg("portal logout: %v", err)
		}
		if err := auth.ClearToken(cfg.StateDir); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		if !quietFlag {
			display.SuccessMsg("Logged out.")
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		me, err := client.Me(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch identity: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(me)
		}

		role := ""
		if me.Role != "" {
			role = display.Dim.Render(" (" + me.Role + ")")
		}
		fmt.Printf("%s%s\n", me.Email, role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
