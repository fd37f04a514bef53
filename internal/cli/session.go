package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ironhall/kiosk/internal/model"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"email":    email,
				"password": password,
			}
			var result struct {
				Email string `json:"email"`
			}

			if err := api.Post(cmd.Context(), "/login", req, &result); err != nil {
				return err
			}

			// Save the session cookie for later invocations
			token := sessionToken(api)
			if token == "" {
				return fmt.Errorf("server did not set a session cookie")
			}
			if err := cfg.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			actions.SetUser(result.Email)

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged in as " + result.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Staff email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the staff session",
		RunE: func(cmd *cobra.Command, args []string) error {
			actions.Logout(cmd.Context())

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := api.Get(cmd.Context(), "/health", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show session, sheets, and optional member lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/bootstrap"
			if clientID != "" {
				path += "?client=" + url.QueryEscape(clientID)
			}

			var result model.Bootstrap
			if err := api.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			// Seed the local store the way the kiosk does at startup
			actions.Seed(result)

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "Badge id to resolve in the same request")

	return cmd
}
