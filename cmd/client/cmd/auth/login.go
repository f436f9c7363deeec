package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to EcoMapa",
	Long: `Authenticate against the EcoMapa server.

The token pair is stored locally, so following commands run without
logging in again until the session expires.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Auth.Login(ctx, email, string(password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		user, err := app.Auth.Me(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		color.Green("Logged in as %s %s <%s>", user.FirstName, user.LastName, user.Email)
		return nil
	},
}
