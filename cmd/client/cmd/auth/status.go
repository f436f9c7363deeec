package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	Long: `Checks the stored tokens against the server, refreshing the access
token if it has gone stale, and prints the logged-in profile.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		authenticated, err := app.Session.VerifyOrRefreshTokens(ctx)
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if !authenticated {
			color.Yellow("Not logged in.")
			return nil
		}

		user, err := app.Auth.Me(ctx)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		color.Green("Logged in as %s %s <%s>", user.FirstName, user.LastName, user.Email)
		if user.IsStaff {
			fmt.Println("Role: staff")
		}
		return nil
	},
}
