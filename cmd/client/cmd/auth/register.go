package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new EcoMapa account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		reader := bufio.NewReader(os.Stdin)

		firstName, err := prompt(reader, "First name: ")
		if err != nil {
			return err
		}
		lastName, err := prompt(reader, "Last name: ")
		if err != nil {
			return err
		}
		email, err := prompt(reader, "Email: ")
		if err != nil {
			return err
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		fmt.Print("Confirm password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		if string(password) != string(confirm) {
			return errors.New("passwords do not match")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		req := client.RegisterRequest{
			FirstName:       firstName,
			LastName:        lastName,
			Email:           email,
			Password:        string(password),
			ConfirmPassword: string(confirm),
		}
		if err := app.Auth.Register(ctx, req); err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		color.Green("Account created. You are now logged in.")
		return nil
	},
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
