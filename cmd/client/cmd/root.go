package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
	"ecomapa/internal/app/client/config"
	"ecomapa/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	debug     bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "ecomapa",
	Short: "EcoMapa - directory of recycling collection points",
	Long: `EcoMapa is a command line client for the EcoMapa collection point
directory. It lets you browse recycling points on the map, submit new
points with photos and operating hours, and manage your account.

Credentials are stored locally; the session refreshes itself as needed.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	err := rootCmd.Execute()
	if app != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if serverURL != "" {
		cfg.APIURL = serverURL
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.Session.OnSessionExpired(func() {
		color.Yellow("Session expired. Please log in again with `ecomapa auth login`.")
	})

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "EcoMapa API base URL")
}
