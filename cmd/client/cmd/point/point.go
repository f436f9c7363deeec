package point

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
)

// PointCmd is the parent command for collection point operations.
var PointCmd = &cobra.Command{
	Use:   "point",
	Short: "Collection point operations",
	Long:  `Browse, submit and manage recycling collection points.`,
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return app, nil
}
