package point

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ecomapa/internal/domain/hours"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one collection point",
	Long: `Shows a collection point's details, operating hours included. The
coordinates are reverse geocoded to a readable address; repeated lookups
are served from the local cache.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid point ID %q", args[0])
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		p, err := app.Points.Get(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("#%d %s\n", p.ID, p.Name)
		if p.Description != "" {
			fmt.Println(p.Description)
		}
		fmt.Printf("Location: %s, %s\n", p.Latitude, p.Longitude)
		fmt.Printf("Types: %s\n", joinIDs(p.Types))
		if p.Status != "" {
			fmt.Printf("Status: %s\n", p.Status)
		}

		lat, latErr := strconv.ParseFloat(p.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(p.Longitude, 64)
		if latErr == nil && lonErr == nil {
			if addr, err := app.Geocoder.Reverse(ctx, lat, lon); err == nil && addr.DisplayName != "" {
				fmt.Printf("Address: %s\n", addr.DisplayName)
			}
		}

		if len(p.OperatingHours) > 0 {
			fmt.Println("Operating hours:")
			for _, rec := range p.OperatingHours {
				fmt.Printf("  %s: %s - %s\n", hours.Weekday(rec.DayOfWeek), rec.OpeningTime, rec.ClosingTime)
			}
		}
		for _, img := range p.Images {
			fmt.Printf("Image: %s\n", img)
		}
		return nil
	},
}
