package geo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ecomapa/cmd/client/cmd/types"
	"ecomapa/internal/app/client"
	"ecomapa/internal/domain/geo"
)

// GeoCmd is the parent command for geocoding lookups.
var GeoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Geocoding lookups",
	Long:  `Resolve an address to coordinates or coordinates to an address.`,
}

var (
	street       string
	number       string
	postcode     string
	neighborhood string
)

var ForwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Resolve an address to coordinates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		coords, err := app.Geocoder.Forward(ctx, geo.StreetAddress{
			Street:       street,
			Number:       number,
			Postcode:     postcode,
			Neighborhood: neighborhood,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s, %s\n", geo.Format6(coords.Latitude), geo.Format6(coords.Longitude))
		return nil
	},
}

var ReverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lon>",
	Short: "Resolve coordinates to an address",
	Long: `Resolves coordinates to a readable address. Results are cached
locally, so looking up the same coordinates again works offline.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		addr, err := app.Geocoder.Reverse(ctx, lat, lon)
		if err != nil {
			return err
		}

		fmt.Println(addr.DisplayName)
		if addr.Road != "" {
			fmt.Printf("Street: %s %s\n", addr.Road, addr.HouseNumber)
		}
		if addr.Suburb != "" {
			fmt.Printf("Neighborhood: %s\n", addr.Suburb)
		}
		if addr.City != "" {
			fmt.Printf("City: %s\n", addr.City)
		}
		if addr.Postcode != "" {
			fmt.Printf("Postcode: %s\n", addr.Postcode)
		}
		return nil
	},
}

func init() {
	ForwardCmd.Flags().StringVar(&street, "street", "", "street name")
	ForwardCmd.Flags().StringVar(&number, "number", "", "street number")
	ForwardCmd.Flags().StringVar(&postcode, "postcode", "", "postal code")
	ForwardCmd.Flags().StringVar(&neighborhood, "neighborhood", "", "neighborhood")
	_ = ForwardCmd.MarkFlagRequired("street")
}
