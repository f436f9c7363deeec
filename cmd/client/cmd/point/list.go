package point

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ecomapa/internal/domain/point"
)

var listTypes []int

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collection points",
	Long: `Lists the collection points shown on the map, optionally narrowed
to points accepting the given collection types.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		points, err := app.Points.List(ctx, point.ListFilter{Types: listTypes})
		if err != nil {
			return fmt.Errorf("failed to list collection points: %w", err)
		}

		if len(points) == 0 {
			fmt.Println("No collection points found.")
			return nil
		}

		printPoints(points)
		return nil
	},
}

func printPoints(points []point.Point) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAT\tLON\tTYPES\tSTATUS")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Latitude, p.Longitude, joinIDs(p.Types), p.Status)
	}
	w.Flush()
}

func joinIDs(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ",")
}

func init() {
	ListCmd.Flags().IntSliceVarP(&listTypes, "types", "t", nil, "only points accepting these collection type IDs")
}
