package point

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var minePage int

var MineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		page, err := app.Points.MySubmits(ctx, minePage)
		if err != nil {
			return fmt.Errorf("failed to list submissions: %w", err)
		}

		if page.Count == 0 {
			fmt.Println("You have no submissions yet.")
			return nil
		}

		fmt.Printf("Submissions: %d\n\n", page.Count)
		printPoints(page.Results)

		if page.Next != nil {
			fmt.Printf("\nMore results available: --page %d\n", minePage+1)
		}
		return nil
	},
}

func init() {
	MineCmd.Flags().IntVarP(&minePage, "page", "p", 1, "result page")
}
