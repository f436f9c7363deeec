package point

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ecomapa/internal/app/client"
	"ecomapa/internal/domain/geo"
	"ecomapa/internal/domain/hours"
	"ecomapa/internal/domain/point"
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit a new collection point",
	Long: `Interactive submission of a new collection point.

You will be asked for the basic info, the location (exact coordinates or
a street address that gets geocoded), and the operating hours. Images are
uploaded after the point is created.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		categories, err := app.Points.Categories(ctx)
		if err != nil {
			return fmt.Errorf("failed to load collection types: %w", err)
		}

		draft := &point.Draft{Hours: hours.NewSchedule()}

		fmt.Println("=== New collection point ===")
		fmt.Println()

		if draft.Name, err = prompt(reader, "Name: "); err != nil {
			return err
		}
		if draft.Description, err = prompt(reader, "Description: "); err != nil {
			return err
		}

		fmt.Println("Accepted collection types:")
		for _, c := range categories {
			fmt.Printf("  %d. %s\n", c.ID, c.Name)
		}
		typesLine, err := prompt(reader, "Type IDs (comma separated): ")
		if err != nil {
			return err
		}
		if draft.Types, err = parseIDs(typesLine); err != nil {
			return err
		}

		imagesLine, err := prompt(reader, "Image files (comma separated paths): ")
		if err != nil {
			return err
		}
		for _, p := range splitList(imagesLine) {
			draft.Images = append(draft.Images, point.Image{
				URI:      p,
				Filename: filenameOf(p),
			})
		}

		if err := fillLocation(reader, draft); err != nil {
			return err
		}
		if err := fillHours(reader, &draft.Hours); err != nil {
			return err
		}

		wiz := app.NewWizard(draft)
		fmt.Println("Submitting...")

		result, err := wiz.Submit(ctx)
		switch {
		case errors.Is(err, client.ErrPartialUpload):
			color.Green("Collection point #%d created.", result.Point.ID)
			color.Yellow("%d of %d images uploaded:", result.Uploaded, len(draft.Images))
			for _, imgErr := range result.ImageErrors {
				color.Yellow("  %s: %v", imgErr.Filename, imgErr.Err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("submission failed at step %q: %w", wiz.Step(), err)
		}

		color.Green("Collection point #%d created with %d image(s).", result.Point.ID, result.Uploaded)
		return nil
	},
}

func fillLocation(reader *bufio.Reader, draft *point.Draft) error {
	answer, err := prompt(reader, "Do you know the exact coordinates? [y/N]: ")
	if err != nil {
		return err
	}

	if strings.EqualFold(answer, "y") {
		latLine, err := prompt(reader, "Latitude: ")
		if err != nil {
			return err
		}
		lat, err := strconv.ParseFloat(latLine, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", latLine)
		}
		lonLine, err := prompt(reader, "Longitude: ")
		if err != nil {
			return err
		}
		lon, err := strconv.ParseFloat(lonLine, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", lonLine)
		}
		draft.Coordinates = &geo.Coordinates{Latitude: lat, Longitude: lon}
		return nil
	}

	if draft.Address.Street, err = prompt(reader, "Street: "); err != nil {
		return err
	}
	if draft.Address.Number, err = prompt(reader, "Number: "); err != nil {
		return err
	}
	if draft.Address.Postcode, err = prompt(reader, "Postcode: "); err != nil {
		return err
	}
	if draft.Address.Neighborhood, err = prompt(reader, "Neighborhood: "); err != nil {
		return err
	}
	return nil
}

func fillHours(reader *bufio.Reader, schedule *hours.Schedule) error {
	answer, err := prompt(reader, "Same hours Monday through Friday? [y/N]: ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "y") {
		open, close, err := promptTimes(reader)
		if err != nil {
			return err
		}
		schedule.Weekdays = hours.DaySelection{Selected: true, Open: open, Close: close}
	}

	fmt.Println("Per-day hours (override weekdays, add weekend). Empty day to finish.")
	for {
		dayLine, err := prompt(reader, "Day [1=Mon .. 7=Sun]: ")
		if err != nil {
			return err
		}
		if dayLine == "" {
			return nil
		}
		day, err := strconv.Atoi(dayLine)
		if err != nil || day < 1 || day > 7 {
			fmt.Println("Enter a number from 1 to 7.")
			continue
		}
		open, close, err := promptTimes(reader)
		if err != nil {
			return err
		}
		schedule.Days[hours.Weekday(day)] = hours.DaySelection{Selected: true, Open: open, Close: close}
	}
}

func promptTimes(reader *bufio.Reader) (open, close string, err error) {
	if open, err = prompt(reader, "  Opens at [HH:MM, empty for 00:00]: "); err != nil {
		return "", "", err
	}
	if close, err = prompt(reader, "  Closes at [HH:MM, empty for 23:59]: "); err != nil {
		return "", "", err
	}
	return open, close, nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseIDs(line string) ([]int, error) {
	var ids []int
	for _, raw := range splitList(line) {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid type ID %q", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func filenameOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
