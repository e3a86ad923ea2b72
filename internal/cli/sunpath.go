package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/pkg/config"
	"github.com/pvlab/sunrack/pkg/solar"
)

// sunpathCommand creates the sunpath command for inspecting sun positions.
func (c *CLI) sunpathCommand() *cobra.Command {
	var (
		latitude  float64
		longitude float64
		dateStr   string
	)

	cmd := &cobra.Command{
		Use:   "sunpath",
		Short: "Print hourly sun positions for a date and location",
		Long: `Print hourly sun positions for a date and location.

Defaults to the winter solstice, the design day for row spacing: the sun
is lowest then, so a layout that clears its shadows clears every other
day of the year too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := solar.WinterSolstice(time.Now().UTC().Year())
			if dateStr != "" {
				var err error
				if date, err = time.Parse("2006-01-02", dateStr); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", dateStr)
				}
			}

			path, err := solar.SunPath(latitude, longitude, date)
			if err != nil {
				return err
			}
			worst, err := solar.WorstCaseElevation(latitude)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Sun path for %.4f°, %.4f° on %s",
				latitude, longitude, date.Format("2006-01-02"))))
			printKeyValue("design elev", fmt.Sprintf("%.2f°", worst))
			printNewline()

			fmt.Printf("  %-6s %10s %10s\n", "hour", "elevation", "azimuth")
			for _, pos := range path {
				if pos.Elevation <= 0 {
					continue
				}
				fmt.Printf("  %02d:00  %9.2f° %9.2f°\n", pos.Hour, pos.Elevation, pos.Azimuth)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&latitude, "lat", config.DefaultLatitude, "latitude in degrees")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&dateStr, "date", "", "date as YYYY-MM-DD (default: winter solstice)")

	return cmd
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
