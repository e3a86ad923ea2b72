package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/pkg/config"
	"github.com/pvlab/sunrack/pkg/losses"
	"github.com/pvlab/sunrack/pkg/plan"
	"github.com/pvlab/sunrack/pkg/solar"
)

// shadingCommand creates the shading command for inter-row loss analysis.
func (c *CLI) shadingCommand() *cobra.Command {
	var (
		siteFile  string
		pitch     float64
		length    float64
		tilt      float64
		latitude  float64
		longitude float64
		dateStr   string
	)

	cmd := &cobra.Command{
		Use:   "shading",
		Short: "Inter-row shading losses for a layout",
		Long: `Inter-row shading losses for a layout.

Computes the hourly geometric shading of one row on the next and the
resulting electrical loss under a bypass-diode model, then averages the
loss over the critical 09:00-15:00 window. The row pitch is taken from
the site file's layout parameters unless set explicitly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteFile != "" {
				site, err := config.Load(siteFile)
				if err != nil {
					return fmt.Errorf("load site %s: %w", siteFile, err)
				}
				length = site.Config.ModuleLength
				tilt = site.Config.TiltAngle
				latitude = site.Config.Latitude
				if pitch == 0 {
					elevation, err := solar.WorstCaseElevation(latitude)
					if err != nil {
						return err
					}
					if pitch, err = plan.RowPitch(length, tilt, elevation); err != nil {
						return err
					}
				}
			}
			if pitch == 0 {
				elevation, err := solar.WorstCaseElevation(latitude)
				if err != nil {
					return err
				}
				if pitch, err = plan.RowPitch(length, tilt, elevation); err != nil {
					return err
				}
			}

			date := solar.WinterSolstice(time.Now().UTC().Year())
			if dateStr != "" {
				var err error
				if date, err = time.Parse("2006-01-02", dateStr); err != nil {
					return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", dateStr)
				}
			}

			profile, err := losses.HourlyShadingProfile(pitch, length, tilt, latitude, longitude, date)
			if err != nil {
				return err
			}
			critical := losses.CriticalHoursLoss(profile)

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Shading on %s (pitch %.2f m, tilt %.0f°)",
				date.Format("2006-01-02"), pitch, tilt)))
			printNewline()
			fmt.Printf("  %-6s %10s %9s %9s\n", "hour", "elevation", "shaded", "loss")
			for _, h := range profile {
				fmt.Printf("  %02d:00  %9.2f° %8.1f%% %8.1f%%\n",
					h.Hour, h.SunElevation, h.ShadingFraction*100, h.ElectricalLoss*100)
			}
			printNewline()
			printKeyValue("critical loss", fmt.Sprintf("%.1f%% (09:00-15:00 average)", critical*100))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteFile, "site", "", "site definition file")
	cmd.Flags().Float64Var(&pitch, "pitch", 0, "row pitch in meters (default: non-shading pitch)")
	cmd.Flags().Float64Var(&length, "length", config.DefaultModuleLength, "module length in meters")
	cmd.Flags().Float64Var(&tilt, "tilt", config.DefaultTiltAngle, "module tilt angle in degrees")
	cmd.Flags().Float64Var(&latitude, "lat", config.DefaultLatitude, "latitude in degrees")
	cmd.Flags().Float64Var(&longitude, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&dateStr, "date", "", "date as YYYY-MM-DD (default: winter solstice)")

	return cmd
}
