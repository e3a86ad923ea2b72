package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/pkg/config"
	"github.com/pvlab/sunrack/pkg/losses"
)

// soilingCommand creates the soiling command for cleaning-schedule analysis.
func (c *CLI) soilingCommand() *cobra.Command {
	var (
		tilt float64
		zone string
	)

	cmd := &cobra.Command{
		Use:   "soiling",
		Short: "Seasonal soiling losses and cleaning schedule comparison",
		Long: `Seasonal soiling losses and cleaning schedule comparison.

Simulates a year of dust accumulation with seasonal rates and tilt
correction, and reports the average annual loss for standard cleaning
frequencies from none to twice weekly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := losses.CompareCleaningSchedules(losses.ClimateZone(zone), tilt)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Soiling losses, %s zone, tilt %.0f°", zone, tilt)))
			printNewline()
			fmt.Printf("  %-18s %12s\n", "cleanings/year", "avg loss")
			for _, opt := range options {
				label := fmt.Sprintf("%d", opt.CleaningsPerYear)
				if opt.CleaningsPerYear == 0 {
					label = "none"
				}
				fmt.Printf("  %-18s %11.2f%%\n", label, opt.AnnualLoss)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&tilt, "tilt", config.DefaultTiltAngle, "module tilt angle in degrees")
	cmd.Flags().StringVar(&zone, "zone", string(losses.ClimateGujarat), "climate zone")

	return cmd
}
