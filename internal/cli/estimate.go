package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/pkg/config"
	"github.com/pvlab/sunrack/pkg/plan"
)

// estimateCommand creates the estimate command for area-based sizing.
func (c *CLI) estimateCommand() *cobra.Command {
	var (
		siteFile  string
		siteArea  float64
		length    float64
		width     float64
		power     float64
		targetGCR float64
		latitude  float64
		tilt      float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate module count and capacity from site area",
		Long: `Estimate module count and capacity from site area.

The estimate command answers "how many modules fit?" from aggregate area
alone, without polygon geometry. The target GCR is clamped into the
buildable range; the row pitch is the wider of the non-shading pitch and
the pitch the target GCR implies.

Pass --site to take area, latitude, and module parameters from a site
definition file, or set them individually with flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteFile != "" {
				site, err := config.Load(siteFile)
				if err != nil {
					return fmt.Errorf("load site %s: %w", siteFile, err)
				}
				usable, err := plan.UsableArea(site.Boundary, site.Config.Margin)
				if err != nil {
					return err
				}
				siteArea = usable.Area()
				length = site.Config.ModuleLength
				width = site.Config.ModuleWidth
				power = site.Config.ModulePower
				latitude = site.Config.Latitude
				tilt = site.Config.TiltAngle
			}

			dims := plan.ModuleDims{Length: length, Width: width, Power: power}
			estimate, err := plan.Optimize(siteArea, dims, targetGCR, latitude, tilt)
			if err != nil {
				return err
			}
			if estimate.TargetGCR != targetGCR {
				printWarning("target GCR %.2f clamped to %.2f", targetGCR, estimate.TargetGCR)
			}

			printSuccess("Recommended %s modules (%.1f kWp)",
				StyleNumber.Render(fmt.Sprintf("%d", estimate.RecommendedModules)),
				estimate.CapacityKWp)
			printKeyValue("row pitch", fmt.Sprintf("%.2f m", estimate.RowPitch))
			printKeyValue("gcr", fmt.Sprintf("%.3f (target %.3f)", estimate.GCR, estimate.TargetGCR))
			printKeyValue("module area", fmt.Sprintf("%.2f m²", estimate.ModuleArea))
			printKeyValue("total area", fmt.Sprintf("%.0f m²", estimate.TotalModuleArea))
			printKeyValue("sun elevation", fmt.Sprintf("%.2f°", estimate.SolarElevation))
			printNextStep("Run a full placement", "sunrack plan site.toml")
			return nil
		},
	}

	cmd.Flags().StringVar(&siteFile, "site", "", "site definition file (overrides area/module flags)")
	cmd.Flags().Float64Var(&siteArea, "area", 10000, "usable site area in square meters")
	cmd.Flags().Float64Var(&length, "length", config.DefaultModuleLength, "module length in meters")
	cmd.Flags().Float64Var(&width, "width", config.DefaultModuleWidth, "module width in meters")
	cmd.Flags().Float64Var(&power, "power", config.DefaultModulePower, "module power in watts")
	cmd.Flags().Float64Var(&targetGCR, "gcr", 0.4, "target ground coverage ratio")
	cmd.Flags().Float64Var(&latitude, "lat", config.DefaultLatitude, "site latitude in degrees")
	cmd.Flags().Float64Var(&tilt, "tilt", config.DefaultTiltAngle, "module tilt angle in degrees")

	return cmd
}
