package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvlab/sunrack/pkg/config"
	"github.com/pvlab/sunrack/pkg/pipeline"
)

// planCommand creates the plan command for running a full placement.
func (c *CLI) planCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		showUsable bool
		rowBands   bool
		showIDs    bool
		targetGCR  float64
	)

	cmd := &cobra.Command{
		Use:   "plan [site.toml]",
		Short: "Place modules inside a site boundary and export the layout",
		Long: `Place modules inside a site boundary and export the layout.

The plan command reads a site definition file (boundary polygon plus layout
parameters), erodes the boundary by the perimeter margin, computes the
shading-safe row pitch from worst-case winter sun geometry, and sweeps
module placements row by row.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats:      parseFormats(formatsStr),
				ShowUsable:   showUsable,
				ShowRowBands: rowBands,
				ShowIDs:      showIDs,
				TargetGCR:    targetGCR,
				Refresh:      refresh,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), csv, svg (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().Float64Var(&targetGCR, "gcr", 0, "target ground coverage ratio for the estimate (default 0.4)")
	cmd.Flags().BoolVar(&showUsable, "usable", false, "draw the eroded usable boundary in SVG output")
	cmd.Flags().BoolVar(&rowBands, "row-bands", false, "alternate module shading per row in SVG output")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "label modules with their IDs in SVG output")

	return cmd
}

// runPlan loads the site file and executes the planning pipeline.
func (c *CLI) runPlan(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	site, err := config.Load(input)
	if err != nil {
		return fmt.Errorf("load site %s: %w", input, err)
	}
	opts.Site = site.Boundary
	opts.Config = site.Config
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	name := site.Name
	if name == "" {
		name = filepath.Base(input)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Planning %s...", name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Planning failed")
		return fmt.Errorf("plan: %w", err)
	}
	spinner.Stop()

	printSuccess("Placed %s modules in %s rows (%.1f kWp)",
		StyleNumber.Render(fmt.Sprintf("%d", result.Layout.TotalModules)),
		StyleNumber.Render(fmt.Sprintf("%d", result.Layout.Rows)),
		result.Layout.CapacityKWp)
	printDetail("pitch %.2f m · spacing %.2f m · GCR %.2f · usable %.0f m²",
		result.Layout.RowPitch, result.Layout.RowSpacing,
		result.Layout.ActualGCR, result.Layout.UsableArea)
	printStats(result.Layout.TotalModules, result.Layout.Rows, result.CacheInfo.PlanHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each artifact to disk. With one format the output
// flag names the file; with several it is used as a base path.
func writeArtifacts(p artifactWriteParams) error {
	base := p.output
	if base == "" {
		base = strings.TrimSuffix(p.input, filepath.Ext(p.input))
	}
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if p.output != "" && len(p.formats) == 1 {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
