package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemdeck/chemdeck/pkg/filter"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// layoutCommand creates the layout command for computing card placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		noCache     bool
		refresh     bool
		filterFlags []string
		rangeFlags  []string
	)
	opts := pipeline.Options{
		Mode:   pipeline.DefaultMode,
		Width:  pipeline.DefaultWidth,
		Height: pipeline.DefaultHeight,
	}

	cmd := &cobra.Command{
		Use:   "layout <category>",
		Short: "Compute a card layout for a dataset category",
		Long: `Compute a card layout for a dataset category.

The layout command loads a dataset (molecules, particles, hadrons, elements
or alloys), applies any filters, and arranges the entities using the selected
layout mode. The output is a layout.json file that can be rendered to
PNG/SVG/DOT using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Category = args[0]
			set, err := parseFilterFlags(filterFlags, rangeFlags)
			if err != nil {
				return err
			}
			opts.Filters = set
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <category>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode (grid, polarity, mass-order, eightfold, ...)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().StringVar(&opts.SortProperty, "sort", "", "property to sort by in linear modes (e.g. mass, charge)")
	cmd.Flags().StringArrayVar(&filterFlags, "filter", nil, "dimension filter as dim=v1,v2 (repeatable)")
	cmd.Flags().StringArrayVar(&rangeFlags, "range", nil, "numeric filter as field=min:max (repeatable)")

	return cmd
}

// runLayout executes the pipeline up to the layout stage and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatJSON}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Mode))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = opts.Category + ".layout.json"
	}

	if err := os.WriteFile(outputPath, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.EntityCount, len(result.Layout.Placed), result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "chemdeck render "+opts.Category+" -m "+opts.Mode)

	return nil
}

// parseFilterFlags converts --filter and --range flags into a filter set.
// Returns nil when no flags were given so the pipeline skips filtering.
func parseFilterFlags(filterFlags, rangeFlags []string) (*filter.Set, error) {
	if len(filterFlags) == 0 && len(rangeFlags) == 0 {
		return nil, nil
	}

	set := filter.NewSet()
	for _, f := range filterFlags {
		dim, values, ok := strings.Cut(f, "=")
		if !ok || dim == "" || values == "" {
			return nil, fmt.Errorf("invalid filter %q, want dim=v1,v2", f)
		}
		set.Select(dim, strings.Split(values, ","))
	}
	for _, f := range rangeFlags {
		field, window, ok := strings.Cut(f, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid range %q, want field=min:max", f)
		}
		lo, hi, ok := strings.Cut(window, ":")
		if !ok {
			return nil, fmt.Errorf("invalid range %q, want field=min:max", f)
		}
		min, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range minimum %q: %w", lo, err)
		}
		max, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range maximum %q: %w", hi, err)
		}
		set.SetRange(field, filter.Range{Min: min, Max: max, Active: true})
	}
	return &set, nil
}
