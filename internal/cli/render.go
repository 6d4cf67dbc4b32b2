package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

// renderCommand creates the render command for generating visual artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output      string
		formatsStr  string
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
		Use:   "render <category>",
		Short: "Render a dataset category to PNG, SVG, DOT or JSON",
		Long: `Render a dataset category to one or more artifact formats.

The render command runs the full pipeline: it loads the dataset, applies
filters, computes the layout, and renders the result. PNG output draws the
cards directly; SVG and DOT route through Graphviz, which suits the network
modes (force-network, quark-tree). Card fills can encode a numeric property
as a color gradient via --fill.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Category = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			set, err := parseFilterFlags(filterFlags, rangeFlags)
			if err != nil {
				return err
			}
			opts.Filters = set
			opts.Refresh = refresh
			return c.runRender(withLogger(cmd.Context(), c.Logger), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", opts.Mode, "layout mode (grid, polarity, mass-order, eightfold, ...)")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().StringVar(&opts.SortProperty, "sort", "", "property to sort by in linear modes (e.g. mass, charge)")
	cmd.Flags().StringArrayVar(&filterFlags, "filter", nil, "dimension filter as dim=v1,v2 (repeatable)")
	cmd.Flags().StringArrayVar(&rangeFlags, "range", nil, "numeric filter as field=min:max (repeatable)")

	// Encoding flags
	cmd.Flags().StringVar(&opts.FillProperty, "fill", "", "numeric property to encode as card fill color (e.g. mass)")
	cmd.Flags().StringVar(&opts.SizeProperty, "size", "", "numeric property to encode as a glow ring width")
	cmd.Flags().StringVar(&opts.LowColor, "low-color", "", "gradient color for the property minimum (hex)")
	cmd.Flags().StringVar(&opts.HighColor, "high-color", "", "gradient color for the property maximum (hex)")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s as %s...", opts.Category, strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", opts.Category, err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d cards", len(result.Layout.Placed)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	base := artifactBase(output, opts.Category, opts.Formats)
	for _, format := range opts.Formats {
		path := base + "." + format
		if len(opts.Formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.EntityCount, len(result.Layout.Placed), result.CacheInfo.RenderHit)

	return nil
}

// artifactBase derives the base output path. A format extension on the
// output flag is stripped so "mols.png" and "mols" behave the same when
// multiple formats are requested.
func artifactBase(output, category string, formats []string) string {
	if output == "" {
		return category
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	for _, f := range formats {
		if f == ext {
			return strings.TrimSuffix(output, "."+ext)
		}
	}
	return output
}
