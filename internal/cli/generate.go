package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/pipeline"
	"github.com/rgallet/mandagen/pkg/preset"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	flags  mandala.GenerationConfig // flag-bound values, applied when set
	format string                   // page format flag, parsed after binding
	preset string                   // optional preset file used as the base config
	noTUI  bool                     // disable the live progress display
}

// generateCommand creates the generate command: render every design page in
// parallel and assemble the ordered results into a single PDF.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{flags: mandala.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render mandala designs into a multi-page PDF",
		Long: `Render mandala designs into a multi-page PDF.

Each design page draws concentric dashed circles and radial dashed spokes,
with counts growing linearly from the configured base values. Pages render
in parallel across a fixed worker pool and are assembled in design order.

Flags override values from --preset; anything not set falls back to the
built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd, cfg, opts.noTUI)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.flags.DPI, "dpi", opts.flags.DPI, "render resolution in dots per inch (150-1200)")
	f.IntVar(&opts.flags.Supersampling, "supersampling", opts.flags.Supersampling, "antialiasing factor (1-3): render larger, then downscale")
	f.IntVar(&opts.flags.Workers, "workers", opts.flags.Workers, "parallel render workers (1-16)")
	f.Float64Var(&opts.flags.MarginCM, "margin", opts.flags.MarginCM, "document margins in centimeters (0-5)")
	f.StringVar(&opts.format, "format", string(opts.flags.PageFormat), "page format: A3, A4 or LETTER")
	f.IntVar(&opts.flags.Designs, "designs", opts.flags.Designs, "number of distinct mandala designs (1-100)")
	f.IntVar(&opts.flags.Repetitions, "repetitions", opts.flags.Repetitions, "times each design repeats in the PDF (1-10)")
	f.IntVar(&opts.flags.BaseCircles, "base-circles", opts.flags.BaseCircles, "circle count on page 1 (1-50)")
	f.IntVar(&opts.flags.CirclesIncrement, "circles-increment", opts.flags.CirclesIncrement, "circles added per design (0-10)")
	f.IntVar(&opts.flags.BaseRadii, "base-radii", opts.flags.BaseRadii, "spoke count on page 1 (1-50)")
	f.IntVar(&opts.flags.RadiiIncrement, "radii-increment", opts.flags.RadiiIncrement, "spokes added per design (0-10)")
	f.StringVar(&opts.flags.DashColor, "color", opts.flags.DashColor, "dash color as #RRGGBB")
	f.IntVar(&opts.flags.DashLengthPX, "dash-length", opts.flags.DashLengthPX, "dash length in pixels (2-50)")
	f.IntVar(&opts.flags.GapLengthPX, "gap-length", opts.flags.GapLengthPX, "gap between dashes in pixels (5-200)")
	f.IntVar(&opts.flags.LineWidthPX, "line-width", opts.flags.LineWidthPX, "stroke width in pixels (1-10)")
	f.Float64Var(&opts.flags.CenterDiameterMM, "center-diameter", opts.flags.CenterDiameterMM, "center disc diameter in millimeters (0.5-10)")
	f.BoolVar(&opts.flags.FillPage, "fill-page", opts.flags.FillPage, "extend circles past the content area to fill the page")
	f.BoolVar(&opts.flags.ShowPageNumbers, "show-page-numbers", opts.flags.ShowPageNumbers, "print page numbers at the bottom of each page")
	f.StringVarP(&opts.flags.Output, "output", "o", opts.flags.Output, "output PDF path")
	f.StringVar(&opts.preset, "preset", "", "preset file (.toml or .json) used as the base config")
	f.BoolVar(&opts.noTUI, "no-tui", false, "log progress instead of showing the live display")

	return cmd
}

// resolveConfig builds the effective run config: preset (or defaults) as the
// base, with explicitly-set flags layered on top.
func resolveConfig(cmd *cobra.Command, opts *generateOpts) (mandala.GenerationConfig, error) {
	cfg := mandala.DefaultConfig()
	if opts.preset != "" {
		loaded, err := preset.Load(opts.preset)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("dpi") {
		cfg.DPI = opts.flags.DPI
	}
	if set("supersampling") {
		cfg.Supersampling = opts.flags.Supersampling
	}
	if set("workers") {
		cfg.Workers = opts.flags.Workers
	}
	if set("margin") {
		cfg.MarginCM = opts.flags.MarginCM
	}
	if set("format") {
		f, err := mandala.ParsePageFormat(opts.format)
		if err != nil {
			return cfg, err
		}
		cfg.PageFormat = f
	}
	if set("designs") {
		cfg.Designs = opts.flags.Designs
	}
	if set("repetitions") {
		cfg.Repetitions = opts.flags.Repetitions
	}
	if set("base-circles") {
		cfg.BaseCircles = opts.flags.BaseCircles
	}
	if set("circles-increment") {
		cfg.CirclesIncrement = opts.flags.CirclesIncrement
	}
	if set("base-radii") {
		cfg.BaseRadii = opts.flags.BaseRadii
	}
	if set("radii-increment") {
		cfg.RadiiIncrement = opts.flags.RadiiIncrement
	}
	if set("color") {
		cfg.DashColor = opts.flags.DashColor
	}
	if set("dash-length") {
		cfg.DashLengthPX = opts.flags.DashLengthPX
	}
	if set("gap-length") {
		cfg.GapLengthPX = opts.flags.GapLengthPX
	}
	if set("line-width") {
		cfg.LineWidthPX = opts.flags.LineWidthPX
	}
	if set("center-diameter") {
		cfg.CenterDiameterMM = opts.flags.CenterDiameterMM
	}
	if set("fill-page") {
		cfg.FillPage = opts.flags.FillPage
	}
	if set("show-page-numbers") {
		cfg.ShowPageNumbers = opts.flags.ShowPageNumbers
	}
	if set("output") {
		cfg.Output = opts.flags.Output
	}

	return cfg, cfg.Validate()
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runGenerate executes the pipeline, with either a live progress display or
// plain structured logs. The display requires a terminal; piped or CI runs
// fall back to logging even without --no-tui.
func (c *CLI) runGenerate(cmd *cobra.Command, cfg mandala.GenerationConfig, noTUI bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(logger)

	var result *pipeline.Result
	var err error
	if noTUI || !isTerminal(os.Stdout) {
		result, err = runner.Execute(ctx, cfg, func(p pipeline.Progress) {
			logger.Info("design complete",
				"page", p.Page,
				"done", fmt.Sprintf("%d/%d", p.CompletedPages, p.TotalPages),
				"progress", fmt.Sprintf("%.1f%%", p.Percent()))
		})
	} else {
		result, err = runGenerateTUI(ctx, runner, cfg)
	}
	if err != nil {
		printError("generation failed: %v", err)
		return err
	}

	printSuccess("PDF saved to %s (%d pages, rendered in %s)",
		result.OutputPath,
		result.Pages,
		(result.Stats.RenderTime + result.Stats.AssembleTime).Round(time.Millisecond))
	return nil
}
