package mandala

import (
	"fmt"
	"image/color"
	"strings"
)

// =============================================================================
// Page Formats
// =============================================================================

// PageFormat identifies a physical paper size.
type PageFormat string

// Supported page formats.
const (
	FormatA3     PageFormat = "A3"
	FormatA4     PageFormat = "A4"
	FormatLetter PageFormat = "LETTER"
)

// pageDimensionsCM maps each format to its width and height in centimeters.
var pageDimensionsCM = map[PageFormat][2]float64{
	FormatA3:     {29.7, 42.0},
	FormatA4:     {21.0, 29.7},
	FormatLetter: {21.59, 27.94},
}

// Dimensions returns the page width and height in centimeters.
func (f PageFormat) Dimensions() (width, height float64) {
	d := pageDimensionsCM[f]
	return d[0], d[1]
}

// Valid reports whether f is a supported page format.
func (f PageFormat) Valid() bool {
	_, ok := pageDimensionsCM[f]
	return ok
}

// ParsePageFormat parses a case-insensitive format name.
func ParsePageFormat(s string) (PageFormat, error) {
	f := PageFormat(strings.ToUpper(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid page format: %q (must be one of: A3, A4, LETTER)", s)
	}
	return f, nil
}

// =============================================================================
// Generation Config
// =============================================================================

// Default parameter values. These match the documented CLI defaults and are
// applied by DefaultConfig and by preset loading for absent keys.
const (
	DefaultDPI              = 600
	DefaultSupersampling    = 2
	DefaultWorkers          = 4
	DefaultMarginCM         = 0.5
	DefaultDesigns          = 20
	DefaultRepetitions      = 1
	DefaultBaseCircles      = 8
	DefaultCirclesIncrement = 1
	DefaultBaseRadii        = 10
	DefaultRadiiIncrement   = 1
	DefaultDashColor        = "#444444"
	DefaultDashLengthPX     = 10
	DefaultGapLengthPX      = 50
	DefaultLineWidthPX      = 2
	DefaultCenterDiameterMM = 2.0
	DefaultOutput           = "gabarits_mandalas.pdf"
)

// DefaultPageFormat is the page format used when none is configured.
const DefaultPageFormat = FormatA4

// GenerationConfig describes a complete generation run. It is constructed
// once (from CLI flags, a preset file, or an API request), validated, and
// then treated as read-only: every worker receives its own copy by value.
type GenerationConfig struct {
	// Quality and performance.
	DPI           int `toml:"dpi" json:"dpi"`
	Supersampling int `toml:"supersampling" json:"supersampling"`
	Workers       int `toml:"num_workers" json:"num_workers"`

	// Layout.
	MarginCM   float64    `toml:"margin_cm" json:"margin_cm"`
	PageFormat PageFormat `toml:"page_format" json:"page_format"`

	// Page plan.
	Designs     int `toml:"num_mandala_designs" json:"num_mandala_designs"`
	Repetitions int `toml:"image_repetitions" json:"image_repetitions"`

	// Circles and spokes.
	BaseCircles      int `toml:"base_circles" json:"base_circles"`
	CirclesIncrement int `toml:"circles_increment" json:"circles_increment"`
	BaseRadii        int `toml:"base_radii" json:"base_radii"`
	RadiiIncrement   int `toml:"radii_increment" json:"radii_increment"`

	// Dash style. Pixel values apply at the supersampled resolution.
	DashColor    string `toml:"dash_color" json:"dash_color"`
	DashLengthPX int    `toml:"dash_length_px" json:"dash_length_px"`
	GapLengthPX  int    `toml:"gap_length_px" json:"gap_length_px"`
	LineWidthPX  int    `toml:"line_width_px" json:"line_width_px"`

	// Center disc masking the spoke convergence point.
	CenterDiameterMM float64 `toml:"center_circle_diameter_mm" json:"center_circle_diameter_mm"`

	// Fill options.
	FillPage        bool `toml:"fill_page" json:"fill_page"`
	ShowPageNumbers bool `toml:"show_page_numbers" json:"show_page_numbers"`

	// Output.
	Output string `toml:"output_filename" json:"output_filename"`
}

// DefaultConfig returns a config populated with every default value.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		DPI:              DefaultDPI,
		Supersampling:    DefaultSupersampling,
		Workers:          DefaultWorkers,
		MarginCM:         DefaultMarginCM,
		PageFormat:       DefaultPageFormat,
		Designs:          DefaultDesigns,
		Repetitions:      DefaultRepetitions,
		BaseCircles:      DefaultBaseCircles,
		CirclesIncrement: DefaultCirclesIncrement,
		BaseRadii:        DefaultBaseRadii,
		RadiiIncrement:   DefaultRadiiIncrement,
		DashColor:        DefaultDashColor,
		DashLengthPX:     DefaultDashLengthPX,
		GapLengthPX:      DefaultGapLengthPX,
		LineWidthPX:      DefaultLineWidthPX,
		CenterDiameterMM: DefaultCenterDiameterMM,
		FillPage:         false,
		ShowPageNumbers:  true,
		Output:           DefaultOutput,
	}
}

// intRange describes the allowed bounds of an integer field.
type intRange struct {
	name     string
	value    int
	min, max int
}

// Validate checks every field against its documented range. It returns a
// *ConfigError for the first violation found; nothing is clamped silently.
func (c *GenerationConfig) Validate() error {
	ranges := []intRange{
		{"dpi", c.DPI, 150, 1200},
		{"supersampling", c.Supersampling, 1, 3},
		{"num_workers", c.Workers, 1, 16},
		{"num_mandala_designs", c.Designs, 1, 100},
		{"image_repetitions", c.Repetitions, 1, 10},
		{"base_circles", c.BaseCircles, 1, 50},
		{"circles_increment", c.CirclesIncrement, 0, 10},
		{"base_radii", c.BaseRadii, 1, 50},
		{"radii_increment", c.RadiiIncrement, 0, 10},
		{"dash_length_px", c.DashLengthPX, 2, 50},
		{"gap_length_px", c.GapLengthPX, 5, 200},
		{"line_width_px", c.LineWidthPX, 1, 10},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			return &ConfigError{
				Field:  r.name,
				Value:  r.value,
				Reason: fmt.Sprintf("must be between %d and %d", r.min, r.max),
			}
		}
	}

	if c.MarginCM < 0 || c.MarginCM > 5 {
		return &ConfigError{Field: "margin_cm", Value: c.MarginCM, Reason: "must be between 0 and 5"}
	}
	if c.CenterDiameterMM < 0.5 || c.CenterDiameterMM > 10 {
		return &ConfigError{Field: "center_circle_diameter_mm", Value: c.CenterDiameterMM, Reason: "must be between 0.5 and 10"}
	}
	if !c.PageFormat.Valid() {
		return &ConfigError{Field: "page_format", Value: string(c.PageFormat), Reason: "must be one of: A3, A4, LETTER"}
	}
	if _, err := ParseHexColor(c.DashColor); err != nil {
		return &ConfigError{Field: "dash_color", Value: c.DashColor, Reason: err.Error()}
	}
	if c.Output == "" {
		return &ConfigError{Field: "output_filename", Value: c.Output, Reason: "must not be empty"}
	}
	return nil
}

// TotalPages returns the number of physical PDF pages a run produces.
func (c GenerationConfig) TotalPages() int {
	return c.Designs * c.Repetitions
}

// =============================================================================
// Colors
// =============================================================================

// ParseHexColor parses a "#RRGGBB" (or "RRGGBB") color string.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("must be a hex color in #RRGGBB form")
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("must be a hex color in #RRGGBB form")
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
