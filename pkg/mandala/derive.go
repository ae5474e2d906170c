package mandala

// PageParams holds the concrete drawing parameters for one design page.
// It is a pure function of (page index, config): deriving the same page
// twice always yields identical values.
type PageParams struct {
	Page    int // 1-based design index
	Circles int // concentric circle count
	Radii   int // radial spoke count

	// Config carries the stylistic fields shared by every page.
	Config GenerationConfig
}

// Derive computes the parameters for design page n (n >= 1).
// Counts grow linearly: base + (n-1) * increment.
func Derive(n int, cfg GenerationConfig) PageParams {
	return PageParams{
		Page:    n,
		Circles: cfg.BaseCircles + (n-1)*cfg.CirclesIncrement,
		Radii:   cfg.BaseRadii + (n-1)*cfg.RadiiIncrement,
		Config:  cfg,
	}
}

// PageWeight estimates the relative rendering cost of design page n as
// circles x spokes. Weights drive weighted progress reporting so that a
// dense late page does not make the progress bar stall at 95%.
func PageWeight(n int, cfg GenerationConfig) int {
	p := Derive(n, cfg)
	return p.Circles * p.Radii
}

// TotalWeight sums PageWeight over every design in the run.
func TotalWeight(cfg GenerationConfig) int {
	total := 0
	for n := 1; n <= cfg.Designs; n++ {
		total += PageWeight(n, cfg)
	}
	return total
}
