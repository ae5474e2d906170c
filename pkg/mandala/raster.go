package mandala

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

const cmPerInch = 2.54

// contentRadiusRatio bounds the outermost regular circle relative to the
// smaller canvas dimension, leaving breathing room inside the margins.
const contentRadiusRatio = 0.45

// RenderedPage is the finished raster for one design page, encoded as PNG
// at the final (post-downsample) resolution. It is produced inside a worker
// and consumed exactly once by the PDF assembler.
type RenderedPage struct {
	Page     int    // 1-based design index
	PNG      []byte // encoded image at target DPI
	WidthPX  int
	HeightPX int
}

// geometry holds the pixel dimensions and radii derived from PageParams.
type geometry struct {
	imgW, imgH       int     // final image size at target DPI
	renderW, renderH int     // supersampled canvas size
	pixelsPerCM      float64 // at target DPI
	centerX, centerY float64 // canvas center, supersampled
	contentRadius    float64 // outer bound of the regular circle ladder
	maxRadius        float64 // contentRadius, or corner distance with FillPage
	spacing          float64 // gap between consecutive circle radii
	totalCircles     int     // circles actually drawn (> Circles with FillPage)
	centerDiscRadius float64 // filled center disc, supersampled
}

// geometryFor computes the raster geometry for p, failing fast on any
// parameter that would produce a degenerate canvas.
func geometryFor(p PageParams) (geometry, error) {
	cfg := p.Config
	if p.Circles <= 0 {
		return geometry{}, fmt.Errorf("circle count %d for page %d is not positive (check base_circles and circles_increment)", p.Circles, p.Page)
	}
	if p.Radii <= 0 {
		return geometry{}, fmt.Errorf("spoke count %d for page %d is not positive (check base_radii and radii_increment)", p.Radii, p.Page)
	}
	if cfg.DPI <= 0 {
		return geometry{}, fmt.Errorf("dpi %d is not positive", cfg.DPI)
	}
	if cfg.Supersampling < 1 {
		return geometry{}, fmt.Errorf("supersampling factor %d is below 1", cfg.Supersampling)
	}
	if !cfg.PageFormat.Valid() {
		return geometry{}, fmt.Errorf("unknown page format %q", cfg.PageFormat)
	}

	pageW, pageH := cfg.PageFormat.Dimensions()
	contentW := pageW - 2*cfg.MarginCM
	contentH := pageH - 2*cfg.MarginCM
	if contentW <= 0 || contentH <= 0 {
		return geometry{}, fmt.Errorf("margin %.2fcm leaves no drawable area on %s", cfg.MarginCM, cfg.PageFormat)
	}

	g := geometry{pixelsPerCM: float64(cfg.DPI) / cmPerInch}
	g.imgW = int(contentW * g.pixelsPerCM)
	g.imgH = int(contentH * g.pixelsPerCM)
	g.renderW = g.imgW * cfg.Supersampling
	g.renderH = g.imgH * cfg.Supersampling
	g.centerX = float64(g.renderW) / 2
	g.centerY = float64(g.renderH) / 2
	g.contentRadius = contentRadiusRatio * math.Min(float64(g.renderW), float64(g.renderH))
	g.spacing = g.contentRadius / float64(p.Circles)

	if cfg.FillPage {
		// Extend out to the farthest corner so partially visible circles
		// cover the whole page; spacing stays derived from the base count.
		g.maxRadius = math.Hypot(g.centerX, g.centerY)
		g.totalCircles = int(g.maxRadius / g.spacing)
	} else {
		g.maxRadius = g.contentRadius
		g.totalCircles = p.Circles
	}

	g.centerDiscRadius = (cfg.CenterDiameterMM / 10) * g.pixelsPerCM * float64(cfg.Supersampling)
	return g, nil
}

// Render rasterizes one design page.
//
// The page is drawn on a white canvas at supersampling x the target
// resolution, then downsampled with a Lanczos filter to the final size.
// Dash, gap and line-width pixel values apply at the supersampled
// resolution. Rendering has no side effects and touches no shared state.
func Render(p PageParams) (*RenderedPage, error) {
	g, err := geometryFor(p)
	if err != nil {
		return nil, err
	}
	cfg := p.Config

	dashColor, err := ParseHexColor(cfg.DashColor)
	if err != nil {
		return nil, fmt.Errorf("dash color %q: %w", cfg.DashColor, err)
	}

	dc := gg.NewContext(g.renderW, g.renderH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetColor(dashColor)
	dc.SetLineWidth(float64(cfg.LineWidthPX))
	dc.SetDash(float64(cfg.DashLengthPX), float64(cfg.GapLengthPX))

	// Concentric circles, innermost first.
	for i := 0; i < g.totalCircles; i++ {
		dc.DrawCircle(g.centerX, g.centerY, g.spacing*float64(i+1))
		dc.Stroke()
	}

	// Radial spokes, evenly distributed from the center outward.
	angleStep := 2 * math.Pi / float64(p.Radii)
	for i := 0; i < p.Radii; i++ {
		angle := float64(i) * angleStep
		dc.DrawLine(
			g.centerX, g.centerY,
			g.centerX+g.maxRadius*math.Cos(angle),
			g.centerY+g.maxRadius*math.Sin(angle),
		)
		dc.Stroke()
	}

	// Filled white disc masking the spoke convergence point.
	dc.SetDash()
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(g.centerX, g.centerY, g.centerDiscRadius)
	dc.Fill()

	// Downsample to the target DPI. Resizing unconditionally keeps a single
	// code path and normalizes the pixel format for encoding.
	img := imaging.Resize(dc.Image(), g.imgW, g.imgH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", p.Page, err)
	}

	return &RenderedPage{
		Page:     p.Page,
		PNG:      buf.Bytes(),
		WidthPX:  g.imgW,
		HeightPX: g.imgH,
	}, nil
}
