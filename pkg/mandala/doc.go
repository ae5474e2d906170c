// Package mandala implements the geometric core of the generator: per-page
// parameter derivation and rasterization of mandala line-art templates.
//
// A run is described by an immutable [GenerationConfig]. For each design
// index n, [Derive] computes the page's circle and spoke counts from the
// configured base values and per-page increments. [Render] turns those
// parameters into a finished raster: dashed concentric circles, dashed
// radial spokes and a filled center disc, drawn at a supersampled
// resolution and downsampled to the target DPI with a Lanczos filter.
//
// Both Derive and Render are pure with respect to their inputs - identical
// inputs produce identical output - which is what makes pages safe to
// render concurrently without coordination.
package mandala
