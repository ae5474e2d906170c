// Package pkg provides the core libraries for mandagen, a generator of
// printable mandala line-art templates.
//
// # Overview
//
// mandagen renders a series of parameterized mandala pages (concentric
// dashed circles crossed by radial spokes) and assembles them into a
// single PDF sized for print. The pkg directory is organized into:
//
//  1. [mandala] - Domain types: configuration, validation, page parameter
//     derivation, and the pure raster renderer.
//  2. [pipeline] - Orchestration: the parallel dispatcher and the Runner
//     that drives render → assemble with progress reporting.
//  3. [pdf] - PDF assembly with atomic output writes.
//  4. [preset] - Loading and saving configuration presets (TOML/JSON).
//  5. [observability] - Pluggable lifecycle hooks for instrumentation.
//
// # Architecture
//
// The typical data flow through mandagen:
//
//	GenerationConfig (flags, preset file, or API request)
//	         ↓
//	    [mandala] package (validate, derive per-page parameters, render PNG)
//	         ↓
//	    [pipeline] package (worker pool, weighted progress, failure handling)
//	         ↓
//	    [pdf] package (page sequencing, image placement, atomic write)
//	         ↓
//	    output PDF
//
// # Quick Start
//
// Generate a PDF from the default configuration:
//
//	import (
//	    "context"
//	    "github.com/rgallet/mandagen/pkg/mandala"
//	    "github.com/rgallet/mandagen/pkg/pipeline"
//	)
//
//	cfg := mandala.DefaultConfig()
//	runner := pipeline.NewRunner(nil)
//	result, err := runner.Execute(context.Background(), cfg, nil)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/mandala/...        # Specific package
//
// [mandala]: https://pkg.go.dev/github.com/rgallet/mandagen/pkg/mandala
// [pipeline]: https://pkg.go.dev/github.com/rgallet/mandagen/pkg/pipeline
// [pdf]: https://pkg.go.dev/github.com/rgallet/mandagen/pkg/pdf
// [preset]: https://pkg.go.dev/github.com/rgallet/mandagen/pkg/preset
// [observability]: https://pkg.go.dev/github.com/rgallet/mandagen/pkg/observability
package pkg
