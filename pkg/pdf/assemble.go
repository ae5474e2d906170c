// Package pdf assembles rendered mandala pages into a single paginated
// document.
//
// Pages arrive ordered by design index; each design is placed Repetitions
// times in a row (grouped policy: design 1, design 1, design 2, design 2,
// ...). The file at the destination only ever appears complete: output is
// written to a temporary file in the same directory and renamed into place,
// so an I/O failure can never leave a partial PDF behind.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/observability"
)

// formatNames maps page formats to gofpdf size identifiers.
var formatNames = map[mandala.PageFormat]string{
	mandala.FormatA3:     "A3",
	mandala.FormatA4:     "A4",
	mandala.FormatLetter: "Letter",
}

// pageSequence expands the design list into the physical page order.
// Repetitions are grouped: with 2 designs and 2 repetitions the document
// reads [1, 1, 2, 2].
func pageSequence(designs, repetitions int) []int {
	seq := make([]int, 0, designs*repetitions)
	for n := 1; n <= designs; n++ {
		for r := 0; r < repetitions; r++ {
			seq = append(seq, n)
		}
	}
	return seq
}

// Write streams the assembled document to w.
// pages must hold one entry per design, ordered by ascending page index.
func Write(pages []*mandala.RenderedPage, cfg mandala.GenerationConfig, w io.Writer) error {
	if len(pages) != cfg.Designs {
		return fmt.Errorf("have %d rendered pages, config expects %d designs", len(pages), cfg.Designs)
	}
	for i, p := range pages {
		if p == nil {
			return fmt.Errorf("rendered page %d is missing", i+1)
		}
		if p.Page != i+1 {
			return fmt.Errorf("rendered pages out of order: slot %d holds page %d", i+1, p.Page)
		}
	}

	sizeName, ok := formatNames[cfg.PageFormat]
	if !ok {
		return fmt.Errorf("unknown page format %q", cfg.PageFormat)
	}

	doc := gofpdf.New("P", "cm", sizeName, "")
	doc.SetAutoPageBreak(false, 0)
	pageW, pageH := doc.GetPageSize()
	imgW := pageW - 2*cfg.MarginCM
	imgH := pageH - 2*cfg.MarginCM
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	if cfg.ShowPageNumbers {
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(0, 0, 0)
	}

	// Each design's PNG is registered once and referenced by every
	// repetition, so repeated pages share one embedded image.
	for _, p := range pages {
		doc.RegisterImageOptionsReader(imageName(p.Page), opts, bytes.NewReader(p.PNG))
	}

	counter := 0
	for _, design := range pageSequence(cfg.Designs, cfg.Repetitions) {
		counter++
		doc.AddPage()
		doc.ImageOptions(imageName(design), cfg.MarginCM, cfg.MarginCM, imgW, imgH, false, opts, 0, "")

		if cfg.ShowPageNumbers {
			label := fmt.Sprintf("Page %d", counter)
			x := (pageW - doc.GetStringWidth(label)) / 2
			doc.Text(x, pageH-cfg.MarginCM/2, label)
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// Assemble writes the document to dest atomically.
func Assemble(ctx context.Context, pages []*mandala.RenderedPage, cfg mandala.GenerationConfig, dest string) (err error) {
	start := time.Now()
	observability.Generation().OnAssembleStart(ctx, cfg.TotalPages(), dest)
	defer func() {
		observability.Generation().OnAssembleComplete(ctx, cfg.TotalPages(), dest, time.Since(start), err)
	}()

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".mandagen-*.pdf")
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(pages, cfg, tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("rename to %s: %w", dest, err)
	}
	return nil
}

func imageName(page int) string {
	return fmt.Sprintf("design-%d", page)
}
