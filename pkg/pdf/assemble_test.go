package pdf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rgallet/mandagen/pkg/mandala"
)

// pageObjectRE matches PDF page objects without also matching the page
// tree node (/Type /Pages).
var pageObjectRE = regexp.MustCompile(`/Type /Page\W`)

func testConfig(designs, repetitions int) mandala.GenerationConfig {
	cfg := mandala.DefaultConfig()
	cfg.DPI = 150
	cfg.Supersampling = 1
	cfg.MarginCM = 5
	cfg.Designs = designs
	cfg.Repetitions = repetitions
	cfg.BaseCircles = 3
	cfg.BaseRadii = 4
	return cfg
}

func renderAll(t *testing.T, cfg mandala.GenerationConfig) []*mandala.RenderedPage {
	t.Helper()
	pages := make([]*mandala.RenderedPage, cfg.Designs)
	for n := 1; n <= cfg.Designs; n++ {
		p, err := mandala.Render(mandala.Derive(n, cfg))
		if err != nil {
			t.Fatalf("render page %d: %v", n, err)
		}
		pages[n-1] = p
	}
	return pages
}

func TestPageSequenceGroupsRepetitions(t *testing.T) {
	tests := []struct {
		name        string
		designs     int
		repetitions int
		want        []int
	}{
		{"no repetition", 3, 1, []int{1, 2, 3}},
		{"grouped pairs", 2, 2, []int{1, 1, 2, 2}},
		{"triple repeats", 2, 3, []int{1, 1, 1, 2, 2, 2}},
		{"single design", 1, 4, []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pageSequence(tt.designs, tt.repetitions)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("seq[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteProducesOnePDFPagePerRepetition(t *testing.T) {
	cfg := testConfig(2, 2)
	pages := renderAll(t, cfg)

	var buf bytes.Buffer
	if err := Write(pages, cfg, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output does not start with a PDF header")
	}
	if got := len(pageObjectRE.FindAll(data, -1)); got != 4 {
		t.Errorf("document has %d page objects, want 4", got)
	}
}

func TestWriteValidatesInput(t *testing.T) {
	cfg := testConfig(2, 1)
	pages := renderAll(t, cfg)

	tests := []struct {
		name  string
		pages []*mandala.RenderedPage
	}{
		{"too few pages", pages[:1]},
		{"missing page", []*mandala.RenderedPage{pages[0], nil}},
		{"out of order", []*mandala.RenderedPage{pages[1], pages[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(tt.pages, cfg, &buf); err == nil {
				t.Error("Write accepted malformed input")
			}
		})
	}
}

func TestAssembleWritesAtomically(t *testing.T) {
	cfg := testConfig(1, 1)
	pages := renderAll(t, cfg)

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")
	if err := Assemble(context.Background(), pages, cfg, dest); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}

	// No temp files may remain next to the destination.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("destination directory holds %d entries, want just the PDF", len(entries))
	}
}

func TestAssembleUnwritableDestination(t *testing.T) {
	cfg := testConfig(1, 1)
	pages := renderAll(t, cfg)

	dest := filepath.Join(t.TempDir(), "no-such-dir", "out.pdf")
	if err := Assemble(context.Background(), pages, cfg, dest); err == nil {
		t.Fatal("Assemble succeeded with a missing destination directory")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("partial file exists at the destination")
	}
}

func TestAssembleCleansUpOnWriteError(t *testing.T) {
	cfg := testConfig(2, 1)
	pages := renderAll(t, cfg)

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")

	// Out-of-order input makes Write fail after the temp file is created.
	bad := []*mandala.RenderedPage{pages[1], pages[0]}
	if err := Assemble(context.Background(), bad, cfg, dest); err == nil {
		t.Fatal("Assemble accepted out-of-order pages")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("destination directory holds %d entries after failure, want none", len(entries))
	}
}
