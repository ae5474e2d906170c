package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgallet/mandagen/pkg/mandala"
)

func TestExecuteRejectsInvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.DPI = 10 // below the documented minimum
	cfg.Output = filepath.Join(t.TempDir(), "out.pdf")

	runner := NewRunner(nil)
	_, err := runner.Execute(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("Execute accepted an invalid config")
	}

	var ce *mandala.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *mandala.ConfigError", err)
	}
	if _, statErr := os.Stat(cfg.Output); !os.IsNotExist(statErr) {
		t.Error("output file exists after a configuration error")
	}
}

func TestExecuteWritesDocument(t *testing.T) {
	cfg := fastConfig()
	cfg.Designs = 2
	cfg.Repetitions = 2
	cfg.Output = filepath.Join(t.TempDir(), "out.pdf")

	var completed int
	runner := NewRunner(nil)
	result, err := runner.Execute(context.Background(), cfg, func(p Progress) {
		completed = p.CompletedPages
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("Result.RunID is empty")
	}
	if result.Designs != 2 || result.Pages != 4 {
		t.Errorf("Result designs/pages = %d/%d, want 2/4", result.Designs, result.Pages)
	}
	if completed != cfg.Designs {
		t.Errorf("final progress count = %d, want %d", completed, cfg.Designs)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Error("output does not start with a PDF header")
	}
}

func TestExecuteUnwritableDestination(t *testing.T) {
	cfg := fastConfig()
	cfg.Designs = 1
	cfg.Output = filepath.Join(t.TempDir(), "missing", "out.pdf")

	runner := NewRunner(nil)
	if _, err := runner.Execute(context.Background(), cfg, nil); err == nil {
		t.Fatal("Execute succeeded with an unwritable destination")
	}
	if _, statErr := os.Stat(cfg.Output); !os.IsNotExist(statErr) {
		t.Error("partial output exists after an assembly failure")
	}
}
