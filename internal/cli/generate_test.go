package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fastArgs returns generate flags tuned for quick test runs.
func fastArgs(output string) []string {
	return []string{
		"generate", "--no-tui",
		"--dpi", "150",
		"--supersampling", "1",
		"--margin", "5",
		"--designs", "1",
		"--base-circles", "3",
		"--base-radii", "4",
		"-o", output,
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestGenerateWritesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")

	if err := execute(t, fastArgs(out)...); err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Error("output is not a PDF")
	}
}

func TestGenerateLogsWhenStdoutIsNotATerminal(t *testing.T) {
	if isTerminal(os.Stdout) {
		t.Skip("stdout is a terminal")
	}

	out := filepath.Join(t.TempDir(), "out.pdf")
	args := []string{
		"generate",
		"--dpi", "150",
		"--supersampling", "1",
		"--margin", "5",
		"--designs", "1",
		"--base-circles", "3",
		"--base-radii", "4",
		"-o", out,
	}

	// No --no-tui: the missing terminal alone must route the run through
	// the logging path instead of launching the live display.
	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.Contains(logs.String(), "design complete") {
		t.Error("progress was not logged; run did not fall back to the logging path")
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestGenerateRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"dpi below range", []string{"generate", "--no-tui", "--dpi", "99"}},
		{"unknown format", []string{"generate", "--no-tui", "--format", "A5"}},
		{"bad color", []string{"generate", "--no-tui", "--color", "purple"}},
		{"too many workers", []string{"generate", "--no-tui", "--workers", "99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("generate accepted invalid flags")
			}
		})
	}
}

func TestGenerateFlagsOverridePreset(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.pdf")

	// The preset alone is not runnable (dpi out of range); the flag
	// override must win for the run to succeed.
	presetPath := filepath.Join(dir, "preset.toml")
	presetBody := []byte("dpi = 9999\nnum_mandala_designs = 1\nbase_circles = 3\nbase_radii = 4\nsupersampling = 1\nmargin_cm = 5.0\n")
	if err := os.WriteFile(presetPath, presetBody, 0o644); err != nil {
		t.Fatal(err)
	}

	args := []string{"generate", "--no-tui", "--preset", presetPath, "--dpi", "150", "-o", out}
	if err := execute(t, args...); err != nil {
		t.Fatalf("generate with preset override: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestGeneratePresetAloneFails(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.toml")
	if err := os.WriteFile(presetPath, []byte("dpi = 9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "generate", "--no-tui", "--preset", presetPath); err == nil {
		t.Error("generate accepted an out-of-range preset")
	}
}
