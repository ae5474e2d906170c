package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgallet/mandagen/pkg/mandala"
	"github.com/rgallet/mandagen/pkg/pipeline"
)

// barWidth is the progress bar width in cells.
const barWidth = 40

// progressMsg carries a dispatcher snapshot into the TUI event loop.
type progressMsg pipeline.Progress

// doneMsg signals the end of the run.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

// GenerateModel is the bubbletea model showing weighted render progress.
type GenerateModel struct {
	totalPages int
	latest     pipeline.Progress
	cancel     context.CancelFunc
	result     *pipeline.Result
	err        error
	cancelled  bool
}

// NewGenerateModel creates a progress model for cfg. cancel is invoked when
// the user interrupts the run.
func NewGenerateModel(cfg mandala.GenerationConfig, cancel context.CancelFunc) GenerateModel {
	return GenerateModel{
		totalPages: cfg.Designs,
		latest:     pipeline.Progress{TotalPages: cfg.Designs, TotalWeight: mandala.TotalWeight(cfg)},
		cancel:     cancel,
	}
}

func (m GenerateModel) Init() tea.Cmd {
	return nil
}

func (m GenerateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case progressMsg:
		m.latest = pipeline.Progress(msg)
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m GenerateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Rendering mandala designs"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q: cancel"))
	b.WriteString("\n\n")

	filled := 0
	if m.latest.TotalWeight > 0 {
		filled = int(float64(barWidth) * float64(m.latest.CompletedWeight) / float64(m.latest.TotalWeight))
	}
	if filled > barWidth {
		filled = barWidth
	}

	b.WriteString(styleBarFilled.Render(strings.Repeat("█", filled)))
	b.WriteString(styleBarEmpty.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %5.1f%%", m.latest.Percent()))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  designs %d/%d", m.latest.CompletedPages, m.totalPages)))
	b.WriteString("\n")

	return b.String()
}

// runGenerateTUI executes the run under a live progress display and returns
// the pipeline result once the program exits.
func runGenerateTUI(ctx context.Context, runner *pipeline.Runner, cfg mandala.GenerationConfig) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewGenerateModel(cfg, cancel))

	go func() {
		result, err := runner.Execute(ctx, cfg, func(pr pipeline.Progress) {
			p.Send(progressMsg(pr))
		})
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}

	m := final.(GenerateModel)
	if m.cancelled {
		return nil, context.Canceled
	}
	return m.result, m.err
}
