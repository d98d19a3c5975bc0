package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7B2FBE", Dark: "#B97EFF"})
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})
)

// ProgressMsg reports batch progress.
type ProgressMsg struct {
	Completed int
	Total     int
}

// DoneMsg ends the progress view.
type DoneMsg struct{}

// Model renders a live progress bar while a probe batch runs.
type Model struct {
	progress  progress.Model
	spinner   spinner.Model
	completed int
	total     int
}

// NewModel creates a progress model for a batch of the given size.
func NewModel(total int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		progress: progress.New(progress.WithDefaultGradient()),
		spinner:  sp,
		total:    total,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 20
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.progress.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		return m, nil

	case DoneMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.total == 0 {
		return ""
	}
	percent := float64(m.completed) / float64(m.total)
	return fmt.Sprintf("\n %s %s %s\n",
		m.spinner.View(),
		m.progress.ViewAs(percent),
		countStyle.Render(fmt.Sprintf("(%d/%d)", m.completed, m.total)),
	)
}

// Run displays the live progress view while fn executes in the background.
// fn reports completions through the supplied callback, which is safe to
// call from any goroutine. Run does not return until fn has; if the view
// exits first (ctrl+c, terminal error) the context handed to fn is canceled
// so the batch can wind down.
func Run(ctx context.Context, total int, fn func(ctx context.Context, report func(completed, total int)), opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(total), opts...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn(ctx, func(completed, total int) {
			p.Send(ProgressMsg{Completed: completed, Total: total})
		})
		p.Send(DoneMsg{})
	}()

	_, err := p.Run()
	cancel()
	wg.Wait()
	return err
}
