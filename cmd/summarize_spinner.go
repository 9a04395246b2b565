package cmd

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type summaryDoneMsg struct {
	err error
}

// summarizeModel shows a spinner with the input size and elapsed time
// while the summary request is in flight.
type summarizeModel struct {
	spinner spinner.Model
	chars   int
	started time.Time
	now     func() time.Time
	request tea.Cmd
	err     error
	done    bool
}

func newSummarizeModel(input string, now func() time.Time, request tea.Cmd) summarizeModel {
	return summarizeModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#4cae4c"))),
		),
		chars:   utf8.RuneCountInString(input),
		started: now(),
		now:     now,
		request: request,
	}
}

func (m summarizeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.request)
}

func (m summarizeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case summaryDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m summarizeModel) View() string {
	if m.done {
		return ""
	}

	elapsed := m.now().Sub(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s Summarizing %d characters... %s", m.spinner.View(), m.chars, elapsed)
}

// summarizeWithSpinner runs summarize while the spinner draws on output. If
// the program stops before the request returns, the request is canceled.
func summarizeWithSpinner(ctx context.Context, output io.Writer, input string, summarize func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	request := func() tea.Msg {
		return summaryDoneMsg{err: summarize(ctx)}
	}

	p := tea.NewProgram(
		newSummarizeModel(input, time.Now, request),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	result, ok := final.(summarizeModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", final)
	}

	return result.err
}
