package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner.
type tickMsg time.Time

// StepUpdateMsg updates one pipeline step's status and detail text.
type StepUpdateMsg struct {
	Key    string
	Status string
	Detail string
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}

// ErrorMsg signals a fatal error; the TUI should quit.
type ErrorMsg struct {
	Err error
}

// step is one row of the pipeline display.
type step struct {
	Key    string
	Label  string
	Status string
	Detail string
}

// ProgressModel is a bubbletea model that renders the build and render
// pipeline as a step list with live statuses.
type ProgressModel struct {
	title     string
	steps     []step
	stepIndex map[string]int
	done      bool
	err       error
	tick      int
}

// NewProgressModel creates a model titled after the output being produced.
func NewProgressModel(title string) ProgressModel {
	return ProgressModel{
		title:     title,
		stepIndex: make(map[string]int),
	}
}

// AddStep pre-populates a pipeline step. Call before the program starts.
func (m *ProgressModel) AddStep(key, label string) {
	m.stepIndex[key] = len(m.steps)
	m.steps = append(m.steps, step{Key: key, Label: label, Status: "pending"})
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m ProgressModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StepUpdateMsg:
		if idx, ok := m.stepIndex[msg.Key]; ok {
			if msg.Status != "" {
				m.steps[idx].Status = msg.Status
			}
			if msg.Detail != "" {
				m.steps[idx].Detail = msg.Detail
			}
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m ProgressModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.title))
	b.WriteByte('\n')

	labelWidth := 0
	for _, s := range m.steps {
		if len(s.Label) > labelWidth {
			labelWidth = len(s.Label)
		}
	}

	for _, s := range m.steps {
		marker := " "
		if !m.done && isActive(s.Status) {
			marker = spinnerFrames[m.tick%len(spinnerFrames)]
		}
		line := fmt.Sprintf("%s %s  %s", marker, pad(s.Label, labelWidth), StatusStyle(s.Status).Render(s.Status))
		if s.Detail != "" {
			line += "  " + s.Detail
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if !m.done {
		done, total := m.progressCounts()
		fmt.Fprintf(&b, "\n%d/%d steps complete\n", done, total)
	}
	return b.String()
}

func (m ProgressModel) progressCounts() (int, int) {
	total := len(m.steps)
	done := 0
	for _, s := range m.steps {
		if s.Status == "complete" || s.Status == "skipped" {
			done++
		}
	}
	return done, total
}

// Done returns whether the model has finished.
func (m ProgressModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m ProgressModel) Err() error {
	return m.err
}

func isActive(status string) bool {
	switch status {
	case "validating", "building", "rendering":
		return true
	}
	return false
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
