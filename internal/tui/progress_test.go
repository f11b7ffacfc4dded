package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestStepUpdates(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	m.AddStep(StepBuild, "Build graph")
	m.AddStep(StepRender, "Render")

	next, _ := m.Update(StepUpdateMsg{Key: StepBuild, Status: "building", Detail: "transitions"})
	m = next.(ProgressModel)

	view := m.View()
	if !strings.Contains(view, "building") || !strings.Contains(view, "transitions") {
		t.Errorf("view missing step update:\n%s", view)
	}
	if !strings.Contains(view, "pending") {
		t.Errorf("untouched step should stay pending:\n%s", view)
	}
}

func TestUnknownStepIgnored(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	m.AddStep(StepBuild, "Build graph")

	next, _ := m.Update(StepUpdateMsg{Key: "nope", Status: "failed"})
	m = next.(ProgressModel)
	if strings.Contains(m.View(), "failed") {
		t.Error("update for unknown step leaked into the view")
	}
}

func TestWorkDoneQuits(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	next, cmd := m.Update(WorkDoneMsg{})
	m = next.(ProgressModel)
	if !m.Done() {
		t.Error("model not done after WorkDoneMsg")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestErrorSurfacesInView(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	next, _ := m.Update(ErrorMsg{Err: errors.New("engine exploded")})
	m = next.(ProgressModel)
	if m.Err() == nil {
		t.Fatal("error not recorded")
	}
	if !strings.Contains(m.View(), "engine exploded") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestProgressCounts(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	m.AddStep(StepBuild, "Build graph")
	m.AddStep(StepRender, "Render")

	next, _ := m.Update(StepUpdateMsg{Key: StepBuild, Status: "complete"})
	m = next.(ProgressModel)

	done, total := m.progressCounts()
	if done != 1 || total != 2 {
		t.Errorf("counts = %d/%d, want 1/2", done, total)
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewProgressModel("cut.mp4")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(ProgressModel).Done() {
		t.Error("ctrl+c should stop the model")
	}
}
