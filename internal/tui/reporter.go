package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mahimpat/creatorcrafter/internal/plan"
)

// Pipeline step keys shared by the progress display and its reporters.
const (
	StepBuild  = "build"
	StepRender = "render"
)

// BuildReporter translates builder phases into step updates.
func BuildReporter(send func(tea.Msg)) func(plan.Phase) {
	return func(p plan.Phase) {
		status := "building"
		if p == plan.PhaseValidate {
			status = "validating"
		}
		send(StepUpdateMsg{Key: StepBuild, Status: status, Detail: string(p)})
	}
}
