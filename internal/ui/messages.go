package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/designtutor/internal/render"
	"github.com/yildizm/designtutor/internal/session"
)

// resolutionMsg carries a finished session task back to Update
type resolutionMsg session.Resolution

// submitMsg starts an upload of path
type submitMsg struct {
	path string
}

// copyDoneMsg reports a clipboard write for a block of doc
type copyDoneMsg struct {
	doc   *render.Document
	index int
	err   error
}

// copyExpiredMsg ends the copied badge set by generation gen
type copyExpiredMsg struct {
	index int
	gen   uint64
}

// taskCmds wraps session tasks so the runtime executes them off the
// event loop and feeds each Resolution back as a message
func taskCmds(tasks []session.Task) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, task := range tasks {
		cmds = append(cmds, func() tea.Msg {
			return resolutionMsg(task())
		})
	}
	return tea.Batch(cmds...)
}

func expireCopy(after time.Duration, index int, gen uint64) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return copyExpiredMsg{index: index, gen: gen}
	})
}
