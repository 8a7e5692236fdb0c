package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen tutor and blocks until the user quits. The
// orchestrator is closed on return, canceling any in-flight request.
func Run(opts Options, programOpts ...tea.ProgramOption) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer opts.Orchestrator.Close()

	programOpts = append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	_, err = tea.NewProgram(model, programOpts...).Run()
	return err
}
