package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/yildizm/designtutor/internal/config"
	"github.com/yildizm/designtutor/internal/ui"
)

func newTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [image]",
		Short: "Start the interactive tutor",
		Long: `Start the full-screen tutor. Type or paste the path of a design screenshot
and press enter to analyze it. When the tutorial is shown, tab moves between
code blocks and c copies the focused one.

Examples:
  designtutor tui
  designtutor tui ./mockups/login.png
  designtutor --log-file tutor.log tui`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	theme, err := resolveTheme(cfg)
	if err != nil {
		return err
	}

	app, err := newTutorApp(cfg, appOptions{Interactive: true})
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.colorEnabled() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var initialPath string
	if len(args) > 0 {
		initialPath = args[0]
	}

	return ui.Run(ui.Options{
		Orchestrator: app.orchestrator,
		Renderer:     app.renderer,
		Locales:      app.bundle,
		Recorder:     app.metrics,
		Theme:        theme,
		CopyFeedback: cfg.UI.CopyFeedback,
		InitialPath:  initialPath,
		Logger:       app.log.WithComponent("ui"),
	})
}

func resolveTheme(cfg *config.Config) (ui.Theme, error) {
	theme, ok := ui.ThemeByName(cfg.UI.Theme)
	if !ok {
		return ui.Theme{}, fmt.Errorf("unknown theme: %s", cfg.UI.Theme)
	}
	return theme, nil
}
