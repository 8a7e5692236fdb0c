package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"

	"github.com/yildizm/designtutor/internal/config"
	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/logger"
	"github.com/yildizm/designtutor/internal/metrics"
	"github.com/yildizm/designtutor/internal/preview"
	"github.com/yildizm/designtutor/internal/render"
	"github.com/yildizm/designtutor/internal/session"
	"github.com/yildizm/designtutor/internal/tutor"
)

// tutorApp holds the collaborators every command shares
type tutorApp struct {
	cfg          *config.Config
	log          *logger.Logger
	bundle       *locale.Bundle
	metrics      *metrics.Metrics
	orchestrator *session.Orchestrator
	renderer     *render.Renderer
	profile      termenv.Profile

	stop    context.CancelFunc
	closers []io.Closer
}

// appOptions tweaks newTutorApp for a particular command
type appOptions struct {
	// Interactive adds key hints to code blocks and keeps logs off the
	// terminal unless a log file is given
	Interactive bool

	// Language overrides the configured locale
	Language string
}

// newTutorApp wires config into the analysis client, the orchestrator and
// the renderer. Close must be called when the command is done.
func newTutorApp(cfg *config.Config, opts appOptions) (*tutorApp, error) {
	app := &tutorApp{cfg: cfg}

	log := logger.NewWithCallback("designtutor", isVerbose)
	if err := app.setupLogOutput(log, opts.Interactive); err != nil {
		return nil, err
	}
	app.log = log

	lang := cfg.Locale.Language
	if opts.Language != "" {
		lang = opts.Language
	}
	bundle, err := locale.NewBundle(lang)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.bundle = bundle

	app.metrics = metrics.NewMetrics()
	ctx, stop := context.WithCancel(context.Background())
	app.stop = stop
	if addr := cfg.Metrics.Address; addr != "" {
		go func() {
			log.Info("Serving metrics on %s", addr)
			if err := app.metrics.Serve(ctx, addr); err != nil {
				log.Warn("Metrics server stopped: %v", err)
			}
		}()
	}

	client, err := tutor.New(&tutor.Config{
		BaseURL:   cfg.Server.BaseURL,
		UserAgent: cfg.Server.UserAgent,
		HTTPClient: &http.Client{
			Transport: app.metrics.InstrumentTransport(http.DefaultTransport),
		},
		Logger: log.WithComponent("tutor"),
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}

	app.orchestrator, err = session.NewOrchestrator(session.Options{
		Analyzer:  client,
		Previewer: preview.NewGenerator(tutor.MaxUploadSize, log.WithComponent("preview")),
		Locale:    bundle,
		Recorder:  app.metrics,
		Logger:    log.WithComponent("session"),
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	app.profile = colorProfile(cfg.Output.ColorMode)
	app.renderer, err = render.NewRenderer(render.Options{
		CodeStyle:   cfg.UI.CodeStyle,
		WordWrap:    cfg.Output.WordWrap,
		Profile:     app.profile,
		Interactive: opts.Interactive,
		Translator:  bundle,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogOutput sends logs to --log-file when given. Interactive commands
// discard them otherwise so the alternate screen stays intact.
func (a *tutorApp) setupLogOutput(log *logger.Logger, interactive bool) error {
	if logFile == "" {
		if interactive {
			log.SetOutput(io.Discard)
		}
		return nil
	}

	// #nosec G304 - path comes from the user's own flag
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(file)
	a.closers = append(a.closers, file)
	return nil
}

// Close cancels in-flight work, stops the metrics server and closes the
// log file
func (a *tutorApp) Close() {
	if a.orchestrator != nil {
		a.orchestrator.Close()
	}
	if a.stop != nil {
		a.stop()
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}
	a.closers = nil
}

// colorEnabled reports whether formatted output may contain ANSI colors
func (a *tutorApp) colorEnabled() bool {
	return a.profile != termenv.Ascii
}

// colorProfile maps output.color_mode onto a termenv profile
func colorProfile(mode string) termenv.Profile {
	switch mode {
	case "never":
		return termenv.Ascii
	case "always":
		if p := termenv.EnvColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI256
	default:
		return termenv.EnvColorProfile()
	}
}
