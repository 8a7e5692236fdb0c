package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/designtutor/internal/emoji"
	"github.com/yildizm/designtutor/internal/formatter"
	"github.com/yildizm/designtutor/internal/session"
	"github.com/yildizm/designtutor/internal/tutor"
)

var (
	watchFormat   string
	watchDebounce time.Duration
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Analyze every design screenshot saved into a directory",
		Long: `Watch a directory and analyze each image that is created or rewritten in it.

Only the most recent image counts: when a new one arrives while an analysis
is still running, the older request is canceled and its result is never
printed. Press Ctrl+C to stop watching.

Examples:
  designtutor watch ./screenshots
  designtutor watch --format markdown ~/Desktop
  designtutor watch --debounce 1s ./exports`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchFormat, "format", "f", "", "output format (text, json, markdown); defaults to output.default_format")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "wait this long after the last write to a file before uploading it")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	cfg := GetGlobalConfig()
	format := watchFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	app, err := newTutorApp(cfg, appOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := formatter.New(format, app.renderer, app.bundle, app.colorEnabled())
	if err != nil {
		return err
	}

	watcher, err := createWatcher(dir)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s for new designs. Press Ctrl+C to stop...\n", emoji.GetEmoji("watch"), dir)

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &designWatcher{
		app:      app,
		out:      out,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		debounce: watchDebounce,
	}
	return w.run(ctx, watcher.Events, watcher.Errors)
}

// designWatcher feeds filesystem events into one orchestrator. All session
// changes happen on the goroutine running run; tasks only send their
// resolutions back to it.
type designWatcher struct {
	app    *tutorApp
	out    formatter.Formatter
	stdout io.Writer
	stderr io.Writer

	// debounce is the quiet period a file needs before it is uploaded;
	// zero uploads on every event
	debounce time.Duration

	// paths remembers which file each upload token belongs to
	paths map[session.Token]string

	// pending holds the settle timer of every file still being written
	pending map[string]*pendingFile
}

type pendingFile struct {
	timer *time.Timer
	gen   uint64
}

// settledFile is sent by a settle timer that was not reset in time
type settledFile struct {
	path string
	gen  uint64
}

func (w *designWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	w.paths = make(map[session.Token]string)
	w.pending = make(map[string]*pendingFile)
	done := make(chan struct{})
	defer func() {
		close(done)
		w.stopPending()
	}()

	resolutions := make(chan session.Resolution)
	settled := make(chan settledFile)
	log := w.app.log.WithComponent("watch")

	for {
		select {
		case <-ctx.Done():
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isDesignEvent(event) {
				continue
			}
			if w.debounce <= 0 {
				w.upload(ctx, event.Name, resolutions)
				continue
			}
			w.schedule(event.Name, settled, done)

		case file := <-settled:
			if p, ok := w.pending[file.path]; ok && p.gen == file.gen {
				delete(w.pending, file.path)
				w.upload(ctx, file.path, resolutions)
			}

		case res := <-resolutions:
			w.apply(res)

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Warn("Watcher error: %v", err)
		}
	}
}

// schedule (re)starts the settle timer of path. Only the timer of the
// latest event for a path can trigger its upload.
func (w *designWatcher) schedule(path string, settled chan<- settledFile, done <-chan struct{}) {
	p, ok := w.pending[path]
	if !ok {
		p = &pendingFile{}
		w.pending[path] = p
	} else {
		p.timer.Stop()
	}
	p.gen++

	file := settledFile{path: path, gen: p.gen}
	p.timer = time.AfterFunc(w.debounce, func() {
		select {
		case settled <- file:
		case <-done:
		}
	})
}

func (w *designWatcher) stopPending() {
	for _, p := range w.pending {
		p.timer.Stop()
	}
}

// upload starts a cycle for path, superseding any running one
func (w *designWatcher) upload(ctx context.Context, path string, resolutions chan<- session.Resolution) {
	tok, tasks, err := w.app.orchestrator.Upload(path)
	if err != nil {
		w.app.log.Debug("Skipping %s: %v", path, err)
		return
	}

	w.paths[tok] = path
	fmt.Fprintf(w.stderr, "%s %s %s\n", emoji.GetEmoji("analyze"), w.app.bundle.T("upload.analyzing"), filepath.Base(path))

	for _, task := range tasks {
		go func(task session.Task) {
			res := task()
			select {
			case resolutions <- res:
			case <-ctx.Done():
			}
		}(task)
	}
}

// apply hands res to the orchestrator and prints the cycle's outcome when
// the analysis of the latest upload finishes
func (w *designWatcher) apply(res session.Resolution) {
	sess, changed := w.app.orchestrator.Apply(res)
	if res.Kind != session.AnalysisResolved {
		return
	}

	path := w.paths[res.Token]
	delete(w.paths, res.Token)
	if !changed {
		return
	}

	if sess.HasError() {
		fmt.Fprintf(w.stderr, "%s %s: %s\n", emoji.GetEmoji("error"), filepath.Base(path), sess.ErrorMessage)
		return
	}

	report := formatter.NewReport(path, w.app.bundle.Locale(), sess.Result, sess.Preview, w.app.bundle)
	output, err := w.out.Format(report)
	if err != nil {
		fmt.Fprintf(w.stderr, "%s failed to format output: %v\n", emoji.GetEmoji("error"), err)
		return
	}
	if _, err := w.stdout.Write(output); err != nil {
		w.app.log.Warn("Failed to write output: %v", err)
	}
}

// isDesignEvent reports whether event wrote a supported image
func isDesignEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return tutor.IsSupportedFile(event.Name)
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher creates and configures a new file system watcher
func createWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return watcher, nil
}

// validateWatchDir checks that path names an existing directory
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", cleanPath)
	}

	return nil
}
