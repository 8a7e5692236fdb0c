package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/yildizm/designtutor/internal/emoji"
	"github.com/yildizm/designtutor/internal/formatter"
	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/render"
	"github.com/yildizm/designtutor/internal/session"
	"github.com/yildizm/designtutor/internal/tutor"
)

var (
	analyzeFormat     string
	analyzeLanguage   string
	analyzePickLocale bool
	analyzeCopy       int
	analyzeOutputFile string
)

// clipboardTarget receives the block selected with --copy
var clipboardTarget render.Clipboard = render.SystemClipboard{}

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Analyze a design screenshot and print the tutorial",
		Long: `Upload a design screenshot for analysis and print the generated tutorial
without starting the interactive UI.

If no image is given you are asked for its path. Supported images are
PNG, JPEG, GIF and WebP up to 10 MiB. A failed analysis prints the error
and exits with a non-zero status.

Examples:
  designtutor analyze mockup.png
  designtutor analyze --format json --output-file tutorial.json mockup.png
  designtutor analyze --language ja --copy 1 mockup.png
  designtutor analyze --pick-locale`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "output format (text, json, markdown); defaults to output.default_format")
	cmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "", "tutorial language (en, zh, ja, de, fr, ko, es)")
	cmd.Flags().BoolVar(&analyzePickLocale, "pick-locale", false, "choose the tutorial language interactively")
	cmd.Flags().IntVar(&analyzeCopy, "copy", 0, "copy the N-th code block to the clipboard")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Get configuration
	cfg := GetGlobalConfig()

	format := analyzeFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	if analyzeCopy < 0 {
		return fmt.Errorf("--copy must be a positive block number")
	}

	path, err := resolveImagePath(args)
	if err != nil {
		return err
	}

	language := analyzeLanguage
	if analyzePickLocale {
		if language, err = promptForLocale(cfg.Locale.Language); err != nil {
			return err
		}
	}

	app, err := newTutorApp(cfg, appOptions{Language: language})
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := formatter.New(format, app.renderer, app.bundle, app.colorEnabled())
	if err != nil {
		return err
	}

	sess, err := analyzeImage(app.orchestrator, path)
	if err != nil {
		return errors.New(app.orchestrator.Rejection(err))
	}
	if sess.HasError() {
		return errors.New(sess.ErrorMessage)
	}

	report := formatter.NewReport(path, app.bundle.Locale(), sess.Result, sess.Preview, app.bundle)
	output, err := out.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := handleOutputDestination(cmd.OutOrStdout(), output); err != nil {
		return err
	}

	if analyzeCopy > 0 {
		if err := copyCodeBlock(report.Document, analyzeCopy); err != nil {
			return err
		}
		app.metrics.CopyPerformed()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%d)\n", emoji.GetEmoji("copied"), app.bundle.T("tutorial.copied"), analyzeCopy)
	}

	return nil
}

// analyzeImage runs one upload cycle to completion. Input rejections are
// returned as errors; service failures end in PhaseError.
func analyzeImage(orch *session.Orchestrator, path string) (session.Session, error) {
	_, tasks, err := orch.Upload(path)
	if err != nil {
		return session.Session{}, err
	}

	for res := range session.Dispatch(tasks) {
		orch.Apply(res)
	}
	return orch.Session(), nil
}

// resolveImagePath takes the image from args or asks for it
func resolveImagePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	var path string
	prompt := &survey.Input{
		Message: "Path to a design screenshot:",
		Help:    "Supported: " + strings.Join(tutor.SupportedExtensions(), ", "),
		Suggest: suggestImages,
	}
	if err := survey.AskOne(prompt, &path, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("no image selected: %w", err)
	}
	return strings.TrimSpace(path), nil
}

// suggestImages completes a partial path to directories and supported images
func suggestImages(toComplete string) []string {
	matches, _ := filepath.Glob(toComplete + "*")
	suggestions := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			suggestions = append(suggestions, match+string(filepath.Separator))
		} else if tutor.IsSupportedFile(match) {
			suggestions = append(suggestions, match)
		}
	}
	return suggestions
}

// promptForLocale asks for one of the supported tutorial languages
func promptForLocale(current string) (string, error) {
	bundle, err := locale.NewBundle(current)
	if err != nil {
		return "", err
	}

	var choice string
	prompt := &survey.Select{
		Message: "Tutorial language:",
		Options: bundle.Supported(),
		Default: bundle.Locale(),
		Description: func(value string, _ int) string {
			return bundle.Name(value)
		},
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", fmt.Errorf("no language selected: %w", err)
	}
	return choice, nil
}

// copyCodeBlock copies the n-th (one-based) code block of doc
func copyCodeBlock(doc *render.Document, n int) error {
	block := doc.Block(n - 1)
	if block == nil {
		count := 0
		if doc != nil {
			count = len(doc.Blocks)
		}
		return fmt.Errorf("no code block %d: the tutorial has %d", n, count)
	}
	if err := render.Copy(clipboardTarget, block); err != nil {
		return fmt.Errorf("failed to copy code block: %w", err)
	}
	return nil
}

// handleOutputDestination writes output to file or w
func handleOutputDestination(w io.Writer, output []byte) error {
	if analyzeOutputFile != "" {
		if err := validateOutputFilePath(analyzeOutputFile); err != nil {
			return fmt.Errorf("invalid output file path: %w", err)
		}

		if err := writeOutputBytesToFile(output, analyzeOutputFile); err != nil {
			return fmt.Errorf("failed to write output to file: %w", err)
		}

		if isVerbose() {
			fmt.Fprintf(os.Stderr, "Output saved to: %s\n", analyzeOutputFile)
		}
		return nil
	}

	_, err := w.Write(output)
	return err
}

func validateOutputFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// Create or truncate the file
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
