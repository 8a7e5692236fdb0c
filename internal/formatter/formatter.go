package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/preview"
	"github.com/yildizm/designtutor/internal/render"
	"github.com/yildizm/designtutor/internal/tutor"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is a finished analysis prepared for output
type Report struct {
	File     string
	Language string
	Result   *tutor.TutorialResult
	Summary  render.Summary
	Document *render.Document
	Preview  *preview.Image
}

// NewReport derives the summary and the parsed document from result
func NewReport(file, language string, result *tutor.TutorialResult, img *preview.Image, tr locale.Translator) *Report {
	result = result.Normalize()
	if result == nil {
		result = (&tutor.TutorialResult{}).Normalize()
	}
	return &Report{
		File:     file,
		Language: language,
		Result:   result,
		Summary:  render.Summarize(result, tr),
		Document: render.Parse(result.Tutorial),
		Preview:  img,
	}
}

// Supported output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted format names
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown}
}

// New creates the formatter for format. The renderer and translator are
// only used by the text formatter and for markdown headings.
func New(format string, renderer *render.Renderer, tr locale.Translator, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		if renderer == nil {
			return nil, fmt.Errorf("text output requires a renderer")
		}
		return NewText(renderer, tr, color), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown, "md":
		return NewMarkdown(tr), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
}
