package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/designtutor/internal/locale"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	tr locale.Translator
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(tr locale.Translator) Formatter {
	return &markdownFormatter{tr: tr}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	title := f.tr.T("hero.title")
	if report.File != "" {
		title += ": " + report.File
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	f.writeSummaryTable(&b, report)
	f.writeComponents(&b, report)

	// The tutorial is already markdown; it is written unchanged
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimRight(report.Result.Tutorial, "\n"))
	b.WriteString("\n")

	return []byte(b.String()), nil
}

// writeSummaryTable writes the stats table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, report *Report) {
	fmt.Fprintf(b, "## %s\n\n", f.tr.T("tutorial.summary"))

	b.WriteString("| | |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| %s | %s |\n", f.tr.T("tutorial.estimatedTime"), escapeCell(orDash(report.Summary.Time)))
	fmt.Fprintf(b, "| %s | %s |\n", f.tr.T("tutorial.difficulty"), escapeCell(orDash(report.Summary.Difficulty)))
	fmt.Fprintf(b, "| %s | %s |\n\n", f.tr.T("tutorial.components"), escapeCell(report.Summary.Detected))
}

func (f *markdownFormatter) writeComponents(b *strings.Builder, report *Report) {
	if len(report.Summary.Components) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", f.tr.T("tutorial.componentsFound"))
	for _, name := range report.Summary.Components {
		fmt.Fprintf(b, "- %s\n", name)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
