package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/designtutor/internal/emoji"
	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/render"
)

// textFormatter formats a report for terminal display using go-termfmt
type textFormatter struct {
	renderer *render.Renderer
	tr       locale.Translator
	opts     *termfmt.TerminalOptions
}

// NewText creates a text formatter that renders the tutorial with renderer
func NewText(renderer *render.Renderer, tr locale.Translator, color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &textFormatter{renderer: renderer, tr: tr, opts: opts}
}

func (f *textFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeStatistics(&b, report.Summary)
	f.writeComponents(&b, report.Summary)

	body, err := f.renderer.Render(report.Document, render.NoSelection)
	if err != nil {
		return nil, err
	}
	b.WriteString(body)

	if n := len(report.Document.Blocks); n > 0 {
		fmt.Fprintf(&b, "%s %d code block(s); copy one with --copy N\n", emoji.GetEmoji("copy"), n)
	}

	return []byte(b.String()), nil
}

// writeHeader writes a box-drawn title with the analyzed file
func (f *textFormatter) writeHeader(b *strings.Builder, report *Report) {
	header := f.tr.T("hero.title")
	if report.File != "" {
		header += ": " + report.File
	}
	width := len([]rune(header))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeStatistics writes the three stat values as a tree
func (f *textFormatter) writeStatistics(b *strings.Builder, s render.Summary) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " " + f.tr.T("tutorial.summary") + "\n")

	items := []termfmt.TreeItem{
		{Label: emoji.GetEmoji("time") + " " + f.tr.T("tutorial.estimatedTime"), Value: orDash(s.Time)},
		{Label: emoji.GetEmoji("difficulty") + " " + f.tr.T("tutorial.difficulty"), Value: orDash(s.Difficulty)},
		{Label: emoji.GetEmoji("components") + " " + f.tr.T("tutorial.components"), Value: s.Detected, Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeComponents writes at most render.MaxListedComponents names
func (f *textFormatter) writeComponents(b *strings.Builder, s render.Summary) {
	if len(s.Components) == 0 {
		return
	}

	items := make([]termfmt.TreeItem, 0, len(s.Components))
	for i, name := range s.Components {
		items = append(items, termfmt.TreeItem{Label: name, Last: i == len(s.Components)-1})
	}

	b.WriteString(emoji.GetEmoji("components") + " " + f.tr.T("tutorial.componentsFound") + "\n")
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
