package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/yildizm/designtutor/internal/emoji"
	"github.com/yildizm/designtutor/internal/locale"
)

// DefaultCodeStyle is the chroma style used for code blocks
const DefaultCodeStyle = "onedark"

// DefaultWordWrap is the prose wrap width
const DefaultWordWrap = 80

// Options configures a Renderer
type Options struct {
	// CodeStyle names a chroma style
	CodeStyle string

	// ProseStyle names a glamour standard style; empty selects one from
	// the terminal background
	ProseStyle string

	WordWrap int

	// Profile decides the chroma formatter and whether any color is used
	Profile termenv.Profile

	// Interactive adds the copy key hint to code block headers
	Interactive bool

	Translator locale.Translator
}

// DefaultOptions returns options for the current environment
func DefaultOptions(tr locale.Translator) Options {
	return Options{
		CodeStyle:  DefaultCodeStyle,
		WordWrap:   DefaultWordWrap,
		Profile:    termenv.EnvColorProfile(),
		Translator: tr,
	}
}

// BlockState carries per-block interaction state into Render
type BlockState struct {
	// Selected is the index of the focused block, or -1
	Selected int

	// Copied reports whether a block shows its copied badge
	Copied func(index int) bool
}

// NoSelection is a BlockState with nothing focused or copied
var NoSelection = BlockState{Selected: -1}

// Layout is rendered output with the first line of every code block
type Layout struct {
	Content    string
	BlockLines []int
}

// Renderer turns a Document into terminal output: prose through glamour and
// code blocks through chroma inside a labeled frame.
type Renderer struct {
	opts      Options
	prose     *glamour.TermRenderer
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewRenderer creates a Renderer
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.CodeStyle == "" {
		opts.CodeStyle = DefaultCodeStyle
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = DefaultWordWrap
	}
	if opts.Translator == nil {
		return nil, fmt.Errorf("render: translator is required")
	}

	glamourOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(opts.WordWrap),
		glamour.WithColorProfile(opts.Profile),
	}
	switch {
	case opts.Profile == termenv.Ascii:
		glamourOpts = append(glamourOpts, glamour.WithStandardStyle("notty"))
	case opts.ProseStyle != "":
		glamourOpts = append(glamourOpts, glamour.WithStandardStyle(opts.ProseStyle))
	default:
		glamourOpts = append(glamourOpts, glamour.WithAutoStyle())
	}

	prose, err := glamour.NewTermRenderer(glamourOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Renderer{
		opts:      opts,
		prose:     prose,
		style:     styles.Get(opts.CodeStyle),
		formatter: formatterFor(opts.Profile),
	}, nil
}

// IsStyleAvailable reports whether name is a registered chroma style
func IsStyleAvailable(name string) bool {
	for _, s := range styles.Names() {
		if s == name {
			return true
		}
	}
	return false
}

func formatterFor(profile termenv.Profile) chroma.Formatter {
	switch profile {
	case termenv.TrueColor:
		return formatters.Get("terminal16m")
	case termenv.ANSI256:
		return formatters.Get("terminal256")
	case termenv.ANSI:
		return formatters.Get("terminal16")
	default:
		return formatters.Get("noop")
	}
}

// Highlight returns the block's code with syntax coloring. Unknown
// languages are guessed from the content, then rendered plain.
func (r *Renderer) Highlight(b CodeBlock) string {
	lexer := lexers.Get(b.Language)
	if lexer == nil {
		lexer = lexers.Analyse(b.Code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, b.Code)
	if err != nil {
		return b.Code
	}

	var sb strings.Builder
	if err := r.formatter.Format(&sb, r.style, iterator); err != nil {
		return b.Code
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Render renders the whole document
func (r *Renderer) Render(doc *Document, state BlockState) (string, error) {
	layout, err := r.Layout(doc, state)
	if err != nil {
		return "", err
	}
	return layout.Content, nil
}

// Layout renders the document and records where each code block starts
func (r *Renderer) Layout(doc *Document, state BlockState) (*Layout, error) {
	layout := &Layout{}
	if doc == nil {
		return layout, nil
	}

	var sb strings.Builder
	lines := 0
	write := func(s string) {
		sb.WriteString(s)
		lines += strings.Count(s, "\n")
	}

	for _, seg := range doc.Segments {
		switch seg.Kind {
		case ProseSegment:
			out, err := r.prose.Render(seg.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to render prose: %w", err)
			}
			write(strings.TrimRight(out, "\n") + "\n")
		case CodeSegment:
			layout.BlockLines = append(layout.BlockLines, lines)
			write(r.block(seg.Block, state) + "\n\n")
		}
	}

	layout.Content = sb.String()
	return layout, nil
}

func (r *Renderer) block(b *CodeBlock, state BlockState) string {
	selected := state.Selected == b.Index
	copied := state.Copied != nil && state.Copied(b.Index)

	border := lipgloss.RoundedBorder()
	frame := lipgloss.NewStyle().
		Border(border).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().Bold(true)
	statusStyle := lipgloss.NewStyle().Faint(true)

	if r.opts.Profile != termenv.Ascii {
		frame = frame.BorderForeground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"})
		labelStyle = labelStyle.Foreground(lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A855F7"})
		if selected {
			frame = frame.BorderForeground(lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#3B82F6"})
		}
		if copied {
			statusStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
		}
	} else if selected {
		frame = frame.Border(lipgloss.DoubleBorder())
	}

	header := labelStyle.Render(b.Label()) + "  " + statusStyle.Render(r.status(b, selected, copied))
	return frame.Render(header + "\n\n" + r.Highlight(*b))
}

func (r *Renderer) status(b *CodeBlock, selected, copied bool) string {
	t := r.opts.Translator
	switch {
	case copied:
		return emoji.GetEmoji("copied") + " " + t.T("tutorial.copied")
	case r.opts.Interactive && selected:
		return emoji.GetEmoji("copy") + " " + t.T("tutorial.copy") + " (c)"
	default:
		return fmt.Sprintf("#%d", b.Index+1)
	}
}
