package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// UnlabeledLanguage is the label of a fence without a usable language tag
const UnlabeledLanguage = "unlabeled"

var languagePattern = regexp.MustCompile(`^\w+`)

// SegmentKind distinguishes prose from fenced code
type SegmentKind int

const (
	ProseSegment SegmentKind = iota
	CodeSegment
)

// Segment is a contiguous piece of the tutorial document
type Segment struct {
	Kind SegmentKind

	// Text is the markdown source of a prose segment
	Text string

	// Block is set for code segments
	Block *CodeBlock
}

// CodeBlock is one fenced code segment of the tutorial
type CodeBlock struct {
	// Index is the zero-based position among all blocks of the document
	Index int

	// Language is the leading word characters of the info string, may be empty
	Language string

	// Info is the raw info string after the opening fence
	Info string

	// Code is the block body with one trailing newline removed. It is what
	// the copy action places on the clipboard.
	Code string
}

// Label returns the visible language tag
func (b CodeBlock) Label() string {
	if b.Language == "" {
		return UnlabeledLanguage
	}
	return b.Language
}

// Document is a tutorial split into prose and code segments
type Document struct {
	Source   string
	Segments []Segment
	Blocks   []*CodeBlock
}

// Block returns the i-th code block or nil
func (d *Document) Block(i int) *CodeBlock {
	if d == nil || i < 0 || i >= len(d.Blocks) {
		return nil
	}
	return d.Blocks[i]
}

// Parse splits markdown into segments. Fenced code blocks at the top level
// or inside lists become code segments; everything else, including inline
// code and fences inside block quotes, stays prose.
func Parse(markdown string) *Document {
	src := []byte(markdown)
	doc := &Document{Source: markdown}

	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	cursor := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		start, end, ok := fenceBounds(src, fence, cursor)
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		block := newCodeBlock(src, fence, len(doc.Blocks))
		doc.appendProse(markdown[cursor:start])
		doc.Segments = append(doc.Segments, Segment{Kind: CodeSegment, Block: block})
		doc.Blocks = append(doc.Blocks, block)
		cursor = end

		return ast.WalkSkipChildren, nil
	})
	doc.appendProse(markdown[cursor:])

	return doc
}

func (d *Document) appendProse(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	d.Segments = append(d.Segments, Segment{Kind: ProseSegment, Text: s})
}

func newCodeBlock(src []byte, fence *ast.FencedCodeBlock, index int) *CodeBlock {
	var info string
	if fence.Info != nil {
		info = strings.TrimSpace(string(fence.Info.Segment.Value(src)))
	}

	var buf bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}

	// CRLF documents copy with plain newlines
	code := strings.ReplaceAll(buf.String(), "\r\n", "\n")

	return &CodeBlock{
		Index:    index,
		Language: languagePattern.FindString(info),
		Info:     info,
		Code:     strings.TrimSuffix(code, "\n"),
	}
}

// fenceBounds finds the byte range of a fenced block from the start of its
// opening fence line to the end of its closing fence line. Blocks whose
// fence is prefixed by anything but indentation are rejected.
func fenceBounds(src []byte, fence *ast.FencedCodeBlock, cursor int) (int, int, bool) {
	var open int
	switch {
	case fence.Info != nil:
		open = lineStart(src, fence.Info.Segment.Start)
	case fence.Lines().Len() > 0:
		first := lineStart(src, fence.Lines().At(0).Start)
		if first == 0 {
			return 0, 0, false
		}
		open = lineStart(src, first-1)
	default:
		open = nextFenceLine(src, cursor)
		if open < 0 {
			return 0, 0, false
		}
	}
	if open < cursor {
		return 0, 0, false
	}

	marker, ok := fenceMarker(lineAt(src, open))
	if !ok {
		return 0, 0, false
	}

	pos := lineEnd(src, open)
	if n := fence.Lines().Len(); n > 0 {
		last := fence.Lines().At(n - 1)
		pos = lineEnd(src, maxInt(last.Stop-1, last.Start))
	}

	for pos < len(src) {
		line := lineAt(src, pos)
		if isClosingFence(line, marker) {
			return open, lineEnd(src, pos), true
		}
		// Content lines are already accounted for; anything else before the
		// closing fence means the block ran to the end of its container.
		if strings.TrimSpace(string(line)) != "" {
			break
		}
		pos = lineEnd(src, pos)
	}
	return open, pos, true
}

// fenceMarker returns the fence run of an opening line, such as "```"
func fenceMarker(line []byte) (string, bool) {
	trimmed := bytes.TrimLeft(line, " \t")
	if len(trimmed) < 3 || (trimmed[0] != '`' && trimmed[0] != '~') {
		return "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == trimmed[0] {
		n++
	}
	if n < 3 {
		return "", false
	}
	return string(trimmed[:n]), true
}

func isClosingFence(line []byte, marker string) bool {
	trimmed := strings.TrimSpace(string(line))
	if len(trimmed) < len(marker) || trimmed[0] != marker[0] {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == ""
}

func nextFenceLine(src []byte, from int) int {
	for pos := from; pos < len(src); pos = lineEnd(src, pos) {
		if _, ok := fenceMarker(lineAt(src, pos)); ok {
			return pos
		}
	}
	return -1
}

func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline that ends the line
// containing pos
func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

func lineAt(src []byte, pos int) []byte {
	end := lineEnd(src, pos)
	return bytes.TrimRight(src[pos:end], "\r\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
