package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_LabeledBlock(t *testing.T) {
	doc := Parse("# Step 1\n\nCreate the file:\n\n```js\nconst x = 1;\n```\n\nThat's it.\n")

	require.Len(t, doc.Blocks, 1)
	block := doc.Blocks[0]
	assert.Equal(t, "js", block.Label())
	assert.Equal(t, "const x = 1;", block.Code)
	assert.Equal(t, 0, block.Index)

	require.Len(t, doc.Segments, 3)
	assert.Equal(t, ProseSegment, doc.Segments[0].Kind)
	assert.Contains(t, doc.Segments[0].Text, "Create the file:")
	assert.NotContains(t, doc.Segments[0].Text, "```")
	assert.Equal(t, CodeSegment, doc.Segments[1].Kind)
	assert.Same(t, block, doc.Segments[1].Block)
	assert.Contains(t, doc.Segments[2].Text, "That's it.")
	assert.NotContains(t, doc.Segments[2].Text, "```")
}

func TestParse_Labels(t *testing.T) {
	tests := []struct {
		name      string
		markdown  string
		wantLabel string
		wantInfo  string
	}{
		{"plain", "```tsx\nx\n```\n", "tsx", "tsx"},
		{"attributes after language", "```jsx {1,3}\nx\n```\n", "jsx", "jsx {1,3}"},
		{"symbols stop the word", "```c++\nx\n```\n", "c", "c++"},
		{"no language", "```\nx\n```\n", UnlabeledLanguage, ""},
		{"non-word info", "```{.css}\nx\n```\n", UnlabeledLanguage, "{.css}"},
		{"tilde fence", "~~~python\nx\n~~~\n", "python", "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.markdown)
			require.Len(t, doc.Blocks, 1)
			assert.Equal(t, tt.wantLabel, doc.Blocks[0].Label())
			assert.Equal(t, tt.wantInfo, doc.Blocks[0].Info)
			assert.Equal(t, "x", doc.Blocks[0].Code)
		})
	}
}

func TestParse_CodeNormalization(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"single trailing newline removed", "```js\nconst x = 1;\n```", "const x = 1;"},
		{"only one newline removed", "```js\na\n\n```\n", "a\n"},
		{"multi line", "```css\n.a {\n  color: red;\n}\n```\n", ".a {\n  color: red;\n}"},
		{"empty block", "```js\n```\n", ""},
		{"unclosed block runs to end", "```go\nfmt.Println()\n", "fmt.Println()"},
		{"longer fence keeps inner fence", "````md\n```js\nx\n```\n````\n", "```js\nx\n```"},
		{"crlf line endings", "```js\r\nconst y = 2;\r\nconst z = 3;\r\n```\r\n", "const y = 2;\nconst z = 3;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.markdown)
			require.Len(t, doc.Blocks, 1)
			assert.Equal(t, tt.want, doc.Blocks[0].Code)
		})
	}
}

func TestParse_MultipleBlocks(t *testing.T) {
	md := "Intro\n\n```html\n<div></div>\n```\n\nMiddle with `inline code`.\n\n```\nplain\n```\n\n```css\n.a{}\n```\nEnd\n"
	doc := Parse(md)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, []string{"html", UnlabeledLanguage, "css"},
		[]string{doc.Blocks[0].Label(), doc.Blocks[1].Label(), doc.Blocks[2].Label()})
	for i, b := range doc.Blocks {
		assert.Equal(t, i, b.Index)
	}

	var prose []string
	for _, seg := range doc.Segments {
		if seg.Kind == ProseSegment {
			prose = append(prose, seg.Text)
		}
	}
	require.Len(t, prose, 3)
	assert.Contains(t, prose[1], "`inline code`", "inline code stays in prose")
	assert.Contains(t, prose[2], "End")
}

func TestParse_ListItemBlock(t *testing.T) {
	md := "1. Install:\n\n   ```bash\n   npm install\n   ```\n\n2. Run it\n"
	doc := Parse(md)

	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "bash", doc.Blocks[0].Label())
	assert.Equal(t, "npm install", doc.Blocks[0].Code)
}

func TestParse_BlockQuoteFenceStaysProse(t *testing.T) {
	doc := Parse("> ```js\n> quoted()\n> ```\n")

	assert.Empty(t, doc.Blocks)
	require.Len(t, doc.Segments, 1)
	assert.Equal(t, ProseSegment, doc.Segments[0].Kind)
}

func TestParse_NoBlocks(t *testing.T) {
	doc := Parse("# Title\n\nJust text.")
	assert.Empty(t, doc.Blocks)
	require.Len(t, doc.Segments, 1)

	empty := Parse("")
	assert.Empty(t, empty.Segments)
	assert.Nil(t, empty.Block(0))
}
