package render

import (
	"errors"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultCopyFeedback is how long a block shows its copied badge
const DefaultCopyFeedback = 2 * time.Second

// Clipboard receives copied code
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

// WriteAll implements Clipboard
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// Copy places the block's code on the clipboard exactly as stored
func Copy(clip Clipboard, b *CodeBlock) error {
	if b == nil {
		return errors.New("no code block selected")
	}
	return clip.WriteAll(b.Code)
}

// CopyFeedback tracks which blocks show the copied badge. Each Mark gets a
// generation; Expire only clears the badge if no newer Mark replaced it.
type CopyFeedback struct {
	gen    uint64
	copied map[int]uint64
}

// NewCopyFeedback creates an empty tracker
func NewCopyFeedback() *CopyFeedback {
	return &CopyFeedback{copied: make(map[int]uint64)}
}

// Mark shows the badge on index and returns the generation to expire
func (f *CopyFeedback) Mark(index int) uint64 {
	f.gen++
	f.copied[index] = f.gen
	return f.gen
}

// Expire clears the badge set by the Mark that returned gen. It reports
// whether anything changed.
func (f *CopyFeedback) Expire(index int, gen uint64) bool {
	if f.copied[index] != gen {
		return false
	}
	delete(f.copied, index)
	return true
}

// IsCopied reports whether index shows the badge
func (f *CopyFeedback) IsCopied(index int) bool {
	_, ok := f.copied[index]
	return ok
}

// Clear drops every badge
func (f *CopyFeedback) Clear() {
	f.copied = make(map[int]uint64)
}
