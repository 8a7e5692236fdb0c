// Package preview turns a selected image file into a displayable
// representation independently of the analysis request.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/yildizm/designtutor/internal/logger"
)

// Image is a locally generated preview of the selected file
type Image struct {
	Name        string
	ContentType string
	Size        int64

	// DataURI embeds the file as data:<mime>;base64,<payload>
	DataURI string

	// Width and Height are zero when the format has no registered decoder
	Width  int
	Height int
}

// Dimensions reports whether Width and Height are known
func (i *Image) Dimensions() bool {
	return i != nil && i.Width > 0 && i.Height > 0
}

// Summary returns a one-line description such as "design.png · 1440×900 · 312 kB"
func (i *Image) Summary() string {
	if i == nil {
		return ""
	}
	s := i.Name
	if i.Dimensions() {
		s += fmt.Sprintf(" · %d×%d", i.Width, i.Height)
	}
	return s + " · " + humanize.Bytes(uint64(i.Size))
}

// Generator builds previews
type Generator struct {
	// MaxBytes bounds the file size read for a preview; zero means no bound
	MaxBytes int64
	log      *logger.Logger
}

// NewGenerator creates a Generator bounded to maxBytes
func NewGenerator(maxBytes int64, log *logger.Logger) *Generator {
	return &Generator{MaxBytes: maxBytes, log: log}
}

// Generate reads path and builds its preview. Callers treat any error as
// non-fatal.
func (g *Generator) Generate(ctx context.Context, path string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if g.MaxBytes > 0 && info.Size() > g.MaxBytes {
		return nil, fmt.Errorf("file %s exceeds preview limit of %s", path, humanize.IBytes(uint64(g.MaxBytes)))
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is user-selected
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := FromBytes(filepath.Base(path), data)
	if img.Dimensions() {
		g.log.Debug("preview ready: %s", img.Summary())
	} else {
		g.log.Debug("preview ready without dimensions: %s", img.Summary())
	}
	return img, nil
}

// FromBytes builds a preview from in-memory image data
func FromBytes(name string, data []byte) *Image {
	contentType := http.DetectContentType(data)

	img := &Image{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		DataURI:     DataURI(contentType, data),
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img
}

// DataURI encodes data as a base64 data URI
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
