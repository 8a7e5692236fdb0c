package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerate_PNG(t *testing.T) {
	data := encodePNG(t, 4, 3)
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	img, err := NewGenerator(0, nil).Generate(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "shot.png", img.Name)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len(data)), img.Size)
	assert.True(t, strings.HasPrefix(img.DataURI, "data:image/png;base64,"))
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Contains(t, img.Summary(), "4×3")
}

func TestFromBytes_WebPHasNoDimensions(t *testing.T) {
	img := FromBytes("a.webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "))

	assert.Equal(t, "image/webp", img.ContentType)
	assert.False(t, img.Dimensions())
	assert.NotEmpty(t, img.DataURI)
	assert.NotContains(t, img.Summary(), "×")
}

func TestGenerate_Failures(t *testing.T) {
	dir := t.TempDir()

	_, err := NewGenerator(0, nil).Generate(context.Background(), filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	big := filepath.Join(dir, "big.png")
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0o600))
	_, err = NewGenerator(32, nil).Generate(context.Background(), big)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGenerator(0, nil).Generate(ctx, big)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/gif;base64,R0lG", DataURI("image/gif", []byte("GIF")))
}

func TestImage_NilSafe(t *testing.T) {
	var img *Image
	assert.False(t, img.Dimensions())
	assert.Equal(t, "", img.Summary())
}
