package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yildizm/designtutor/internal/tutor"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

const sampleTutorial = "# Card\n\nStart with the markup.\n\n```jsx\nexport const Card = () => <div className=\"card\" />;\n```\n\n```css\n.card { padding: 8px; }\n```\n"

// tutorialServer answers every analysis with result, or with handler when set
func tutorialServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, &tutor.TutorialResult{
				Tutorial:            sampleTutorial,
				ComponentsDetected:  []string{"Card"},
				EstimatedDifficulty: "Beginner",
				EstimatedTime:       "15 minutes",
			})
		}
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("DESIGNTUTOR_SERVER_BASE_URL", server.URL)
	t.Setenv("DESIGNTUTOR_OUTPUT_COLOR_MODE", "never")
	return server
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func imageFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return path
}

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand("1.0.0", "abc123", "2024-01-01")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *memClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
