package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pngHeader is enough for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testUpload(t *testing.T) *Upload {
	t.Helper()
	up, err := NewUpload("design.png", pngHeader)
	if err != nil {
		t.Fatalf("NewUpload() error = %v", err)
	}
	return up
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestClient_New(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"nil config uses defaults", nil, false},
		{"valid config", &Config{BaseURL: "https://tutor.example.com"}, false},
		{"missing base URL", &Config{}, true},
		{"invalid base URL", &Config{BaseURL: "http://[::1]:namedport"}, true},
		{"unsupported scheme", &Config{BaseURL: "ftp://example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && client == nil {
				t.Error("New() returned nil client without error")
			}
		})
	}
}

func TestClient_Endpoint(t *testing.T) {
	client, err := New(&Config{BaseURL: "http://localhost:8000/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := client.Endpoint(); got != "http://localhost:8000/api/v1/tutor/analyze" {
		t.Errorf("Endpoint() = %s", got)
	}
}

func TestClient_AnalyzeSuccess(t *testing.T) {
	want := TutorialResult{
		Tutorial:            "# Tutorial\n\nStep 1: ...",
		ComponentsDetected:  []string{"Header", "Button"},
		EstimatedDifficulty: "Beginner",
		EstimatedTime:       "30 minutes",
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != AnalyzePath {
			t.Errorf("Expected %s, got %s", AnalyzePath, r.URL.Path)
		}

		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue(FieldLanguage); got != "ja" {
			t.Errorf("Expected language ja, got %q", got)
		}

		file, header, err := r.FormFile(FieldImage)
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer func() { _ = file.Close() }()

		if header.Filename != "design.png" {
			t.Errorf("Expected filename design.png, got %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png part, got %q", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != string(pngHeader) {
			t.Error("image part does not match the uploaded bytes")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	})

	got, err := client.Analyze(context.Background(), testUpload(t), "ja")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Tutorial != want.Tutorial || got.EstimatedTime != want.EstimatedTime ||
		got.EstimatedDifficulty != want.EstimatedDifficulty {
		t.Errorf("Analyze() = %+v, want %+v", got, want)
	}
	if len(got.ComponentsDetected) != 2 || got.ComponentsDetected[1] != "Button" {
		t.Errorf("ComponentsDetected = %v", got.ComponentsDetected)
	}
}

func TestClient_AnalyzeMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tutorial": "# Only prose"}`)
	})

	got, err := client.Analyze(context.Background(), testUpload(t), "en")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.ComponentsDetected == nil {
		t.Error("absent components_detected should normalize to an empty slice")
	}
	if got.ComponentCount() != 0 || got.EstimatedTime != "" {
		t.Errorf("unexpected defaults: %+v", got)
	}
}

func TestClient_AnalyzeErrorPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", http.StatusInternalServerError, `{"detail": "Server error"}`, "Server error"},
		{"object detail with error", http.StatusBadRequest, `{"detail": {"error": "Invalid image format", "code": "INVALID_FORMAT"}}`, "Invalid image format"},
		{"object detail with error and message", http.StatusBadRequest, `{"detail": {"error": "first", "message": "second"}}`, "first"},
		{"object detail with message only", http.StatusRequestEntityTooLarge, `{"detail": {"message": "File too large"}}`, "File too large"},
		{"object detail without fields", http.StatusBadRequest, `{"detail": {"code": 7}}`, FallbackMessage},
		{"non-string error falls through", http.StatusBadRequest, `{"detail": {"error": {"nested": true}, "message": "plain"}}`, "plain"},
		{"missing detail", http.StatusBadGateway, `{"status": "bad"}`, FallbackMessage},
		{"numeric detail", http.StatusBadRequest, `{"detail": 42}`, FallbackMessage},
		{"unparsable body 500", http.StatusInternalServerError, `<html>oops</html>`, FallbackMessage},
		{"unparsable body 404", http.StatusNotFound, `not json`, FallbackMessage},
		{"empty body", http.StatusServiceUnavailable, ``, FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Analyze(context.Background(), testUpload(t), "en")
			if err == nil {
				t.Fatal("Analyze() expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("Analyze() error = %q, want %q", err.Error(), tt.want)
			}
			if !IsApplicationError(err) {
				t.Errorf("expected application error, got %v", err)
			}

			var ae *AnalysisError
			if errors.As(err, &ae) && ae.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", ae.StatusCode, tt.status)
			}
		})
	}
}

func TestClient_AnalyzeMalformedSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"tutorial": `)
	})

	_, err := client.Analyze(context.Background(), testUpload(t), "en")
	if err == nil {
		t.Fatal("Analyze() expected error")
	}
	if !errors.Is(err, &AnalysisError{Kind: KindDecode}) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestClient_AnalyzeNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := New(&Config{BaseURL: url})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.Analyze(context.Background(), testUpload(t), "en")
	if err == nil {
		t.Fatal("Analyze() expected error")
	}
	if !IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestClient_AnalyzeCanceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Analyze(ctx, testUpload(t), "en")
	if !IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cause context.Canceled, got %v", err)
	}
}

func TestClient_AnalyzeUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "designtutor/test" {
			t.Errorf("User-Agent = %q", ua)
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	client, err := New(&Config{BaseURL: server.URL, UserAgent: "designtutor/test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Analyze(context.Background(), testUpload(t), "en"); err != nil {
		t.Errorf("Analyze() error = %v", err)
	}
}

func TestClient_AnalyzeNilUpload(t *testing.T) {
	client, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.Analyze(context.Background(), nil, "en")
	if !IsInputError(err) {
		t.Errorf("expected input error, got %v", err)
	}
}
