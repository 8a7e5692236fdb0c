package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/designtutor/internal/logger"
)

// DefaultBaseURL is the analysis service address used when none is configured
const DefaultBaseURL = "http://localhost:8000"

// Config configures a Client
type Config struct {
	BaseURL   string `json:"base_url"`
	UserAgent string `json:"user_agent,omitempty"`

	// HTTPClient defaults to a client without a timeout
	HTTPClient *http.Client `json:"-"`

	Logger *logger.Logger `json:"-"`
}

// DefaultConfig returns a Config pointing at DefaultBaseURL
func DefaultConfig() *Config {
	return &Config{BaseURL: DefaultBaseURL}
}

// Validate checks the base URL
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewValidationError("base_url", "", "base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return NewValidationError("base_url", c.BaseURL, fmt.Sprintf("invalid base URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError("base_url", c.BaseURL, "base URL must use http or https")
	}
	return nil
}

// Client issues analysis requests. Each call sends exactly one request; there
// are no retries and no client-side timeout.
type Client struct {
	config   *Config
	client   *http.Client
	endpoint *url.URL
	log      *logger.Logger
}

// New creates a Client
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:   config,
		client:   httpClient,
		endpoint: baseURL.JoinPath(AnalyzePath),
		log:      config.Logger,
	}, nil
}

// Endpoint returns the full analysis URL
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Analyze uploads the image with the locale tag and decodes the tutorial.
// Every failure is an *AnalysisError whose Error() is display text.
func (c *Client) Analyze(ctx context.Context, upload *Upload, locale string) (*TutorialResult, error) {
	if upload == nil {
		return nil, NewAnalysisErrorWithCause(KindInput, "an image is required",
			NewValidationError(FieldFile, "nil", "upload is required"))
	}

	body, contentType, err := buildMultipart(upload, locale)
	if err != nil {
		return nil, NewAnalysisErrorWithCause(KindInput, FallbackMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return nil, NewAnalysisErrorWithCause(KindTransport, FallbackMessage, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	c.log.DebugWithFields("sending analysis request", []logger.Field{
		logger.F("file", upload.Name),
		logger.F("bytes", upload.Size),
		logger.F("language", locale),
	})

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.DebugWithFields("analysis request failed", []logger.Field{logger.Duration(time.Since(start)), logger.Error(err)})
		return nil, NewAnalysisErrorWithCause(KindTransport, transportMessage(err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewAnalysisErrorWithCause(KindTransport, transportMessage(err), err)
	}

	c.log.DebugWithFields("analysis response received", []logger.Field{
		logger.F("status", resp.StatusCode),
		logger.F("bytes", len(data)),
		logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewApplicationError(resp.StatusCode, ParseErrorMessage(data))
	}

	var result TutorialResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, NewAnalysisErrorWithCause(KindDecode, FallbackMessage, err)
	}

	return result.Normalize(), nil
}

// transportMessage keeps cancellation distinguishable in logs; the display
// text is chosen by the caller from the error kind.
func transportMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return "no response from analysis service"
}

func buildMultipart(upload *Upload, locale string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldImage, escapeQuotes(upload.Name)))
	header.Set("Content-Type", upload.ContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}

	if err := w.WriteField(FieldLanguage, locale); err != nil {
		return nil, "", fmt.Errorf("failed to write language field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
