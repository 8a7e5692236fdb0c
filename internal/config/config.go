package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/yildizm/designtutor/internal/locale"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Locale  LocaleConfig  `yaml:"locale" json:"locale"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ServerConfig configures the analysis service connection
type ServerConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`     // scheme://host[:port] of the analysis service
	UserAgent string `yaml:"user_agent" json:"user_agent"` // optional User-Agent header
}

// LocaleConfig configures the initial UI language
type LocaleConfig struct {
	Language string `yaml:"language" json:"language"` // en|zh|ja|de|fr|ko|es
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
	WordWrap      int    `yaml:"word_wrap" json:"word_wrap"`           // prose wrap width, 0 disables
}

// UIConfig configures the interactive terminal UI
type UIConfig struct {
	Theme        string        `yaml:"theme" json:"theme"`                 // default|high-contrast|minimal
	CodeStyle    string        `yaml:"code_style" json:"code_style"`       // chroma style name
	CopyFeedback time.Duration `yaml:"copy_feedback" json:"copy_feedback"` // how long the copied badge stays
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Address string `yaml:"address" json:"address"` // listen address, empty disables
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
		},
		Locale: LocaleConfig{
			Language: locale.DefaultLocale,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			WordWrap:      80,
		},
		UI: UIConfig{
			Theme:        "default",
			CodeStyle:    "onedark",
			CopyFeedback: 2 * time.Second,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateLocaleConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid server.base_url %q: %w", c.Server.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server.base_url %q (scheme must be http or https)", c.Server.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server.base_url %q (missing host)", c.Server.BaseURL)
	}
	return nil
}

func (c *Config) validateLocaleConfig() error {
	if c.Locale.Language == "" {
		return nil
	}
	if _, err := locale.NewBundle(c.Locale.Language); err != nil {
		return fmt.Errorf("invalid locale: %w", err)
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.WordWrap < 0 {
		return fmt.Errorf("word_wrap must be non-negative")
	}
	return nil
}

func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.CodeStyle != "" && !isCodeStyle(c.UI.CodeStyle) {
		return fmt.Errorf("invalid code style: %s", c.UI.CodeStyle)
	}
	if c.UI.CopyFeedback <= 0 {
		return fmt.Errorf("copy_feedback must be greater than 0")
	}
	return nil
}

func isCodeStyle(name string) bool {
	for _, n := range styles.Names() {
		if n == name {
			return true
		}
	}
	return false
}
