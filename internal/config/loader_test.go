package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
	if len(loader.envFiles) != 1 || loader.envFiles[0] != ".env" {
		t.Errorf("Expected .env to be loaded by default, got %v", loader.envFiles)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := &Loader{}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "test-config.yaml", `version: "1.0"
server:
  base_url: "https://tutor.example.com"
  user_agent: "designtutor-test"
locale:
  language: "de"
output:
  default_format: "json"
  verbose: true
ui:
  theme: "high-contrast"
  copy_feedback: 5s
metrics:
  address: ":9090"
`)

	cfg, err := NewLoader().WithEnvFiles().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Server.BaseURL != "https://tutor.example.com" {
		t.Errorf("Expected base URL https://tutor.example.com, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.UserAgent != "designtutor-test" {
		t.Errorf("Expected user agent designtutor-test, got %s", cfg.Server.UserAgent)
	}
	if cfg.Locale.Language != "de" {
		t.Errorf("Expected locale de, got %s", cfg.Locale.Language)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.UI.Theme != "high-contrast" {
		t.Errorf("Expected theme high-contrast, got %s", cfg.UI.Theme)
	}
	if cfg.UI.CopyFeedback != 5*time.Second {
		t.Errorf("Expected copy feedback 5s, got %v", cfg.UI.CopyFeedback)
	}
	if cfg.UI.CodeStyle != "onedark" {
		t.Errorf("Expected untouched code style onedark, got %s", cfg.UI.CodeStyle)
	}
	if cfg.Metrics.Address != ":9090" {
		t.Errorf("Expected metrics address :9090, got %s", cfg.Metrics.Address)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	system := writeFile(t, dir, "system.yaml", "output:\n  default_format: markdown\n  word_wrap: 100\n")
	project := writeFile(t, dir, "project.yaml", "output:\n  default_format: json\n")

	loader := &Loader{configPaths: []string{project, filepath.Join(dir, "missing.yaml"), system}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected project file to win, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Output.WordWrap != 100 {
		t.Errorf("Expected system word wrap 100, got %d", cfg.Output.WordWrap)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid-config.yaml", `version: "1.0"
server:
  base_url: "http://localhost:8000
  user_agent: x
`)

	_, err := NewLoader().WithEnvFiles().LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "bad.yaml", "locale:\n  language: tlh\n")

	_, err := NewLoader().WithEnvFiles().LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DESIGNTUTOR_SERVER_BASE_URL", "http://10.0.0.5:8000")
	t.Setenv("DESIGNTUTOR_LOCALE_LANGUAGE", "ko")
	t.Setenv("DESIGNTUTOR_OUTPUT_VERBOSE", "true")
	t.Setenv("DESIGNTUTOR_OUTPUT_WORD_WRAP", "120")
	t.Setenv("DESIGNTUTOR_UI_COPY_FEEDBACK", "500ms")
	t.Setenv("DESIGNTUTOR_METRICS_ADDRESS", "127.0.0.1:9100")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Server.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("Expected base URL override, got %s", cfg.Server.BaseURL)
	}
	if cfg.Locale.Language != "ko" {
		t.Errorf("Expected locale ko, got %s", cfg.Locale.Language)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.WordWrap != 120 {
		t.Errorf("Expected word wrap 120, got %d", cfg.Output.WordWrap)
	}
	if cfg.UI.CopyFeedback != 500*time.Millisecond {
		t.Errorf("Expected copy feedback 500ms, got %v", cfg.UI.CopyFeedback)
	}
	if cfg.Metrics.Address != "127.0.0.1:9100" {
		t.Errorf("Expected metrics address override, got %s", cfg.Metrics.Address)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "DESIGNTUTOR_OUTPUT_WORD_WRAP", "wide"},
		{"invalid bool", "DESIGNTUTOR_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "DESIGNTUTOR_UI_COPY_FEEDBACK", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "test.env", "DESIGNTUTOR_UI_THEME=minimal\nDESIGNTUTOR_OUTPUT_COLOR_MODE=never\n")
	t.Setenv("DESIGNTUTOR_OUTPUT_COLOR_MODE", "always")
	t.Cleanup(func() { _ = os.Unsetenv("DESIGNTUTOR_UI_THEME") })

	loader := &Loader{envFiles: []string{envFile, filepath.Join(dir, "absent.env")}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.UI.Theme != "minimal" {
		t.Errorf("Expected theme from .env, got %s", cfg.UI.Theme)
	}
	if cfg.Output.ColorMode != "always" {
		t.Errorf("Expected process environment to beat .env, got %s", cfg.Output.ColorMode)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	if err := parseInt("42", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	if err := parseInt("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := writeFile(t, t.TempDir(), "test-file", "test")
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid yaml file",
			path: "config.yaml",
		},
		{
			name: "valid yml file",
			path: "config.yml",
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.toml",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name: "relative path with valid extension",
			path: "./configs/app.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("./config.yaml"); got != "./config.yaml" {
		t.Errorf("relative path changed: %s", got)
	}
	if got := expandPath("/etc/designtutor/config.yaml"); got != "/etc/designtutor/config.yaml" {
		t.Errorf("absolute path changed: %s", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	want := filepath.Join(home, ".config/designtutor/config.yaml")
	if got := expandPath("~/.config/designtutor/config.yaml"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.designtutor.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if strings.HasPrefix(paths[1], "~") {
		t.Errorf("Expected user path to be expanded, got %s", paths[1])
	}
	if paths[2] != "/etc/designtutor/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}
