package config

// SampleConfig returns a fully commented configuration file with every
// option at its default value
func SampleConfig() string {
	return `# Design Tutor configuration
# Search order: ./.designtutor.yaml, ~/.config/designtutor/config.yaml,
# /etc/designtutor/config.yaml. DESIGNTUTOR_* environment variables
# (also read from .env) override file values.

version: "1.0"

server:
  # Analysis service address. Requests go to <base_url>/api/v1/tutor/analyze
  base_url: "http://localhost:8000"
  # Optional User-Agent header sent with every request
  user_agent: ""

locale:
  # UI and tutorial language: en, zh, ja, de, fr, ko, es
  language: "en"

output:
  # Format used by analyze and watch: text, json, markdown
  default_format: "text"
  # auto, always, never
  color_mode: "auto"
  verbose: false
  # Prose wrap width in columns, 0 disables wrapping
  word_wrap: 80

ui:
  # default, high-contrast, minimal
  theme: "default"
  # Any chroma style name, e.g. onedark, monokai, github
  code_style: "onedark"
  # How long a copied code block shows its badge
  copy_feedback: 2s

metrics:
  # Serve Prometheus metrics on this address, e.g. ":9090". Empty disables.
  address: ""
`
}

// MinimalSampleConfig returns a compact configuration with the settings
// most installs change
func MinimalSampleConfig() string {
	return `version: "1.0"
server:
  base_url: "http://localhost:8000"
locale:
  language: "en"
output:
  default_format: "text"
`
}
