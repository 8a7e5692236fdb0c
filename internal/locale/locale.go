// Package locale holds the active display/response language and the string
// catalogs used for labels. It is passed explicitly into the session
// orchestrator and the renderer; nothing reads it as global state.
package locale

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured and as the lookup
// fallback for keys missing from another catalog.
const DefaultLocale = "en"

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// Provider exposes the active locale tag.
type Provider interface {
	Locale() string
	SetLocale(tag string) error
	OnChange(handler func(tag string))
}

// Translator maps a key to a string in the active locale.
type Translator interface {
	T(key string) string
}

// Bundle implements Provider and Translator over the embedded catalogs.
type Bundle struct {
	mu       sync.RWMutex
	active   string
	catalogs map[string]map[string]string
	handlers []func(string)
}

// NewBundle loads the embedded catalogs and activates tag. An empty tag
// selects DefaultLocale.
func NewBundle(tag string) (*Bundle, error) {
	catalogs, err := loadCatalogs()
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		active:   DefaultLocale,
		catalogs: catalogs,
	}
	if tag != "" {
		if err := b.SetLocale(tag); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustBundle is NewBundle for callers that only use embedded data and the
// default locale, such as tests.
func MustBundle(tag string) *Bundle {
	b, err := NewBundle(tag)
	if err != nil {
		panic(err)
	}
	return b
}

// Locale returns the active locale tag
func (b *Bundle) Locale() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.active
}

// SetLocale switches the active locale and notifies handlers when it
// actually changed. Tags are normalized: "ja-JP" selects "ja".
func (b *Bundle) SetLocale(tag string) error {
	normalized := Normalize(tag)

	b.mu.Lock()
	if _, ok := b.catalogs[normalized]; !ok {
		b.mu.Unlock()
		return fmt.Errorf("unsupported locale %q (supported: %s)", tag, strings.Join(b.supportedLocked(), ", "))
	}
	if normalized == b.active {
		b.mu.Unlock()
		return nil
	}
	b.active = normalized
	handlers := make([]func(string), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(normalized)
	}
	return nil
}

// OnChange registers a handler invoked after every locale switch
func (b *Bundle) OnChange(handler func(tag string)) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

// T looks key up in the active catalog, then DefaultLocale, then returns
// the key itself.
func (b *Bundle) T(key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.catalogs[b.active][key]; ok {
		return v
	}
	if v, ok := b.catalogs[DefaultLocale][key]; ok {
		return v
	}
	return key
}

// Supported returns the available locale tags, sorted
func (b *Bundle) Supported() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.supportedLocked()
}

// Next returns the tag following the active one in Supported order,
// wrapping around.
func (b *Bundle) Next() string {
	tags := b.Supported()
	current := b.Locale()
	for i, tag := range tags {
		if tag == current {
			return tags[(i+1)%len(tags)]
		}
	}
	return DefaultLocale
}

// Name returns the native display name of a locale
func (b *Bundle) Name(tag string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if v, ok := b.catalogs[tag]["language.name"]; ok {
		return v
	}
	return tag
}

func (b *Bundle) supportedLocked() []string {
	tags := make([]string, 0, len(b.catalogs))
	for tag := range b.catalogs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Normalize lowercases a language tag and strips region and script parts
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_."); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func loadCatalogs() (map[string]map[string]string, error) {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale catalogs: %w", err)
	}

	catalogs := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}

		data, err := catalogFS.ReadFile(path.Join("catalogs", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
		}

		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", raw, flat)
		catalogs[strings.TrimSuffix(name, ".yaml")] = flat
	}

	if _, ok := catalogs[DefaultLocale]; !ok {
		return nil, fmt.Errorf("default locale catalog %q is missing", DefaultLocale)
	}
	return catalogs, nil
}

// flatten turns nested YAML maps into dotted keys
func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
