// Package i18n provides the flat key→string translation lookup used for UI
// labels. Bundles are plain YAML maps compiled into the binary; a missing key
// falls back to the key itself so untranslated strings stay visible rather
// than blank.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator holds all loaded language bundles.
type Translator struct {
	bundles map[string]map[string]string
}

// Load parses every embedded locale bundle.
func Load() (*Translator, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale bundles: %w", err)
	}

	bundles := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), ".yaml")
		raw, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}
		bundles[lang] = table
	}
	return &Translator{bundles: bundles}, nil
}

// T returns the translation of key in the given language, falling back to the
// key itself when the language or key is unknown.
func (t *Translator) T(lang, key string) string {
	if table, ok := t.bundles[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	return key
}

// Table returns the full lookup table for a language, or nil if unknown.
func (t *Translator) Table(lang string) map[string]string {
	table, ok := t.bundles[lang]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Languages returns the loaded language codes, sorted.
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.bundles))
	for l := range t.bundles {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// HasLanguage reports whether a bundle exists for the language.
func (t *Translator) HasLanguage(lang string) bool {
	_, ok := t.bundles[lang]
	return ok
}
