// Package localization provides functionality for internationalization (i18n).
// It loads translation strings from JSON files and resolves the display labels
// of categories, departments, statuses and roles.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// DefaultLang is used whenever a key is missing in the requested language.
const DefaultLang = "en"

//go:embed locales/*.json
var embedded embed.FS

// Localizer manages the translations for the application.
// It holds a map of languages, each with its own map of translation keys and values.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// Default returns a Localizer over the translations compiled into the binary.
func Default() (*Localizer, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return NewLocalizer(sub)
}

// NewLocalizer creates and returns a new Localizer instance.
// It loads every "<lang>.json" file at the root of fsys.
func NewLocalizer(fsys fs.FS) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")

		data, err := fs.ReadFile(fsys, path.Join(".", file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	return l, nil
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it returns the key itself as a fallback.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != DefaultLang {
		if enTranslations, ok := l.translations[DefaultLang]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Label resolves the display label of an enum value, e.g. Label("en", "status", "in-progress").
func (l *Localizer) Label(lang, kind, value string) string {
	return l.GetString(lang, kind+"."+value)
}

// HasLanguage reports whether translations for lang were loaded.
func (l *Localizer) HasLanguage(lang string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.translations[lang]
	return ok
}
