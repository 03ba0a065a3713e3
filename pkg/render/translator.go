package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when no
// translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ErrMissingTranslation signals that no catalog carried the requested key.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves a label resource key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (f TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return f(locale, key, args...)
}

// MissingTranslationHandler decides the string used when a key cannot be
// translated. params carries a {"default": fallback} map as its first entry
// when a fallback exists.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	for _, p := range params {
		if m, ok := p.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	params := []any{map[string]any{"default": fallback}}

	if t == nil {
		return onMissing(locale, key, params, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, params, err)
}
