// Package i18n renders user-facing messages from embedded JSON locale files.
// Lookup never fails: an unknown language falls back to the default locale
// and an unknown key degrades to a visibly marked placeholder, so a missing
// translation can never break delivery.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"telegram-reminder-bot/internal/models"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	once         sync.Once
	translations map[string]map[string]string
)

func load() {
	translations = make(map[string]map[string]string)
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return
	}
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), ".json")
		b, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(b, &m); err != nil {
			continue
		}
		translations[lang] = m
	}
}

// Text renders the message identified by key for the given language.
// params fills {name} placeholders and may be nil.
func Text(lang, key string, params map[string]any) string {
	once.Do(load)

	m, ok := translations[lang]
	if !ok {
		m = translations[models.DefaultLanguage]
	}
	text, ok := m[key]
	if !ok {
		return "MISSING:" + key
	}
	for name, v := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", fmt.Sprint(v))
	}
	return text
}
