// Package i18n resolves user-facing status strings shown by the host while a tool runs.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Translator resolves a message key, interpolating {name} placeholders from params
type Translator interface {
	T(key string, params map[string]any) string
}

// Messages maps message keys to templates for one locale
type Messages map[string]string

var builtin = map[language.Tag]Messages{
	language.English: {
		"plugins.search.running":   "Searching the internet…",
		"plugins.search.completed": "Searched the internet for \"{query}\" and found {count} results",
		"plugins.search.error":     "Internet search failed",
	},
	language.French: {
		"plugins.search.running":   "Recherche sur internet…",
		"plugins.search.completed": "Recherche internet pour « {query} » : {count} résultats",
		"plugins.search.error":     "La recherche internet a échoué",
	},
}

// Catalog is a Translator backed by in-memory message tables
type Catalog struct {
	locale   language.Tag
	messages Messages
	fallback Messages
}

// NewCatalog returns the built-in catalog for the best match of locale.
// Unknown or empty locales resolve to English.
func NewCatalog(locale string) *Catalog {
	tags := make([]language.Tag, 0, len(builtin))
	tags = append(tags, language.English)
	for tag := range builtin {
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	matcher := language.NewMatcher(tags)

	tag := language.English
	if locale != "" {
		if desired, _, err := language.ParseAcceptLanguage(locale); err == nil && len(desired) > 0 {
			_, idx, confidence := matcher.Match(desired...)
			if confidence != language.No {
				tag = tags[idx]
			}
		}
	}

	return &Catalog{
		locale:   tag,
		messages: builtin[tag],
		fallback: builtin[language.English],
	}
}

// Locale returns the resolved locale
func (c *Catalog) Locale() string {
	return c.locale.String()
}

// T resolves key. Missing keys resolve to the key itself.
func (c *Catalog) T(key string, params map[string]any) string {
	tmpl, ok := c.messages[key]
	if !ok {
		if tmpl, ok = c.fallback[key]; !ok {
			return key
		}
	}
	if len(params) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
