// Package i18n holds the UI message catalogs and resolves the viewer's language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Message keys.
const (
	KeyPageTitle           = "page.title"
	KeySelectorLabel       = "selector.label"
	KeySelectorPlaceholder = "selector.placeholder"
	KeySelectorOption      = "selector.option"
	KeySelectorSubmit      = "selector.submit"
	KeyFormHeading         = "form.heading"
	KeyFormURL             = "form.url"
	KeyFormTitle           = "form.title"
	KeyFormDescription     = "form.description"
	KeyFormSubmit          = "form.submit"
	KeyListHeading         = "list.heading"
	KeyListEmpty           = "list.empty"
	KeyListAriaLabel       = "list.aria_label"
	KeyAlertNoUser         = "alert.no_user"
	KeyNavLanguage         = "nav.language"
	KeyTimestampLayout     = "format.timestamp"
)

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var localesFS embed.FS

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
)

func init() {
	if err := register(localesFS); err != nil {
		panic(fmt.Sprintf("i18n: %v", err))
	}
}

// register loads every locales/*.yaml file and adds its messages to the x/text catalog.
func register(catalogFS fs.FS) error {
	paths, err := fs.Glob(catalogFS, "locales/*.yaml")
	if err != nil {
		return fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(catalogFS, path)
		if err != nil {
			return fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse catalog %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return fmt.Errorf("catalog %s: parse locale %q: %w", path, file.Locale, err)
		}
		for key, value := range file.Messages {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("catalog %s: set %q: %w", path, key, err)
			}
		}
	}
	return nil
}

// Supported returns the languages the UI is translated into.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Default returns the fallback language.
func Default() language.Tag {
	return language.English
}

// ParseTag matches value against the supported languages.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	return MatchTags([]language.Tag{tag})
}

// MatchTags returns the best supported language for the preference list.
func MatchTags(tags []language.Tag) (language.Tag, bool) {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// ResolveTag picks the language for r: the lang query parameter first,
// then Accept-Language, then fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r != nil {
		if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
			return tag
		}
		if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
			if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
				if tag, ok := MatchTags(tags); ok {
					return tag
				}
			}
		}
	}
	if tag, ok := MatchTags([]language.Tag{fallback}); ok {
		return tag
	}
	return Default()
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// FormatTime renders t in loc using the layout of the printer's language.
func FormatTime(p *message.Printer, t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(p.Sprintf(KeyTimestampLayout))
}
