// Package i18n resolves the UI language of a request and translates
// interface strings. Russian is the primary language of the catalog.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "hansik_lang"
)

var supportedTags = []language.Tag{
	language.Russian,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

//go:embed locales/*.yaml
var localesFS embed.FS

var messages = mustLoad(localesFS)

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.Russian
}

// Load reads every locale file of fsys into a message catalog and checks
// that all locales define the same keys.
func Load(fsys fs.FS) (*catalog.Builder, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	builder := catalog.NewBuilder(catalog.Fallback(Default()))
	keysByLocale := map[string]map[string]struct{}{}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); file.Locale != want {
			return nil, fmt.Errorf("locale %s: locale %q must match file name", p, file.Locale)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", p, err)
		}
		keys := make(map[string]struct{}, len(file.Messages))
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("locale %s: key %q: %w", p, key, err)
			}
			keys[key] = struct{}{}
		}
		keysByLocale[file.Locale] = keys
	}

	for locale, keys := range keysByLocale {
		for other, otherKeys := range keysByLocale {
			for key := range otherKeys {
				if _, ok := keys[key]; !ok {
					return nil, fmt.Errorf("locale %s: missing key %q defined in %s", locale, key, other)
				}
			}
		}
	}
	return builder, nil
}

func mustLoad(fsys fs.FS) *catalog.Builder {
	builder, err := Load(fsys)
	if err != nil {
		panic(err)
	}
	return builder
}

// Localizer translates message keys for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a Localizer for tag, normalized to a supported language.
func NewLocalizer(tag language.Tag) Localizer {
	tag = Normalize(tag)
	return Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// T translates key, formatting args into the message.
func (l Localizer) T(key string, args ...any) string {
	if l.printer == nil {
		l = NewLocalizer(Default())
	}
	return l.printer.Sprintf(key, args...)
}

// Lang returns the BCP 47 code of the localizer language.
func (l Localizer) Lang() string {
	return l.tag.String()
}

// Normalize coerces any tag to the closest supported language.
func Normalize(tag language.Tag) language.Tag {
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

func parseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supportedTags[idx], true
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := parseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return supportedTags[idx], false
			}
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the request language, persisting an explicit choice.
func FromRequest(w http.ResponseWriter, r *http.Request) Localizer {
	tag, persist := ResolveTag(r)
	if persist && w != nil {
		SetLanguageCookie(w, tag)
	}
	return NewLocalizer(tag)
}
