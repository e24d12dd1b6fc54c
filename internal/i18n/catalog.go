// Package i18n renders CLI status lines in the language the user writes
// programs in. Catalogs are embedded TOML files loaded through go-i18n.
package i18n

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs.
const (
	MsgTranslated       = "translated"
	MsgTranslatedNone   = "translatedNone"
	MsgCompiled         = "compiled"
	MsgCompileFailed    = "compileFailed"
	MsgInvoking         = "invoking"
	MsgInvocationFailed = "invocationFailed"
	MsgWrote            = "wrote"
	MsgLanguagesHeader  = "languagesHeader"
	MsgUnsupported      = "unsupportedLanguage"
)

var catalogs = []string{
	"active.en.toml",
	"active.es.toml",
	"active.fr.toml",
	"active.pt.toml",
	"active.ru.toml",
}

// Catalog is a loaded message bundle. It is safe for concurrent use.
type Catalog struct {
	bundle *i18n.Bundle
}

// Load reads every embedded catalog. English is the fallback language.
func Load() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("i18n: failed to load %s: %w", file, err)
		}
	}
	return &Catalog{bundle: bundle}, nil
}

// Languages lists the tags with a catalog.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Printer renders messages for one locale.
type Printer struct {
	localizer *i18n.Localizer
}

// Printer returns a Printer preferring locales in order, then English.
// Empty and malformed entries are skipped by go-i18n.
func (c *Catalog) Printer(locales ...string) *Printer {
	langs := append(append([]string(nil), locales...), language.English.String())
	return &Printer{localizer: i18n.NewLocalizer(c.bundle, langs...)}
}

// Sprint renders id with data. A message missing from every catalog comes
// back as its id so output never goes blank.
func (p *Printer) Sprint(id string, data map[string]any) string {
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// Plural renders id choosing the plural form for count. count is also
// available to the template as .Count.
func (p *Printer) Plural(id string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil {
		return id
	}
	return msg
}
