package i18n

import (
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestEveryCatalogHasEveryMessage(t *testing.T) {
	c := loadCatalog(t)
	ids := []string{
		MsgTranslated, MsgTranslatedNone, MsgCompiled, MsgCompileFailed, MsgInvoking,
		MsgInvocationFailed, MsgWrote, MsgLanguagesHeader, MsgUnsupported,
	}
	if got := len(c.Languages()); got != len(catalogs) {
		t.Fatalf("loaded %d languages, want %d", got, len(catalogs))
	}
	for _, tag := range c.Languages() {
		loc := i18n.NewLocalizer(c.bundle, tag.String())
		for _, id := range ids {
			cfg := &i18n.LocalizeConfig{MessageID: id}
			if id == MsgTranslated {
				// остальные сообщения имеют только форму other
				cfg.PluralCount = 2
			}
			_, got, err := loc.LocalizeWithTag(cfg)
			if err != nil || got != tag {
				t.Errorf("%s: %q resolved in %s (%v)", tag, id, got, err)
			}
		}
	}
}

func TestPrinterLocalizes(t *testing.T) {
	c := loadCatalog(t)
	tests := []struct {
		locale string
		want   string
	}{
		{"es", "ejecutando main"},
		{"fr", "exécution de main"},
		{"ru", "запуск main"},
		{"", "running main"},
		{"de", "running main"},
	}
	for _, tt := range tests {
		got := c.Printer(tt.locale).Sprint(MsgInvoking, map[string]any{"Unit": "Main", "Entry": "main"})
		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestPluralForms(t *testing.T) {
	c := loadCatalog(t)
	en := c.Printer("en")
	if got := en.Plural(MsgTranslated, 1, map[string]any{"File": "a.es", "Language": "spanish"}); got != "a.es: translated 1 spanish keyword" {
		t.Errorf("one = %q", got)
	}
	if got := en.Plural(MsgTranslated, 4, map[string]any{"File": "a.es", "Language": "spanish"}); got != "a.es: translated 4 spanish keywords" {
		t.Errorf("other = %q", got)
	}
	ru := c.Printer("ru")
	if got := ru.Plural(MsgTranslated, 5, map[string]any{"File": "a.ru", "Language": "russian"}); got != "a.ru: переведено 5 ключевых слов (russian)" {
		t.Errorf("ru many = %q", got)
	}
}

func TestUnknownMessageFallsBackToID(t *testing.T) {
	c := loadCatalog(t)
	if got := c.Printer("es").Sprint("noSuchMessage", nil); got != "noSuchMessage" {
		t.Errorf("got %q", got)
	}
}
