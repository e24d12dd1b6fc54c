package vocab

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Registry is the set of tables available for one host language.
// Build it once at startup; Resolve is safe for concurrent use afterwards.
type Registry struct {
	host   string
	tables []*Table
	byID   map[string]*Table // folded id/alias -> table
}

// NewRegistry returns an empty registry for host.
func NewRegistry(host string) *Registry {
	return &Registry{
		host: host,
		byID: make(map[string]*Table),
	}
}

func (r *Registry) Host() string { return r.host }

// foldID: a Caser keeps state, so each call gets its own.
func (r *Registry) foldID(id string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(id)))
}

// Register validates def and adds it as a new Table.
func (r *Registry) Register(def Definition) (*Table, error) {
	fail := func(format string, args ...any) (*Table, error) {
		return nil, &DefinitionError{Language: def.Language, Source: def.source, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(def.Language) == "" {
		return fail("missing language id")
	}
	if def.Host != "" && def.Host != r.host {
		return fail("targets host %q, registry is for %q", def.Host, r.host)
	}
	if len(def.Keywords) == 0 {
		return fail("no keywords declared")
	}

	ids := append([]string{def.Language}, def.Aliases...)
	folded := make([]string, 0, len(ids))
	for _, id := range ids {
		key := r.foldID(id)
		if key == "" {
			return fail("empty alias")
		}
		if other, ok := r.byID[key]; ok {
			return fail("id %q already used by %q", id, other.language)
		}
		folded = append(folded, key)
	}

	entries := make(map[string]string, len(def.Keywords))
	for _, kw := range def.Keywords {
		from := norm.NFC.String(kw.From)
		switch {
		case !IsWord(from):
			return fail("keyword %q is not a single word", kw.From)
		case kw.To == "":
			return fail("keyword %q has an empty replacement", kw.From)
		case strings.ContainsAny(kw.To, "\r\n"):
			return fail("replacement for %q contains a line break", kw.From)
		}
		if prev, dup := entries[from]; dup {
			return fail("duplicate keyword %q (mapped to %q and %q)", kw.From, prev, kw.To)
		}
		entries[from] = kw.To
	}

	t := &Table{
		language: def.Language,
		host:     r.host,
		locale:   def.Locale,
		aliases:  append([]string(nil), def.Aliases...),
		entries:  entries,
	}
	for _, key := range folded {
		r.byID[key] = t
	}
	r.tables = append(r.tables, t)
	return t, nil
}

// Resolve returns the table registered under id or one of its aliases.
func (r *Registry) Resolve(id string) (*Table, error) {
	if t, ok := r.byID[r.foldID(id)]; ok {
		return t, nil
	}
	return nil, &UnsupportedLanguageError{ID: id, Host: r.host, Supported: r.IDs()}
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []*Table {
	return append([]*Table(nil), r.tables...)
}

// IDs returns the primary language ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.tables))
	for i, t := range r.tables {
		ids[i] = t.language
	}
	sort.Strings(ids)
	return ids
}
