package vocab

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Pair is one localized keyword and its host-language replacement.
type Pair struct {
	From string `toml:"from" yaml:"from"`
	To   string `toml:"to" yaml:"to"`
}

// Table is an immutable keyword mapping for one language and host.
type Table struct {
	language string
	host     string
	locale   string
	aliases  []string
	entries  map[string]string
}

func (t *Table) Language() string { return t.language }
func (t *Table) Host() string     { return t.host }

// Locale is the BCP 47 tag used for console messages, e.g. "es".
func (t *Table) Locale() string { return t.locale }

func (t *Table) Aliases() []string {
	return append([]string(nil), t.aliases...)
}

func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the replacement for word. The word is compared after NFC
// normalization so composed and decomposed spellings match the same key.
func (t *Table) Lookup(word string) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := t.entries[word]; ok {
		return v, true
	}
	if norm.NFC.IsNormalString(word) {
		return "", false
	}
	v, ok := t.entries[norm.NFC.String(word)]
	return v, ok
}

// Pairs returns the entries sorted by key.
func (t *Table) Pairs() []Pair {
	out := make([]Pair, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, Pair{From: k, To: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}
