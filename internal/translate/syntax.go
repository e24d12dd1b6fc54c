package translate

import (
	"fmt"
	"strings"

	"glosa/internal/diag"
	"glosa/internal/vocab"
)

// Quote describes one literal form of the host language.
type Quote struct {
	Open, Close string
	Escape      byte // 0 - escapes are not recognized
	Multiline   bool // false - a line break ends the literal as unterminated
	Code        diag.Code
	Name        string
}

// Syntax lists the comment and literal forms that must not be rewritten.
type Syntax struct {
	Name         string
	LineComment  string
	BlockComment [2]string
	// Quotes are tried in order, so longer openers ("""), go first.
	Quotes []Quote
	// IdentExtra holds runes that continue an identifier besides letters,
	// digits and '_'. A word next to one of them is part of a longer name.
	IdentExtra string
}

func (s Syntax) identRune(r rune) bool {
	return vocab.IsWordRune(r) || (s.IdentExtra != "" && strings.ContainsRune(s.IdentExtra, r))
}

// Java covers //, /* */, text blocks, strings and char literals.
// '$' is an identifier character in Java.
var Java = Syntax{
	Name:         "java",
	IdentExtra:   "$",
	LineComment:  "//",
	BlockComment: [2]string{"/*", "*/"},
	Quotes: []Quote{
		{Open: `"""`, Close: `"""`, Escape: '\\', Multiline: true, Code: diag.TrUnterminatedTextBlock, Name: "text block"},
		{Open: `"`, Close: `"`, Escape: '\\', Code: diag.TrUnterminatedString, Name: "string literal"},
		{Open: `'`, Close: `'`, Escape: '\\', Code: diag.TrUnterminatedChar, Name: "character literal"},
	},
}

// Go covers //, /* */, raw strings, interpreted strings and rune literals.
var Go = Syntax{
	Name:         "go",
	LineComment:  "//",
	BlockComment: [2]string{"/*", "*/"},
	Quotes: []Quote{
		{Open: "`", Close: "`", Multiline: true, Code: diag.TrUnterminatedString, Name: "raw string literal"},
		{Open: `"`, Close: `"`, Escape: '\\', Code: diag.TrUnterminatedString, Name: "string literal"},
		{Open: `'`, Close: `'`, Escape: '\\', Code: diag.TrUnterminatedChar, Name: "rune literal"},
	},
}

// SyntaxFor returns the profile for a host name.
func SyntaxFor(host string) (Syntax, error) {
	switch host {
	case "java":
		return Java, nil
	case "go":
		return Go, nil
	}
	return Syntax{}, fmt.Errorf("no syntax profile for host %q", host)
}
