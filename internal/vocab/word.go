package vocab

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r may appear inside a word: letters, digits and '_'.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// IsWord reports whether s is exactly one word token.
func IsWord(s string) bool {
	if s == "" {
		return false
	}
	for len(s) > 0 {
		r, sz := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && sz <= 1 {
			return false
		}
		if !IsWordRune(r) {
			return false
		}
		s = s[sz:]
	}
	return true
}
