// Package translate rewrites localized source text into host-language text.
//
// The scan is a single left-to-right pass with a byte cursor. Words (maximal
// runs of letters, digits, '_' and the host's extra identifier runes such as
// Java's '$') are looked up once in a vocab.Table and
// replaced on a hit; the replacement text is written to the output and never
// scanned again, so tables such as {a: b, b: a} swap cleanly. Comments and
// string/char literals are recognized from the host Syntax and copied
// verbatim. All other bytes, including whitespace and line breaks, pass
// through unchanged.
package translate
