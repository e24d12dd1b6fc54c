// Package vocab holds the localized keyword tables.
//
// A Table maps localized words onto host-language text for one language and
// one host (java, go). Tables are declared in TOML (built in, embedded from
// builtin/<host>/*.toml) or in user TOML/YAML files, validated once when
// registered, and never mutated afterwards, so a *Table can be shared across
// goroutines without locking.
//
// Registry.Resolve looks a language up by id or alias, ignoring case and
// Unicode normalization form. Unknown ids fail with *UnsupportedLanguageError.
package vocab
