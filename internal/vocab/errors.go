package vocab

import (
	"fmt"
	"strings"
)

// UnsupportedLanguageError is returned by Resolve for unknown language ids.
type UnsupportedLanguageError struct {
	ID        string
	Host      string
	Supported []string
}

func (e *UnsupportedLanguageError) Error() string {
	msg := fmt.Sprintf("unsupported language %q for host %s", e.ID, e.Host)
	if len(e.Supported) > 0 {
		msg += " (supported: " + strings.Join(e.Supported, ", ") + ")"
	}
	return msg
}

// DefinitionError reports a table rejected at registration time.
type DefinitionError struct {
	Language string
	Source   string // file the definition came from, if any
	Reason   string
}

func (e *DefinitionError) Error() string {
	where := e.Language
	if e.Source != "" {
		where = e.Source + ": " + where
	}
	return fmt.Sprintf("vocabulary %s: %s", where, e.Reason)
}
