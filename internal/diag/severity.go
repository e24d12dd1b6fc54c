package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for informational diagnostics.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity maps compiler spellings ("error", "warning", "note", "info") to Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error", "ERROR", "fatal":
		return SevError, true
	case "warning", "WARNING", "warn":
		return SevWarning, true
	case "note", "NOTE", "info", "INFO":
		return SevNote, true
	}
	return SevNote, false
}
