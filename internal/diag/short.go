package diag

import (
	"fmt"
	"strings"

	"glosa/internal/source"
)

// FormatShortDiagnostics renders one line per diagnostic, keeping the input order:
//
//	<severity> <CODE> <path>:<line>:<col> <message>
//
// Diagnostics without a position print "-" in place of the location.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	first := true
	line := func(sev, code, loc, msg string) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		fmt.Fprintf(&b, "%s %s %s %s", sev, code, loc, sanitizeMessage(msg))
	}
	for _, d := range diags {
		line(strings.ToLower(d.Severity.String()), d.Code.ID(), location(fs, d.Primary, d.Label), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			line("note", d.Code.ID(), location(fs, n.Span, ""), n.Msg)
		}
	}
	return b.String()
}

func location(fs *source.FileSet, span source.Span, label string) string {
	if fs == nil || !span.IsValid() {
		if label != "" {
			return label
		}
		return "-"
	}
	f := fs.Get(span.File)
	if f == nil {
		return "-"
	}
	start, _ := fs.Resolve(span)
	path := label
	if path == "" {
		path = f.FormatPath("relative", fs.BaseDir())
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
