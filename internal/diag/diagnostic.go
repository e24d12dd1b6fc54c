package diag

import (
	"glosa/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span // source.NoSpan when the compiler gave no position
	Label    string      // source label as reported by the producer, e.g. "Main.java"
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithLabel(label string) Diagnostic {
	d.Label = label
	return d
}

// HasErrors reports whether any diagnostic in list has SevError.
func HasErrors(list []Diagnostic) bool {
	for i := range list {
		if list[i].Severity >= SevError {
			return true
		}
	}
	return false
}
