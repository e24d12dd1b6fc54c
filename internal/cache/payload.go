package cache

import (
	"glosa/internal/diag"
	"glosa/internal/source"
	"glosa/internal/toolchain"
)

// Payload is the stored result of one compilation.
// Spans are kept as offsets into the compiled text; the file id is
// reattached on replay.
type Payload struct {
	Schema      uint16
	Success     bool
	Diagnostics []Diagnostic
	Unit        string
	Host        string
	// Artifact is the unit path relative to the entry directory.
	Artifact string
}

type Diagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Label    string
	Span     *Offsets `msgpack:",omitempty"`
	Notes    []Note
}

type Note struct {
	Span *Offsets `msgpack:",omitempty"`
	Msg  string
}

type Offsets struct {
	Start, End uint32
}

func offsetsOf(sp source.Span, file source.FileID) *Offsets {
	if !sp.IsValid() || sp.File != file {
		return nil
	}
	return &Offsets{Start: sp.Start, End: sp.End}
}

func (o *Offsets) span(file source.FileID) source.Span {
	if o == nil {
		return source.NoSpan
	}
	return source.Span{File: file, Start: o.Start, End: o.End}
}

func encodeDiagnostics(diags []diag.Diagnostic, file source.FileID) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = Diagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Label:    d.Label,
			Span:     offsetsOf(d.Primary, file),
		}
		for _, n := range d.Notes {
			out[i].Notes = append(out[i].Notes, Note{Span: offsetsOf(n.Span, file), Msg: n.Msg})
		}
	}
	return out
}

func decodeDiagnostics(stored []Diagnostic, file source.FileID) []diag.Diagnostic {
	if len(stored) == 0 {
		return nil
	}
	out := make([]diag.Diagnostic, len(stored))
	for i, d := range stored {
		out[i] = diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Label:    d.Label,
			Primary:  d.Span.span(file),
		}
		for _, n := range d.Notes {
			out[i].Notes = append(out[i].Notes, diag.Note{Span: n.Span.span(file), Msg: n.Msg})
		}
	}
	return out
}

func unitOf(p *Payload, entryDir string) *toolchain.CompiledUnit {
	if !p.Success {
		return nil
	}
	return &toolchain.CompiledUnit{Name: p.Unit, Host: p.Host, Path: joinArtifact(entryDir, p.Artifact)}
}
