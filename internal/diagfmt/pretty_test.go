package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"glosa/internal/diag"
	"glosa/internal/source"
)

func sampleDiagnostics() (*source.FileSet, []diag.Diagnostic) {
	fs := source.NewFileSet()
	orig := fs.AddVirtual("src/Hola.es", []byte("publico clase Main {\n  ent x = \"a\";\n}\n"))
	rewritten := fs.AddVirtual("Main.java", []byte("public class Main {\n  int x = \"a\";\n}\n"))

	return fs, []diag.Diagnostic{
		diag.New(diag.SevError, diag.CompError, source.Span{File: rewritten, Start: 30, End: 33}, "incompatible types: String cannot be converted to int").
			WithLabel("Main.java").
			WithNote(source.Span{File: orig, Start: 31, End: 34}, "in the original source"),
		diag.New(diag.SevNote, diag.CompNote, source.NoSpan, "Recompile with -Xlint:unchecked for details."),
	}
}

func TestPrettyLayout(t *testing.T) {
	fs, diags := sampleDiagnostics()
	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{ShowNotes: true})

	want := strings.Join([]string{
		"Main.java:2:11: ERROR CMP2001: incompatible types: String cannot be converted to int",
		"2 |   int x = \"a\";",
		"  |           ^~~",
		"  note: src/Hola.es:2:11: in the original source",
		"2 |   ent x = \"a\";",
		"  |           ^~~",
		"",
		"NOTE CMP2003: Recompile with -Xlint:unchecked for details.",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyNoColorWhenDisabled(t *testing.T) {
	fs, diags := sampleDiagnostics()
	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Color: false})
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("escape codes present with Color=false")
	}
}

func TestPrettyTruncates(t *testing.T) {
	fs, diags := sampleDiagnostics()
	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Max: 1})
	if !strings.Contains(buf.String(), "... 1 more diagnostics not shown") {
		t.Errorf("missing truncation footer:\n%s", buf.String())
	}
}

func TestCaretWidthForWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.txt", []byte("é x"))
	var buf bytes.Buffer
	// "é" is two bytes, so "x" starts at byte 3.
	writeSnippet(&buf, fs, source.Span{File: id, Start: 3, End: 4}, 0, newPalette(false))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := lines[1]; got != "  |   ^" {
		t.Errorf("caret line = %q", got)
	}
}

func TestJSONKeepsOrderAndOmitsMissingLocation(t *testing.T) {
	fs, diags := sampleDiagnostics()
	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || out.Diagnostics[0].Code != "CMP2001" || out.Diagnostics[1].Code != "CMP2003" {
		t.Fatalf("unexpected diagnostics: %+v", out.Diagnostics)
	}
	first := out.Diagnostics[0]
	if first.Location == nil || first.Location.StartLine != 2 || first.Location.StartCol != 11 {
		t.Errorf("location = %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.File != "src/Hola.es" {
		t.Errorf("notes = %+v", first.Notes)
	}
	if out.Diagnostics[1].Location != nil {
		t.Error("expected no location for positionless diagnostic")
	}
}
