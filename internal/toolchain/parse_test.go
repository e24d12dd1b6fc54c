package toolchain

import (
	"strings"
	"testing"

	"glosa/internal/diag"
	"glosa/internal/source"
)

const javaSrc = "public class Main {\n  public static void main(String[] a) { foo(); }\n}\n"

func addFile(t *testing.T, name, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(name, []byte(content)))
}

func TestParseJavacPositionsAndDetails(t *testing.T) {
	f := addFile(t, "Main.java", javaSrc)
	out := strings.Join([]string{
		"Main.java:2: error: cannot find symbol",
		"  public static void main(String[] a) { foo(); }",
		strings.Repeat(" ", 40) + "^",
		"  symbol:   method foo()",
		"  location: class Main",
		"Main.java:1: warning: [serial] something odd",
		"public class Main {",
		"       ^",
		"Note: Some messages have been simplified",
		"1 error",
		"1 warning",
		"",
	}, "\n")

	diags := ParseJavac(out, f)
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
	}

	first := diags[0]
	if first.Severity != diag.SevError || first.Code != diag.CompError || first.Message != "cannot find symbol" {
		t.Errorf("first = %+v", first)
	}
	if first.Label != "Main.java" {
		t.Errorf("label = %q", first.Label)
	}
	if first.Primary.Start != 60 || first.Primary.End != 61 {
		t.Errorf("span = %v, want 60..61", first.Primary)
	}
	if len(first.Notes) != 2 || first.Notes[0].Msg != "symbol:   method foo()" {
		t.Errorf("notes = %+v", first.Notes)
	}

	second := diags[1]
	if second.Severity != diag.SevWarning || second.Primary.Start != 7 {
		t.Errorf("second = %+v", second)
	}

	third := diags[2]
	if third.Severity != diag.SevNote || third.Primary.IsValid() {
		t.Errorf("third = %+v", third)
	}
}

func TestParseJavacWithoutCaretUsesLineStart(t *testing.T) {
	f := addFile(t, "Main.java", javaSrc)
	diags := ParseJavac("Main.java:3: error: reached end of file while parsing\n", f)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics", len(diags))
	}
	if diags[0].Primary.Start != uint32(strings.LastIndex(javaSrc, "}")) {
		t.Errorf("span = %v", diags[0].Primary)
	}
}

func TestParseJavacKeepsUnknownLines(t *testing.T) {
	diags := ParseJavac("error: invalid flag: -Xfoo\nUsage: javac <options> <source files>\n", nil)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
	}
	if diags[0].Severity != diag.SevError || diags[0].Primary.IsValid() {
		t.Errorf("first = %+v", diags[0])
	}
	if diags[1].Code != diag.CompInfo {
		t.Errorf("second = %+v", diags[1])
	}
}

func TestParseJavacUnicodeColumn(t *testing.T) {
	src := "class A { String s = \"ñandú\"; int x = y; }\n"
	f := addFile(t, "A.java", src)
	caretCol := len([]rune(src[:strings.Index(src, "y;")]))
	out := "A.java:1: error: cannot find symbol\n" + strings.TrimRight(src, "\n") + "\n" +
		strings.Repeat(" ", caretCol) + "^\n"
	diags := ParseJavac(out, f)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics", len(diags))
	}
	if want := uint32(strings.Index(src, "y;")); diags[0].Primary.Start != want {
		t.Errorf("start = %d, want %d", diags[0].Primary.Start, want)
	}
}

func TestParseGoBuild(t *testing.T) {
	src := "package main\n\nfunc Main() {\n\tx := 1\n}\n"
	f := addFile(t, "main.go", src)
	out := strings.Join([]string{
		"# glosaunit",
		"./main.go:4:2: declared and not used: x",
		"./main.go:5:1: missing return",
		"\thave ()",
		"note: module requires Go 1.99",
		"",
	}, "\n")
	diags := ParseGoBuild(out, f)
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics: %+v", len(diags), diags)
	}
	if diags[0].Primary.Start != uint32(strings.Index(src, "x :=")) || diags[0].Label != "main.go" {
		t.Errorf("first = %+v", diags[0])
	}
	if diags[0].Message != "declared and not used: x" {
		t.Errorf("message = %q", diags[0].Message)
	}
	if len(diags[1].Notes) != 1 || diags[1].Notes[0].Msg != "have ()" {
		t.Errorf("notes = %+v", diags[1].Notes)
	}
	if diags[2].Severity != diag.SevNote {
		t.Errorf("third = %+v", diags[2])
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct{ host, unit, want string }{
		{HostJava, "Main", "Main.java"},
		{HostJava, "com.acme.Main", "com/acme/Main.java"},
		{HostGo, "Main", "main.go"},
		{"cobol", "Main", "Main"},
	}
	for _, tt := range tests {
		if got := SourceName(tt.host, tt.unit); got != tt.want {
			t.Errorf("SourceName(%q, %q) = %q, want %q", tt.host, tt.unit, got, tt.want)
		}
	}
}
