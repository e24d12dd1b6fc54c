package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glosa/internal/diag"
	"glosa/internal/launch"
	"glosa/internal/source"
	"glosa/internal/toolchain"
	"glosa/internal/vocab"
)

// stubCompiler returns canned output and records what it was given.
type stubCompiler struct {
	host    string
	success bool
	diags   func(f *source.File) []diag.Diagnostic
	err     error

	calls int
	got   string
	unit  string
}

func (c *stubCompiler) Host() string { return c.host }

func (c *stubCompiler) Compile(_ context.Context, req toolchain.Request) (*toolchain.Output, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	c.got = string(req.File.Content)
	c.unit = req.UnitName
	out := &toolchain.Output{Success: c.success}
	if c.diags != nil {
		out.Diagnostics = c.diags(req.File)
	}
	if c.success {
		out.Unit = &toolchain.CompiledUnit{Name: req.UnitName, Host: c.host, Path: req.OutDir}
	}
	return out, nil
}

// stubRunner records invocations and returns err.
type stubRunner struct {
	err   error
	calls int
	entry string
	args  []string
}

func (r *stubRunner) Invoke(_ context.Context, _ *toolchain.CompiledUnit, entry string, args []string) error {
	r.calls++
	r.entry = entry
	r.args = args
	return r.err
}

type recordingSink struct{ events []Event }

func (s *recordingSink) OnEvent(ev Event) { s.events = append(s.events, ev) }

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Principal.es")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func javaRegistry(t *testing.T) *vocab.Registry {
	t.Helper()
	reg, err := vocab.Builtin(toolchain.HostJava)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func newOrchestrator(t *testing.T, c *stubCompiler, r *stubRunner) *Orchestrator {
	t.Helper()
	return &Orchestrator{
		Registry: javaRegistry(t),
		Pipeline: &CompilePipeline{Compiler: c, OutDir: t.TempDir()},
		Launcher: &Launcher{Runner: r},
	}
}

func TestSpanishScenarioRunsToInvoked(t *testing.T) {
	src := "publico clase Main {\n  publico estatico vacio main(Texto[] a) { imprimir(\"hola\"); }\n}\n"
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	run := &stubRunner{}
	sink := &recordingSink{}
	o := newOrchestrator(t, comp, run)
	o.Progress = sink

	out, err := o.Run(context.Background(), Request{
		Language:   "spanish",
		SourcePath: writeSource(t, src),
		EntryPoint: "Main",
		Args:       []string{"uno"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateInvoked {
		t.Errorf("state = %s", out.State)
	}
	want := "public class Main {\n  public static void main(String[] a) { System.out.println(\"hola\"); }\n}\n"
	if comp.got != want {
		t.Errorf("compiler got\n%s\nwant\n%s", comp.got, want)
	}
	if comp.unit != "Main" {
		t.Errorf("unit = %q", comp.unit)
	}
	if run.entry != "Main" || len(run.args) != 1 || run.args[0] != "uno" {
		t.Errorf("runner got %q %v", run.entry, run.args)
	}
	if got := out.FileSet.Get(out.Rewritten).Path; got != "Main.java" {
		t.Errorf("rewritten path = %q", got)
	}
	for _, stage := range []Stage{StageResolve, StageTranslate, StageCompile, StageRun} {
		if !out.Timings.Has(stage) {
			t.Errorf("no timing for %s", stage)
		}
	}
	if len(sink.events) != 8 {
		t.Errorf("events = %d, want 8", len(sink.events))
	}
}

func TestUnsupportedLanguageFailsBeforeAnyAttempt(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	run := &stubRunner{}
	o := newOrchestrator(t, comp, run)

	out, err := o.Run(context.Background(), Request{
		Language:   "klingon",
		SourcePath: filepath.Join(t.TempDir(), "missing.es"),
		EntryPoint: "Main",
	})
	var ule *vocab.UnsupportedLanguageError
	if !errors.As(err, &ule) {
		t.Fatalf("err = %v, want UnsupportedLanguageError", err)
	}
	if ule.ID != "klingon" || len(ule.Supported) == 0 {
		t.Errorf("error = %+v", ule)
	}
	if comp.calls != 0 || run.calls != 0 {
		t.Errorf("compiler calls %d, runner calls %d", comp.calls, run.calls)
	}
	if out.State != StateStart || out.Source != source.NoFile {
		t.Errorf("outcome = %+v", out)
	}
}

func TestAliasResolvesCaseInsensitively(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	o := newOrchestrator(t, comp, &stubRunner{})
	out, err := o.Run(context.Background(), Request{
		Language:    "ESPAÑOL",
		SourcePath:  writeSource(t, "si"),
		EntryPoint:  "Main",
		CompileOnly: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateCompiled || comp.got != "if" {
		t.Errorf("state %s, compiled %q", out.State, comp.got)
	}
}

func TestSourceReadError(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	o := newOrchestrator(t, comp, &stubRunner{})
	path := filepath.Join(t.TempDir(), "nope.es")
	_, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: path, EntryPoint: "Main"})
	var sre *SourceReadError
	if !errors.As(err, &sre) || sre.Path != path {
		t.Fatalf("err = %v, want SourceReadError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause lost: %v", err)
	}
	if comp.calls != 0 {
		t.Error("compiler was called")
	}
}

func TestCompileFailureKeepsDiagnosticsInOrder(t *testing.T) {
	messages := []string{"first error", "a warning", "second error", "trailing note"}
	sevs := []diag.Severity{diag.SevError, diag.SevWarning, diag.SevError, diag.SevNote}
	comp := &stubCompiler{
		host: toolchain.HostJava,
		diags: func(f *source.File) []diag.Diagnostic {
			out := make([]diag.Diagnostic, len(messages))
			for i, msg := range messages {
				out[i] = diag.New(sevs[i], diag.CompError, source.NoSpan, msg)
			}
			return out
		},
	}
	run := &stubRunner{}
	o := newOrchestrator(t, comp, run)

	out, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "clase Main {}"), EntryPoint: "Main"})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CompileError", err)
	}
	if out.State != StateCompileFailed {
		t.Errorf("state = %s", out.State)
	}
	if run.calls != 0 {
		t.Error("runner called after failed compile")
	}
	if len(ce.Diagnostics) != len(messages) {
		t.Fatalf("diagnostics = %d", len(ce.Diagnostics))
	}
	for i, d := range ce.Diagnostics {
		if d.Message != messages[i] || d.Severity != sevs[i] {
			t.Errorf("diagnostic %d = %+v", i, d)
		}
	}
	if !strings.Contains(ce.Error(), "2 error(s), 1 warning(s)") {
		t.Errorf("message = %q", ce.Error())
	}
}

func TestDiagnosticsGetNoteInLocalizedSource(t *testing.T) {
	src := "publico clase Main { ent x = y; }"
	comp := &stubCompiler{
		host: toolchain.HostJava,
		diags: func(f *source.File) []diag.Diagnostic {
			off := uint32(strings.Index(string(f.Content), "y;"))
			sp := source.Span{File: f.ID, Start: off, End: off + 1}
			return []diag.Diagnostic{diag.NewError(diag.CompError, sp, "cannot find symbol")}
		},
	}
	o := newOrchestrator(t, comp, &stubRunner{})
	out, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, src), EntryPoint: "Main"})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", out.Diagnostics)
	}
	d := out.Diagnostics[0]
	if len(d.Notes) != 1 {
		t.Fatalf("notes = %+v", d.Notes)
	}
	note := d.Notes[0].Span
	if note.File != out.Source || note.Start != uint32(strings.Index(src, "y;")) {
		t.Errorf("note span = %+v", note)
	}

	// CompileError keeps the compiler's diagnostics untouched.
	var ce *CompileError
	if errors.As(err, &ce) && len(ce.Diagnostics[0].Notes) != 0 {
		t.Errorf("compile error diagnostics were modified: %+v", ce.Diagnostics[0])
	}
}

func TestWarningsOnlyCompileProceeds(t *testing.T) {
	comp := &stubCompiler{
		host:    toolchain.HostJava,
		success: true,
		diags: func(*source.File) []diag.Diagnostic {
			return []diag.Diagnostic{diag.New(diag.SevWarning, diag.CompWarning, source.NoSpan, "deprecated")}
		},
	}
	run := &stubRunner{}
	o := newOrchestrator(t, comp, run)
	out, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "x"), EntryPoint: "Main"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.State != StateInvoked || run.calls != 1 || len(out.Diagnostics) != 1 {
		t.Errorf("outcome = %+v", out)
	}

	o.Pipeline.WarningsAsErrors = true
	run.calls = 0
	out, err = o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "x"), EntryPoint: "Main"})
	var ce *CompileError
	if !errors.As(err, &ce) || out.State != StateCompileFailed || run.calls != 0 {
		t.Errorf("WarningsAsErrors: err = %v, state = %s", err, out.State)
	}
}

func TestToolFailureIsNotCompileError(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, err: toolchain.ErrToolNotFound}
	o := newOrchestrator(t, comp, &stubRunner{})
	out, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "x"), EntryPoint: "Main"})
	var ce *CompileError
	if errors.As(err, &ce) || !errors.Is(err, toolchain.ErrToolNotFound) {
		t.Fatalf("err = %v", err)
	}
	if out.State != StateTranslated {
		t.Errorf("state = %s", out.State)
	}
}

func TestInvocationFailure(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	run := &stubRunner{err: &launch.InvocationError{Kind: launch.NotFound, Entry: "Main"}}
	o := newOrchestrator(t, comp, run)
	out, err := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "x"), EntryPoint: "Main"})
	if !errors.Is(err, launch.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if out.State != StateInvocationFailed {
		t.Errorf("state = %s", out.State)
	}
	if out.Unit == nil {
		t.Error("unit missing from outcome")
	}
}

func TestTranslationWarningsComeFirst(t *testing.T) {
	comp := &stubCompiler{
		host: toolchain.HostJava,
		diags: func(*source.File) []diag.Diagnostic {
			return []diag.Diagnostic{diag.NewError(diag.CompError, source.NoSpan, "unclosed string literal")}
		},
	}
	o := newOrchestrator(t, comp, &stubRunner{})
	out, _ := o.Run(context.Background(), Request{Language: "spanish", SourcePath: writeSource(t, "Texto s = \"abc\nsi"), EntryPoint: "Main"})
	if len(out.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v", out.Diagnostics)
	}
	if out.Diagnostics[0].Code != diag.TrUnterminatedString || out.Diagnostics[1].Code != diag.CompError {
		t.Errorf("order = %v, %v", out.Diagnostics[0].Code, out.Diagnostics[1].Code)
	}
}

func TestCompilePipelineTempDirCleanup(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	p := &CompilePipeline{Compiler: comp}
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("Main.java", []byte("class Main {}")))
	unit, _, err := p.Compile(context.Background(), f, "Main")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(unit.Path); err != nil {
		t.Fatalf("work dir missing: %v", err)
	}
	if err := p.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(unit.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("work dir still present: %v", err)
	}
}

func TestLauncherValidates(t *testing.T) {
	if err := (&Launcher{}).Invoke(context.Background(), &toolchain.CompiledUnit{}, "Main", nil); err == nil {
		t.Error("missing runner accepted")
	}
	if err := (&Launcher{Runner: &stubRunner{}}).Invoke(context.Background(), nil, "Main", nil); err == nil {
		t.Error("nil unit accepted")
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := map[State]bool{
		StateStart: false, StateTranslated: false, StateCompiled: false,
		StateCompileFailed: true, StateInvoked: true, StateInvocationFailed: true,
	}
	for st, want := range terminal {
		if st.Terminal() != want {
			t.Errorf("%s.Terminal() = %t", st, !want)
		}
	}
}

func TestBuildThenInvoke(t *testing.T) {
	comp := &stubCompiler{host: toolchain.HostJava, success: true}
	run := &stubRunner{}
	o := newOrchestrator(t, comp, run)
	req := Request{Language: "spanish", SourcePath: writeSource(t, "publico clase Main {}\n"), EntryPoint: "Main"}

	out, err := o.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.State != StateCompiled || run.calls != 0 {
		t.Fatalf("after Build: state %s, runner calls %d", out.State, run.calls)
	}
	if err := o.Invoke(context.Background(), out, req); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.State != StateInvoked || run.calls != 1 {
		t.Errorf("after Invoke: state %s, runner calls %d", out.State, run.calls)
	}
	if err := o.Invoke(context.Background(), out, req); err == nil {
		t.Error("second Invoke on a finished run accepted")
	}
}
