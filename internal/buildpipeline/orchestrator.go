package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glosa/internal/diag"
	"glosa/internal/observ"
	"glosa/internal/source"
	"glosa/internal/toolchain"
	"glosa/internal/trace"
	"glosa/internal/translate"
	"glosa/internal/vocab"
)

// SourceReadError reports that the localized source could not be read.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Request is one translate-compile-invoke run.
type Request struct {
	Language   string
	SourcePath string
	EntryPoint string
	Args       []string
	// CompileOnly stops at COMPILED.
	CompileOnly bool
}

// Outcome describes where a run ended and what it produced.
type Outcome struct {
	State   State
	Table   *vocab.Table
	FileSet *source.FileSet
	// Source is the localized file, Rewritten the text handed to the compiler.
	Source      source.FileID
	Rewritten   source.FileID
	Translation translate.Result
	// Diagnostics holds translation warnings followed by compiler
	// diagnostics in emission order. Compiler diagnostics that point into
	// the rewritten text carry an extra note at the same place in Source.
	Diagnostics []diag.Diagnostic
	Unit        *toolchain.CompiledUnit
	Timings     Timings
	Timer       *observ.Timer
}

// Orchestrator drives Request through resolve, translate, compile and invoke.
// A run is strictly sequential and never retried.
type Orchestrator struct {
	Registry *vocab.Registry
	Pipeline *CompilePipeline
	Launcher *Launcher
	Progress ProgressSink
	// MaxDiagnostics caps translation warnings (0 = unlimited).
	MaxDiagnostics int
}

// Run executes req. The returned Outcome is never nil.
//
// Errors: *vocab.UnsupportedLanguageError before any attempt,
// *SourceReadError, *CompileError, *launch.InvocationError, or a plain
// error when a tool could not run.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, step := trace.Start(ctx, trace.LayerCommand, "run", trace.Attrs{Unit: req.EntryPoint, Entry: req.EntryPoint})

	outcome, err := o.Build(ctx, req)
	if err == nil && !req.CompileOnly {
		err = o.Invoke(ctx, outcome, req)
	}
	step.Finish(string(outcome.State))
	return outcome, err
}

// Build resolves, translates and compiles, stopping at COMPILED. Callers
// that need to report between compilation and invocation use Build and
// Invoke instead of Run.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	outcome := &Outcome{
		State:     StateStart,
		FileSet:   source.NewFileSet(),
		Source:    source.NoFile,
		Rewritten: source.NoFile,
		Timer:     observ.NewTimer(),
	}

	// resolve
	if err := o.stage(outcome, StageResolve, req.SourcePath, func() error {
		if o.Registry == nil {
			return fmt.Errorf("missing vocabulary registry")
		}
		t, resolveErr := o.Registry.Resolve(req.Language)
		outcome.Table = t
		return resolveErr
	}); err != nil {
		return outcome, err
	}

	// translate
	if err := o.stage(outcome, StageTranslate, req.SourcePath, func() error {
		return o.translate(outcome, req)
	}); err != nil {
		return outcome, err
	}
	rewritten := outcome.FileSet.Get(outcome.Rewritten)
	outcome.State = StateTranslated

	// compile
	var compileDiags []diag.Diagnostic
	err := o.stage(outcome, StageCompile, req.SourcePath, func() error {
		if o.Pipeline == nil {
			return fmt.Errorf("missing compile pipeline")
		}
		unit, diags, compileErr := o.Pipeline.Compile(ctx, rewritten, req.EntryPoint)
		compileDiags = diags
		outcome.Unit = unit
		return compileErr
	})
	outcome.Diagnostics = append(outcome.Diagnostics, o.mapDiagnostics(outcome, compileDiags)...)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			outcome.State = StateCompileFailed
		}
		return outcome, err
	}
	outcome.State = StateCompiled
	return outcome, nil
}

// Invoke runs the entry point of a COMPILED outcome and moves it to
// INVOKED or INVOCATION_FAILED.
func (o *Orchestrator) Invoke(ctx context.Context, outcome *Outcome, req Request) error {
	if outcome == nil || outcome.State != StateCompiled {
		return fmt.Errorf("invoke: run is not compiled")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := o.stage(outcome, StageRun, req.SourcePath, func() error {
		if o.Launcher == nil {
			return fmt.Errorf("missing launcher")
		}
		return o.Launcher.Invoke(ctx, outcome.Unit, req.EntryPoint, req.Args)
	}); err != nil {
		outcome.State = StateInvocationFailed
		return err
	}
	outcome.State = StateInvoked
	return nil
}

// stage wraps fn with progress events, timings and a timer phase.
func (o *Orchestrator) stage(outcome *Outcome, stage Stage, file string, fn func() error) error {
	emitStage(o.Progress, file, stage, StatusWorking, nil, 0)
	idx := outcome.Timer.Begin(string(stage))
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	outcome.Timings.Set(stage, elapsed)
	if err != nil {
		outcome.Timer.End(idx, "error")
		emitStage(o.Progress, file, stage, StatusError, err, elapsed)
		return err
	}
	outcome.Timer.End(idx, "")
	emitStage(o.Progress, file, stage, StatusDone, nil, elapsed)
	return nil
}

func (o *Orchestrator) translate(outcome *Outcome, req Request) error {
	fs := outcome.FileSet
	id, err := fs.Load(req.SourcePath)
	if err != nil {
		return &SourceReadError{Path: req.SourcePath, Err: err}
	}
	outcome.Source = id

	bag := diag.NewBag(o.MaxDiagnostics)
	tr, err := translate.New(outcome.Table, translate.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		return err
	}
	res := tr.TranslateFile(fs.Get(id))
	outcome.Translation = res
	outcome.Diagnostics = append(outcome.Diagnostics, bag.Items()...)

	name := toolchain.SourceName(outcome.Table.Host(), req.EntryPoint)
	outcome.Rewritten = fs.AddVirtual(name, []byte(res.Rewritten))
	return nil
}

// mapDiagnostics adds a note at the original location to every diagnostic
// that points into the rewritten text. The diagnostics are otherwise unchanged.
func (o *Orchestrator) mapDiagnostics(outcome *Outcome, diags []diag.Diagnostic) []diag.Diagnostic {
	if len(diags) == 0 {
		return nil
	}
	mapped := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		mapped[i] = d
		if outcome.Source == source.NoFile || !d.Primary.IsValid() || d.Primary.File != outcome.Rewritten {
			continue
		}
		start := outcome.Translation.OriginalOffset(d.Primary.Start)
		end := max(outcome.Translation.OriginalOffset(d.Primary.End), start)
		mapped[i] = d.WithNote(source.Span{File: outcome.Source, Start: start, End: end}, "in the localized source")
	}
	return mapped
}
