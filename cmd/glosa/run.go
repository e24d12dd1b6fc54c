package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"glosa/internal/buildpipeline"
	"glosa/internal/i18n"
	"glosa/internal/trace"
)

type runOptions struct {
	args             []string
	format           string
	noCache          bool
	clearCache       bool
	warningsAsErrors bool
	compileOnly      bool
	outDir           string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] <language> <sourceFile> <entryPoint>",
		Short: "Translate, compile and run a localized program",
		Long: `Translate sourceFile from the keywords of language into the host language,
compile it and invoke entryPoint. sourceFile is looked up under the project's
source root (default "src") unless it exists relative to the working
directory. Program arguments are passed with --arg.`,
		Example: `  glosa run spanish Hola.es Hola
  glosa run --arg uno --arg dos spanish Hola.es Hola
  glosa run --host go --compile-only spanish hola.es Principal`,
		Args: usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&opts.args, "arg", nil, "argument passed to the entry point (repeatable)")
	f.StringVar(&opts.format, "format", "pretty", "diagnostics format (pretty|short|json)")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the compile cache")
	f.BoolVar(&opts.clearCache, "clear-cache", false, "drop every compile cache entry before compiling")
	f.BoolVar(&opts.warningsAsErrors, "warnings-as-errors", false, "fail compilation on compiler warnings")
	f.BoolVar(&opts.compileOnly, "compile-only", false, "stop after a successful compilation")
	f.StringVar(&opts.outDir, "out-dir", "", "keep build output in this directory")
	return cmd
}

func runProgram(cmd *cobra.Command, opts *runOptions, args []string) (err error) {
	format, err := parseDiagFormat(opts.format)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	g, err := loadGlobals(cmd)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	defer func() {
		if err != nil {
			dumpTraceRing(cmd, stderr)
		}
	}()

	registry, err := g.registry()
	if err != nil {
		return err
	}
	compiler, err := g.compiler(!opts.noCache, opts.clearCache)
	if err != nil {
		return err
	}
	runner, err := g.runner(cmd)
	if err != nil {
		return err
	}

	pipeline := &buildpipeline.CompilePipeline{
		Compiler:         compiler,
		OutDir:           opts.outDir,
		WarningsAsErrors: opts.warningsAsErrors,
	}
	defer func() {
		if cleanErr := pipeline.Cleanup(); cleanErr != nil {
			fmt.Fprintf(stderr, "warning: %v\n", cleanErr)
		}
	}()
	orch := &buildpipeline.Orchestrator{
		Registry:       registry,
		Pipeline:       pipeline,
		Launcher:       &buildpipeline.Launcher{Runner: runner},
		MaxDiagnostics: g.maxDiagnostics,
	}
	req := buildpipeline.Request{
		Language:    args[0],
		SourcePath:  g.settings.SourcePath(args[1]),
		EntryPoint:  args[2],
		Args:        opts.args,
		CompileOnly: opts.compileOnly,
	}

	ctx, step := trace.Start(cmd.Context(), trace.LayerCommand, "glosa run", trace.Attrs{Host: g.settings.Host, Entry: req.EntryPoint})
	orch.Progress = buildpipeline.SinkFunc(func(ev buildpipeline.Event) {
		detail := string(ev.Status)
		if ev.Elapsed > 0 {
			detail += " " + ev.Elapsed.String()
		}
		trace.Note(ctx, trace.LayerStage, string(ev.Stage), trace.Attrs{Unit: req.EntryPoint}, detail)
	})

	outcome, err := orch.Build(ctx, req)
	status := statusWriter{w: stderr, p: g.printer(outcome.Table), quiet: g.quiet}

	if outcome.State != buildpipeline.StateStart {
		status.translated(filepath.Base(req.SourcePath), outcome.Table, outcome.Translation.Substitutions)
	}
	if diagErr := writeDiagnostics(stderr, format, outcome.Diagnostics, outcome.FileSet); diagErr != nil {
		return diagErr
	}
	if err == nil {
		status.line(statusOK, status.p.Sprint(i18n.MsgCompiled, map[string]any{
			"Unit": req.EntryPoint,
			"Tool": toolName(g.settings.Host),
		}))
		if !opts.compileOnly {
			status.line(statusStep, status.p.Sprint(i18n.MsgInvoking, map[string]any{"Entry": req.EntryPoint}))
			err = orch.Invoke(ctx, outcome, req)
		}
	}
	step.Finish(string(outcome.State))

	if g.timings {
		fmt.Fprint(stderr, outcome.Timer.Summary())
	}
	if err != nil {
		return status.failure(stderr, req.Language, registry, err)
	}
	return nil
}
