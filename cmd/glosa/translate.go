package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"glosa/internal/diag"
	"glosa/internal/i18n"
	"glosa/internal/source"
	"glosa/internal/toolchain"
	"glosa/internal/trace"
	"glosa/internal/translate"
)

type translateOptions struct {
	outDir string
	format string
	jobs   int
}

func newTranslateCmd() *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate [flags] <language> <file>...",
		Short: "Rewrite localized keywords without compiling",
		Long: `Translate each file from the keywords of language into the host language.
The result goes to stdout, or to --out-dir with the host's file extension.`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts, args[0], args[1:])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "write translated files here instead of stdout")
	f.StringVar(&opts.format, "format", "pretty", "diagnostics format (pretty|short|json)")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "files translated in parallel (0 = GOMAXPROCS)")
	return cmd
}

type translated struct {
	res  translate.Result
	bag  *diag.Bag
	dest string
}

func runTranslate(cmd *cobra.Command, opts *translateOptions, language string, files []string) error {
	format, err := parseDiagFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.jobs < 0 {
		return usageError{err: fmt.Errorf("--jobs must not be negative")}
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
	registry, err := g.registry()
	if err != nil {
		return err
	}
	table, err := registry.Resolve(language)
	status := statusWriter{w: stderr, p: g.printer(table), quiet: g.quiet}
	if err != nil {
		return status.failure(stderr, language, registry, err)
	}

	// FileSet не потокобезопасен: читаем последовательно, переводим параллельно
	fs := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	for i, name := range files {
		path := g.settings.SourcePath(name)
		if ids[i], err = fs.Load(path); err != nil {
			return fmt.Errorf("cannot read source %s: %w", path, err)
		}
	}

	results := make([]translated, len(files))
	grp, ctx := errgroup.WithContext(cmd.Context())
	jobs := opts.jobs
	if jobs == 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	grp.SetLimit(jobs)
	for i, id := range ids {
		i, id := i, id
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bag := diag.NewBag(g.maxDiagnostics)
			fileTr, err := translate.New(table, translate.Options{Reporter: diag.BagReporter{Bag: bag}})
			if err != nil {
				return err
			}
			f := fs.Get(id)
			_, step := trace.Start(ctx, trace.LayerStage, "translate", trace.Attrs{Host: table.Host(), Unit: filepath.Base(f.Path)})
			r := translated{res: fileTr.TranslateFile(f), bag: bag}
			step.Finish(fmt.Sprintf("%d substitutions", r.res.Substitutions))
			if opts.outDir != "" {
				r.dest = filepath.Join(opts.outDir, hostFileName(table.Host(), f.Path))
				if err := writeTranslated(r.dest, r.res.Rewritten); err != nil {
					return err
				}
			}
			results[i] = r
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	var diags []diag.Diagnostic
	stdout := cmd.OutOrStdout()
	for i, r := range results {
		diags = append(diags, r.bag.Items()...)
		status.translated(filepath.Base(fs.Get(ids[i]).Path), table, r.res.Substitutions)
		if r.dest != "" {
			status.line(statusOK, status.p.Sprint(i18n.MsgWrote, map[string]any{"Path": r.dest}))
			continue
		}
		if _, err := fmt.Fprint(stdout, r.res.Rewritten); err != nil {
			return err
		}
	}
	return writeDiagnostics(stderr, format, diags, fs)
}

// hostFileName swaps the localized extension for the host's.
func hostFileName(host, path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch host {
	case toolchain.HostJava:
		return stem + ".java"
	case toolchain.HostGo:
		return stem + ".go"
	}
	return base
}

func writeTranslated(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
