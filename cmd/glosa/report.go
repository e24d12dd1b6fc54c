package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"glosa/internal/buildpipeline"
	"glosa/internal/diag"
	"glosa/internal/diagfmt"
	"glosa/internal/i18n"
	"glosa/internal/launch"
	"glosa/internal/source"
	"glosa/internal/vocab"
)

type diagFormat string

const (
	diagPretty diagFormat = "pretty"
	diagShort  diagFormat = "short"
	diagJSON   diagFormat = "json"
)

func parseDiagFormat(s string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case diagPretty, diagShort, diagJSON:
		return f, nil
	}
	return "", usageError{err: fmt.Errorf("unsupported format %q (must be pretty, short or json)", s)}
}

// writeDiagnostics prints diags in compiler order.
func writeDiagnostics(w io.Writer, format diagFormat, diags []diag.Diagnostic, fs *source.FileSet) error {
	if len(diags) == 0 && format != diagJSON {
		return nil
	}
	switch format {
	case diagShort:
		_, err := io.WriteString(w, diag.FormatShortDiagnostics(diags, fs, true)+"\n")
		return err
	case diagJSON:
		return diagfmt.JSON(w, diags, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	default:
		diagfmt.Pretty(w, diags, fs, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
		return nil
	}
}

// statusWriter prints localized progress lines unless quiet.
type statusWriter struct {
	w     io.Writer
	p     *i18n.Printer
	quiet bool
}

var (
	statusOK   = color.New(color.FgGreen, color.Bold)
	statusFail = color.New(color.FgRed, color.Bold)
	statusStep = color.New(color.FgCyan)
)

func (s statusWriter) line(c *color.Color, msg string) {
	if s.quiet {
		return
	}
	fmt.Fprintln(s.w, c.Sprint("▸ ")+msg)
}

func (s statusWriter) translated(file string, tbl *vocab.Table, n int) {
	data := map[string]any{"File": file, "Language": tbl.Language()}
	if n == 0 {
		s.line(statusStep, s.p.Sprint(i18n.MsgTranslatedNone, data))
		return
	}
	s.line(statusStep, s.p.Plural(i18n.MsgTranslated, n, data))
}

// failure describes err on stderr when it is one of the run's terminal
// errors and returns it marked as reported. Other errors come back as is.
func (s statusWriter) failure(w io.Writer, language string, registry *vocab.Registry, err error) error {
	var unsupported *vocab.UnsupportedLanguageError
	var compileErr *buildpipeline.CompileError
	var invocationErr *launch.InvocationError
	var msg string
	switch {
	case errors.As(err, &unsupported):
		available := unsupported.Supported
		if len(available) == 0 && registry != nil {
			available = registry.IDs()
		}
		msg = s.p.Sprint(i18n.MsgUnsupported, map[string]any{
			"Language":  language,
			"Available": strings.Join(available, ", "),
		})
	case errors.As(err, &compileErr):
		msg = s.p.Sprint(i18n.MsgCompileFailed, map[string]any{"Unit": compileErr.Unit})
	case errors.As(err, &invocationErr):
		msg = s.p.Sprint(i18n.MsgInvocationFailed, map[string]any{
			"Entry":  invocationErr.Entry,
			"Reason": invocationReason(invocationErr),
		})
	default:
		return err
	}
	// ошибки печатаем всегда, даже с --quiet
	fmt.Fprintln(w, statusFail.Sprint("error: ")+msg)
	return reportedError{err: err}
}

func invocationReason(e *launch.InvocationError) string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}
