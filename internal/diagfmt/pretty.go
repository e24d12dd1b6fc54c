package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"glosa/internal/diag"
	"glosa/internal/source"
)

type palette struct {
	err, warn, note, caret, gutter, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.caret, p.gutter, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.note
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке Items().
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes в том же формате.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	items := diags
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		loc := locationLabel(fs, d.Primary, d.Label, opts.PathMode)
		header := fmt.Sprintf("%s %s", d.Severity, d.Code.ID())
		if loc != "" {
			fmt.Fprintf(w, "%s: ", pal.bold.Sprint(loc))
		}
		fmt.Fprintf(w, "%s: %s\n", pal.severity(d.Severity).Sprint(header), d.Message)
		writeSnippet(w, fs, d.Primary, opts.Context, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nloc := locationLabel(fs, n.Span, "", opts.PathMode)
			if nloc != "" {
				nloc += ": "
			}
			fmt.Fprintf(w, "  %s %s%s\n", pal.note.Sprint("note:"), nloc, n.Msg)
			writeSnippet(w, fs, n.Span, 0, pal)
		}
	}
	if len(items) < len(diags) {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", len(diags)-len(items))
	}
}

func locationLabel(fs *source.FileSet, span source.Span, label string, mode PathMode) string {
	if fs == nil || !span.IsValid() {
		return label
	}
	f := fs.Get(span.File)
	if f == nil {
		return label
	}
	path := label
	if path == "" {
		path = f.FormatPath(mode.mode(), fs.BaseDir())
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int8, pal palette) {
	if fs == nil || !span.IsValid() {
		return
	}
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	first := start.Line
	if context > 0 && uint32(context) < first {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	stop := len(line)
	if end.Line == start.Line && int(end.Col)-1 < stop {
		stop = int(end.Col) - 1
	}
	if stop < col {
		stop = col
	}
	underline := max(runewidth.StringWidth(line[col:stop]), 1)
	marker := "^" + strings.Repeat("~", underline-1)
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), indentFor(line[:col]), pal.caret.Sprint(marker))
}

// indentFor keeps tabs and pads everything else to its display width.
func indentFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
