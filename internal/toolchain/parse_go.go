package toolchain

import (
	"regexp"
	"strconv"
	"strings"

	"glosa/internal/diag"
	"glosa/internal/source"
)

// ./main.go:3:2: undefined: x
var goPosLine = regexp.MustCompile(`^(?:\./)?(.+?\.go):(\d+):(\d+): (.*)$`)

// ParseGoBuild converts `go build` output into diagnostics in emission order.
// Go reports byte columns, so positions map directly onto file.
func ParseGoBuild(out string, file *source.File) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, line := range strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		if m := goPosLine.FindStringSubmatch(line); m != nil {
			ln, _ := strconv.ParseUint(m[2], 10, 32)
			col, _ := strconv.ParseUint(m[3], 10, 32)
			d := diag.NewError(diag.CompError, posSpan(file, uint32(ln), uint32(col)), m[4]).WithLabel(m[1])
			diags = append(diags, d)
			continue
		}
		if strings.HasPrefix(line, "\t") && len(diags) > 0 {
			last := len(diags) - 1
			diags[last] = diags[last].WithNote(source.NoSpan, strings.TrimSpace(line))
			continue
		}
		if msg, ok := strings.CutPrefix(line, "note: "); ok {
			diags = append(diags, diag.New(diag.SevNote, diag.CompNote, source.NoSpan, msg))
			continue
		}
		diags = append(diags, diag.NewError(diag.CompTool, source.NoSpan, strings.TrimSpace(line)))
	}
	return diags
}

func posSpan(file *source.File, line, col uint32) source.Span {
	if file == nil || line == 0 {
		return source.NoSpan
	}
	off, ok := file.Offset(source.LineCol{Line: line, Col: col})
	if !ok {
		return source.NoSpan
	}
	end := off
	if int(off) < len(file.Content) && file.Content[off] != '\n' {
		end++
	}
	return source.Span{File: file.ID, Start: off, End: end}
}
