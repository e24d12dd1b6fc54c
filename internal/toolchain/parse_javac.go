package toolchain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"glosa/internal/diag"
	"glosa/internal/source"
)

var (
	// Main.java:3: error: cannot find symbol
	javacHeader = regexp.MustCompile(`^(.+?\.java):(\d+): (error|warning|note): (.*)$`)
	// error: invalid flag: -foo
	javacBare = regexp.MustCompile(`^(error|warning|note|Note): (.*)$`)
	// 2 errors, 1 warning
	javacSummary = regexp.MustCompile(`^\d+ (error|warning)s?$`)
)

// ParseJavac converts javac output into diagnostics in emission order.
//
// Positions are resolved against file, which must hold the text javac saw.
// javac reports a line in the header and the column through the caret line
// that follows the echoed source.
func ParseJavac(out string, file *source.File) []diag.Diagnostic {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	var (
		diags   []diag.Diagnostic
		cur     = -1 // индекс последней позиционной диагностики
		curLine uint32
		phase   int // 0 - ждём эхо строки, 1 - ждём каретку, 2 - детали
	)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := javacHeader.FindStringSubmatch(line); m != nil {
			n, err := strconv.ParseUint(m[2], 10, 32)
			if err != nil {
				n = 0
			}
			curLine = uint32(n)
			sev, code := javacSeverity(m[3])
			d := diag.New(sev, code, lineSpan(file, curLine, 0), m[4]).WithLabel(m[1])
			diags = append(diags, d)
			cur = len(diags) - 1
			phase = 0
			continue
		}
		if javacSummary.MatchString(line) {
			cur = -1
			continue
		}
		if m := javacBare.FindStringSubmatch(line); m != nil {
			sev, code := javacSeverity(strings.ToLower(m[1]))
			diags = append(diags, diag.New(sev, code, source.NoSpan, m[2]))
			cur = -1
			continue
		}
		if cur < 0 {
			// неструктурированный вывод, сохраняем как есть
			diags = append(diags, diag.New(diag.SevNote, diag.CompInfo, source.NoSpan, strings.TrimSpace(line)))
			continue
		}
		switch {
		case phase < 2 && isCaretLine(line):
			col := utf8.RuneCountInString(line[:strings.IndexByte(line, '^')])
			diags[cur].Primary = lineSpan(file, curLine, col)
			phase = 2
		case phase == 0:
			phase = 1
		default:
			diags[cur] = diags[cur].WithNote(source.NoSpan, strings.TrimSpace(line))
		}
	}
	return diags
}

func javacSeverity(kind string) (diag.Severity, diag.Code) {
	switch kind {
	case "error":
		return diag.SevError, diag.CompError
	case "warning":
		return diag.SevWarning, diag.CompWarning
	}
	return diag.SevNote, diag.CompNote
}

func isCaretLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return trimmed == "^"
}

// lineSpan points at the col-th character (0-based, in runes) of line.
func lineSpan(file *source.File, line uint32, col int) source.Span {
	if file == nil || line == 0 {
		return source.NoSpan
	}
	start, ok := file.Offset(source.LineCol{Line: line, Col: 1})
	if !ok {
		return source.NoSpan
	}
	text := file.GetLine(line)
	byteCol := 0
	for i := 0; i < col && byteCol < len(text); i++ {
		_, sz := utf8.DecodeRuneInString(text[byteCol:])
		byteCol += sz
	}
	off := start + u32(byteCol)
	end := off
	if byteCol < len(text) {
		_, sz := utf8.DecodeRuneInString(text[byteCol:])
		end += u32(sz)
	}
	return source.Span{File: file.ID, Start: off, End: end}
}
