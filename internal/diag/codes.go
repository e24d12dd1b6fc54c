package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Перевод ключевых слов
	TrInfo                  Code = 1000
	TrUnterminatedString    Code = 1001
	TrUnterminatedChar      Code = 1002
	TrUnterminatedComment   Code = 1003
	TrUnterminatedTextBlock Code = 1004

	// Диагностики внешнего компилятора
	CompInfo    Code = 2000
	CompError   Code = 2001
	CompWarning Code = 2002
	CompNote    Code = 2003
	CompTool    Code = 2004 // compiler exited without usable diagnostics
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	TrInfo:                  "Translation information",
	TrUnterminatedString:    "Unterminated string literal",
	TrUnterminatedChar:      "Unterminated character literal",
	TrUnterminatedComment:   "Unterminated block comment",
	TrUnterminatedTextBlock: "Unterminated text block",
	CompInfo:                "Compiler information",
	CompError:               "Compiler error",
	CompWarning:             "Compiler warning",
	CompNote:                "Compiler note",
	CompTool:                "Compiler failed without diagnostics",
}

// ID returns the stable string form, e.g. TRN1001 or CMP2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TRN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CMP%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
