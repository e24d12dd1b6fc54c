package fuzztests

import (
	"strings"
	"testing"

	"glosa/internal/vocab"
)

const maxSeedBytes = 64 << 10

// syntaxSeeds cover literal and comment edge cases of both hosts.
var syntaxSeeds = []string{
	"",
	"si",
	"si(x) { volver; } sino { }",
	`"si" 'a' '\'' "\"si\"" si`,
	"// si\nsi /* si */ si",
	"/* sin cerrar si",
	"\"sin cerrar si\nsi",
	"\"\"\"\nsi\n\"\"\" si",
	"`si\nsi` si",
	"a / b / si",
	"sí sí xsi si_ _si",
	"publico estatico vacio principal() { imprimir(\"hola\"); }",
	"funcion principal() { imprimir(\"hola\") }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range syntaxSeeds {
		f.Add([]byte(s))
	}
	addVocabularySeeds(f)
}

// addVocabularySeeds adds one line per built-in table made of its keywords.
func addVocabularySeeds(f *testing.F) {
	for _, host := range vocab.Hosts() {
		reg, err := vocab.Builtin(host)
		if err != nil {
			continue
		}
		for _, t := range reg.Tables() {
			words := make([]string, 0, t.Len())
			for _, p := range t.Pairs() {
				words = append(words, p.From)
			}
			f.Add(clampSeed([]byte(strings.Join(words, " "))))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return src
}
