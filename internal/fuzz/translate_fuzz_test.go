package fuzztests

import (
	"testing"

	"glosa/internal/diag"
	"glosa/internal/source"
	"glosa/internal/translate"
	"glosa/internal/vocab"
)

const maxFuzzInput = 1 << 16

func fuzzTable(f *testing.F, host, language string) *vocab.Table {
	f.Helper()
	reg, err := vocab.Builtin(host)
	if err != nil {
		f.Fatal(err)
	}
	t, err := reg.Resolve(language)
	if err != nil {
		f.Fatal(err)
	}
	return t
}

func fuzzTranslator(f *testing.F, host string) {
	tbl := fuzzTable(f, host, "spanish")
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.es", append([]byte(nil), input...)))

		bag := diag.NewBag(64)
		tr, err := translate.New(tbl, translate.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatal(err)
		}
		res := tr.TranslateFile(file)
		checkEdits(t, res)
		for _, d := range bag.Items() {
			if d.Severity != diag.SevWarning || d.Primary.File != file.ID {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
		}
	})
}

// checkEdits rebuilds both texts from the edit list.
func checkEdits(t *testing.T, res translate.Result) {
	t.Helper()
	if len(res.Edits) != res.Substitutions {
		t.Fatalf("%d edits for %d substitutions", len(res.Edits), res.Substitutions)
	}
	if res.Substitutions == 0 && res.Rewritten != res.Original {
		t.Fatalf("no substitutions but text changed")
	}
	var origAt, newAt uint32
	for _, e := range res.Edits {
		if e.OrigStart < origAt || e.NewStart < newAt {
			t.Fatalf("edits out of order: %+v", e)
		}
		if res.Original[origAt:e.OrigStart] != res.Rewritten[newAt:e.NewStart] {
			t.Fatalf("untouched text differs before %+v", e)
		}
		if res.Original[e.OrigStart:e.OrigEnd] != e.From || res.Rewritten[e.NewStart:e.NewEnd] != e.To {
			t.Fatalf("edit does not match text: %+v", e)
		}
		if res.OriginalOffset(e.NewStart) != e.OrigStart {
			t.Fatalf("OriginalOffset(%d) = %d, want %d", e.NewStart, res.OriginalOffset(e.NewStart), e.OrigStart)
		}
		origAt, newAt = e.OrigEnd, e.NewEnd
	}
	if res.Original[origAt:] != res.Rewritten[newAt:] {
		t.Fatalf("untouched tail differs")
	}
	if got := res.OriginalOffset(uint32(len(res.Rewritten))); got != uint32(len(res.Original)) {
		t.Fatalf("end maps to %d, want %d", got, len(res.Original))
	}
}

func FuzzTranslateJava(f *testing.F) { fuzzTranslator(f, "java") }

func FuzzTranslateGo(f *testing.F) { fuzzTranslator(f, "go") }
