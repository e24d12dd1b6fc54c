package translate

import (
	"fmt"
	"strings"

	"glosa/internal/diag"
	"glosa/internal/source"
	"glosa/internal/vocab"
)

// Options configures a Translator.
type Options struct {
	Syntax   Syntax
	Reporter diag.Reporter // nil: предупреждения игнорируем
}

// Translator applies one vocabulary table. It holds no per-call state and
// may be used from several goroutines.
type Translator struct {
	table *vocab.Table
	opts  Options
}

// New creates a Translator. When opts.Syntax is empty the table's host profile is used.
func New(table *vocab.Table, opts Options) (*Translator, error) {
	if table == nil {
		return nil, fmt.Errorf("translate: nil vocabulary table")
	}
	if opts.Syntax.Name == "" {
		syn, err := SyntaxFor(table.Host())
		if err != nil {
			return nil, err
		}
		opts.Syntax = syn
	}
	return &Translator{table: table, opts: opts}, nil
}

// Translate rewrites text. Warnings carry spans with source.NoFile.
func (t *Translator) Translate(text string) Result {
	return t.run([]byte(text), source.NoFile)
}

// TranslateFile rewrites f.Content and reports warnings against f.ID.
func (t *Translator) TranslateFile(f *source.File) Result {
	return t.run(f.Content, f.ID)
}

type scan struct {
	t    *Translator
	src  []byte
	file source.FileID
	c    cursor
	out  strings.Builder
	last uint32 // начало ещё не скопированного фрагмента
	res  Result
}

func (t *Translator) run(src []byte, file source.FileID) Result {
	r := &scan{t: t, src: src, file: file, c: newCursor(src)}
	r.out.Grow(len(src) + len(src)/8)
	r.res.Original = string(src)

	syn := t.opts.Syntax
	for !r.c.eof() {
		switch {
		case r.c.hasPrefix(syn.LineComment):
			r.c.skipUntil("\n")
		case r.c.hasPrefix(syn.BlockComment[0]):
			r.blockComment()
		default:
			if q, ok := r.quoteAt(); ok {
				r.quoted(q)
				continue
			}
			ch, _ := r.c.peekRune()
			if syn.identRune(ch) {
				r.word()
				continue
			}
			r.c.bumpRune()
		}
	}
	r.out.Write(src[r.last:])
	r.res.Rewritten = r.out.String()
	return r.res
}

func (r *scan) quoteAt() (Quote, bool) {
	for _, q := range r.t.opts.Syntax.Quotes {
		if r.c.hasPrefix(q.Open) {
			return q, true
		}
	}
	return Quote{}, false
}

func (r *scan) blockComment() {
	start := r.c.off
	open, closing := r.t.opts.Syntax.BlockComment[0], r.t.opts.Syntax.BlockComment[1]
	r.c.skip(open)
	if !r.c.skipUntil(closing) {
		r.warn(diag.TrUnterminatedComment, start, "unterminated block comment; the rest of the file is left untranslated")
	}
}

func (r *scan) quoted(q Quote) {
	start := r.c.off
	r.c.skip(q.Open)
	for !r.c.eof() {
		if r.c.hasPrefix(q.Close) {
			r.c.skip(q.Close)
			return
		}
		b := r.c.peek()
		if q.Escape != 0 && b == q.Escape {
			r.c.bump()
			r.c.bumpRune()
			continue
		}
		if b == '\n' && !q.Multiline {
			// строка оборвалась на переводе строки, дальше снова код
			r.warn(q.Code, start, "unterminated "+q.Name)
			return
		}
		r.c.bump()
	}
	msg := "unterminated " + q.Name
	if q.Multiline {
		msg += "; the rest of the file is left untranslated"
	}
	r.warn(q.Code, start, msg)
}

func (r *scan) word() {
	start := r.c.off
	for !r.c.eof() {
		ch, _ := r.c.peekRune()
		if !r.t.opts.Syntax.identRune(ch) {
			break
		}
		r.c.bumpRune()
	}
	end := r.c.off
	word := string(r.src[start:end])
	repl, ok := r.t.table.Lookup(word)
	if !ok {
		return
	}
	r.out.Write(r.src[r.last:start])
	r.res.Edits = append(r.res.Edits, Edit{
		OrigStart: start,
		OrigEnd:   end,
		NewStart:  toU32(r.out.Len()),
		NewEnd:    toU32(r.out.Len() + len(repl)),
		From:      word,
		To:        repl,
	})
	r.out.WriteString(repl)
	r.last = end
	r.res.Substitutions++
}

func (r *scan) warn(code diag.Code, start uint32, msg string) {
	if r.t.opts.Reporter == nil {
		return
	}
	end := min(start+1, r.c.end)
	diag.ReportWarning(r.t.opts.Reporter, code, source.Span{File: r.file, Start: start, End: end}, msg).Emit()
}
