package translate

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// cursor представляет собой позицию в тексте
type cursor struct {
	src []byte
	off uint32
	end uint32
}

func newCursor(src []byte) cursor {
	return cursor{src: src, end: toU32(len(src))}
}

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

func (c *cursor) eof() bool {
	return c.off >= c.end
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.off]
}

// peekRune декодирует руну в текущей позиции; size 0 на EOF
func (c *cursor) peekRune() (rune, uint32) {
	if c.eof() {
		return utf8.RuneError, 0
	}
	b := c.src[c.off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.src[c.off:])
	return r, toU32(sz)
}

func (c *cursor) bump() {
	if !c.eof() {
		c.off++
	}
}

func (c *cursor) bumpRune() {
	_, sz := c.peekRune()
	c.off += sz
}

// hasPrefix checks whether the remaining input starts with s.
func (c *cursor) hasPrefix(s string) bool {
	return s != "" && bytes.HasPrefix(c.src[c.off:], []byte(s))
}

func (c *cursor) skip(s string) {
	c.off += toU32(len(s))
}

// skipUntil moves past the first occurrence of s and reports whether it was found.
// If s is missing the cursor stops at EOF.
func (c *cursor) skipUntil(s string) bool {
	idx := bytes.Index(c.src[c.off:], []byte(s))
	if idx < 0 {
		c.off = c.end
		return false
	}
	c.off += toU32(idx + len(s))
	return true
}
