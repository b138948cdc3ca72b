package reader

import (
	"strings"
	"unicode/utf8"
)

// BracketMatcher finds the opener matching a closing bracket, looking back
// through the lines already entered for the current form.
type BracketMatcher struct{}

// NewBracketMatcher creates a new BracketMatcher.
func NewBracketMatcher() *BracketMatcher {
	return &BracketMatcher{}
}

// Locate returns how many lines above line the opener for the closer at
// rune index pos sits, and its rune column in that line. ok is false when
// pos is not a closer, the closer is inside a string, comment or character
// literal, or nothing matches it.
func (m *BracketMatcher) Locate(prev []string, line string, pos int) (up, col int, ok bool) {
	runes := []rune(line)
	if pos < 0 || pos >= len(runes) || runes[pos] > utf8.RuneSelf || !isCloser(byte(runes[pos])) {
		return 0, 0, false
	}
	closer := byte(runes[pos])

	lines := append(append([]string(nil), prev...), string(runes[:pos]))
	src := strings.Join(lines, "\n")

	type opener struct {
		offset int
		c      byte
	}
	var stack []opener

	s := &scanner{src: src}
	inert := false
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ';':
			s.skipComment()
			inert = s.eof()
		case c == '"':
			inert = !s.skipString()
		case c == '\\':
			inert = !s.skipChar()
		case isOpener(c):
			stack = append(stack, opener{offset: s.pos, c: c})
			s.pos++
		case isCloser(c):
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			s.pos++
		default:
			s.pos++
		}
	}
	if inert || len(stack) == 0 {
		return 0, 0, false
	}

	top := stack[len(stack)-1]
	if closerFor(top.c) != closer {
		return 0, 0, false
	}

	lineStart := strings.LastIndexByte(src[:top.offset], '\n') + 1
	up = strings.Count(src[top.offset:], "\n")
	col = utf8.RuneCountInString(src[lineStart:top.offset])
	return up, col, true
}
