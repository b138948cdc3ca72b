package reader

import "strings"

// IndentSpaceCount returns the indentation for a line continuing buffer.
//
// Lists indent two columns past their opener, vectors and maps one column,
// so that elements line up under the first element.
func (c *Checker) IndentSpaceCount(buffer string) int {
	open, ok := innermostOpen(buffer)
	if !ok {
		return 0
	}
	lineStart := strings.LastIndexByte(buffer[:open], '\n') + 1
	col := len([]rune(buffer[lineStart:open]))
	if buffer[open] == '(' {
		return col + 2
	}
	return col + 1
}

// innermostOpen returns the offset of the innermost unclosed opener.
func innermostOpen(buffer string) (int, bool) {
	s := &scanner{src: buffer}
	var stack []int
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ';':
			s.skipComment()
		case c == '"':
			s.skipString()
		case c == '\\':
			s.skipChar()
		case isOpener(c):
			stack = append(stack, s.pos)
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
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}
