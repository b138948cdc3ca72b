package reader

// scanner walks source text one significant character at a time, skipping
// string contents, character literals and comments.
type scanner struct {
	src string
	pos int
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

func isOpener(c byte) bool {
	return c == '(' || c == '[' || c == '{'
}

func isCloser(c byte) bool {
	return c == ')' || c == ']' || c == '}'
}

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func isTerminator(c byte) bool {
	return isWhitespace(c) || isOpener(c) || isCloser(c) || c == '"' || c == ';'
}

func isPrefix(c byte) bool {
	return c == '\'' || c == '`' || c == '~' || c == '@' || c == '^' || c == '#'
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// skipSpace moves past whitespace and comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case isWhitespace(c):
			s.pos++
		case c == ';':
			s.skipComment()
		default:
			return
		}
	}
}

func (s *scanner) skipComment() {
	for !s.eof() && s.src[s.pos] != '\n' {
		s.pos++
	}
}

// skipString moves past a string whose opening quote is at pos.
// It reports false when the string is unterminated.
func (s *scanner) skipString() bool {
	s.pos++
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return true
		default:
			s.pos++
		}
	}
	s.pos = len(s.src)
	return false
}

// skipChar moves past a character literal whose backslash is at pos.
// It reports false when nothing follows the backslash.
func (s *scanner) skipChar() bool {
	s.pos++
	if s.eof() {
		return false
	}
	s.pos++
	for !s.eof() && !isTerminator(s.src[s.pos]) {
		s.pos++
	}
	return true
}

// skipToken moves past a symbol, keyword or number.
func (s *scanner) skipToken() {
	for !s.eof() && !isTerminator(s.src[s.pos]) {
		s.pos++
	}
}
