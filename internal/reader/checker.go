package reader

// Checker implements the completeness check over delimiters.
type Checker struct{}

// NewChecker creates a new Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check reports whether buffer starts with a complete form and returns the
// text that follows it.
//
// A buffer holding only whitespace and comments is complete with nothing
// left over. An unbalanced closer ends the form at that closer; the
// evaluator reports the error.
func (c *Checker) Check(buffer string) (string, bool) {
	s := &scanner{src: buffer}
	s.skipSpace()
	if s.eof() {
		return "", true
	}
	if !s.readForm() {
		return "", false
	}
	return buffer[s.pos:], true
}

// readForm consumes one form starting at a significant character.
// It reports false when the buffer ends before the form does.
func (s *scanner) readForm() bool {
	for !s.eof() && isPrefix(s.src[s.pos]) {
		c := s.src[s.pos]
		s.pos++
		if c == '#' && !s.eof() && s.src[s.pos] == '_' {
			// #_ discards the next form, which must still be read.
			s.pos++
		}
		if c == '~' && !s.eof() && s.src[s.pos] == '@' {
			s.pos++
		}
		if c == '#' && !s.eof() && (s.src[s.pos] == '?' || s.src[s.pos] == ':') {
			s.skipToken()
		}
		s.skipSpace()
	}
	if s.eof() {
		return false
	}

	c := s.src[s.pos]
	switch {
	case isOpener(c):
		return s.readCollection()
	case isCloser(c):
		s.pos = len(s.src)
		return true
	case c == '"':
		return s.skipString()
	case c == '\\':
		return s.skipChar()
	default:
		s.skipToken()
		return true
	}
}

func (s *scanner) readCollection() bool {
	stack := []byte{closerFor(s.src[s.pos])}
	s.pos++
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ';':
			s.skipComment()
		case c == '"':
			if !s.skipString() {
				return false
			}
		case c == '\\':
			if !s.skipChar() {
				return false
			}
		case isOpener(c):
			stack = append(stack, closerFor(c))
			s.pos++
		case isCloser(c):
			s.pos++
			if c != stack[len(stack)-1] {
				return true
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return true
			}
		default:
			s.pos++
		}
	}
	return false
}
