package domain

import "sync/atomic"

// Sequence issues strictly increasing identifiers starting at 1.
// It is safe for concurrent use.
type Sequence struct {
	last atomic.Uint64
}

// Next issues the next identifier.
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}
