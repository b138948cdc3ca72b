// Package reader answers structural questions about Lisp-style source text
// without reading it into data.
//
// It knows about delimiters, strings, character literals, comments and
// reader-macro prefixes, which is enough to tell where the first form in a
// buffer ends, how deeply the unfinished form is nested and where the
// opener of a closing bracket sits.
package reader
