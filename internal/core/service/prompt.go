package service

import (
	"strings"
	"unicode/utf8"

	"github.com/yndnr/replfront/internal/core/domain"
)

// SecondaryMarker ends every continuation prompt.
const SecondaryMarker = "#_=> "

// secondaryPrefixLen is the visual width of the "#_" part of SecondaryMarker.
const secondaryPrefixLen = 2

// Prompter formats primary and secondary prompts.
type Prompter struct {
	// DumbTerminal disables padding and continuation prompts.
	DumbTerminal bool
}

// Format returns the prompt for sess. The second result is false when no
// prompt should be shown, which only happens for secondary prompts on dumb
// terminals and remote sessions.
func (p Prompter) Format(sess *domain.Session, secondary bool) (string, bool) {
	ns := sess.Namespace()
	nsLen := utf8.RuneCountInString(ns)

	if !secondary {
		if nsLen < secondaryPrefixLen && !p.DumbTerminal {
			return " " + ns + "=> ", true
		}
		return ns + "=> ", true
	}

	if p.DumbTerminal || sess.IsRemote() {
		return "", false
	}

	extra := 0
	if nsLen > secondaryPrefixLen {
		extra = nsLen - secondaryPrefixLen
	}
	return strings.Repeat(" ", extra) + SecondaryMarker, true
}

// Primary returns the primary prompt for sess.
func (p Prompter) Primary(sess *domain.Session) string {
	prompt, _ := p.Format(sess, false)
	return prompt
}

// Secondary returns the continuation prompt, or "" when it is absent.
func (p Prompter) Secondary(sess *domain.Session) string {
	prompt, _ := p.Format(sess, true)
	return prompt
}
