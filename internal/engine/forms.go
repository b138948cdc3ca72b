package engine

import (
	"strings"

	"github.com/yndnr/replfront/internal/reader"
)

var checker = reader.NewChecker()

// splitForms breaks source into its top-level forms, dropping comments
// and whitespace.
func splitForms(source string) []string {
	var forms []string
	rest := source
	for !isBlankOrComment(rest) {
		leftover, ok := checker.Check(rest)
		if !ok {
			forms = append(forms, strings.TrimSpace(rest))
			break
		}
		form := dropLeadingComments(rest[:len(rest)-len(leftover)])
		if form != "" {
			forms = append(forms, form)
		}
		rest = leftover
	}
	return forms
}

func isBlankOrComment(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, ";") {
			return false
		}
	}
	return true
}

func dropLeadingComments(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 {
		line := strings.TrimSpace(lines[0])
		if line != "" && !strings.HasPrefix(line, ";") {
			break
		}
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// parseCall splits "(head args...)" into head and the raw argument text.
// Anything else has no head.
func parseCall(form string) (head, args string) {
	if !strings.HasPrefix(form, "(") || !strings.HasSuffix(form, ")") {
		return "", ""
	}
	inner := strings.TrimSpace(form[1 : len(form)-1])
	head, args, _ = strings.Cut(inner, " ")
	return head, strings.TrimSpace(args)
}

func firstArg(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimSuffix(fields[0], ")")
}
