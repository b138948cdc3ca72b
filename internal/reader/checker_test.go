package reader

import "testing"

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name     string
		buffer   string
		leftover string
		complete bool
	}{
		{"empty", "", "", true},
		{"blank", "  \n\t", "", true},
		{"comment only", "; nothing here", "", true},
		{"symbol", "foo", "", true},
		{"symbol then more", "foo bar", " bar", true},
		{"list", "(+ 1 2)", "", true},
		{"two lists", "(a) (b)", " (b)", true},
		{"open list", "(defn f [x]", "", false},
		{"nested multiline", "(let [a 1]\n  (inc a))", "", true},
		{"vector and map", "[{:a 1} #{2}]", "", true},
		{"string with paren", `(str ")")`, "", true},
		{"unterminated string", `(str "abc`, "", false},
		{"escaped quote", `"a\"b" x`, " x", true},
		{"char literal paren", `(= \) x)`, "", true},
		{"char literal newline", `[\newline]`, "", true},
		{"comment inside list", "(a ; )\n b)", "", true},
		{"comment hides closer", "(a ; )", "", false},
		{"quoted list", "'(1 2) 3", " 3", true},
		{"deref", "@a", "", true},
		{"unquote splicing", "`(~@xs)", "", true},
		{"discard prefix reads the next form", "#_(a) b", " b", true},
		{"dangling quote", "'", "", false},
		{"reader conditional", "#?(:cljs 1 :clj 2)", "", true},
		{"stray closer", ") (a)", "", true},
		{"mismatched closer", "(a]", "", true},
		{"keyword", ":repl/quit", "", true},
		{"commas are whitespace", ",,, x", "", true},
	}

	c := NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leftover, complete := c.Check(tt.buffer)
			if complete != tt.complete || leftover != tt.leftover {
				t.Errorf("Check(%q) = %q, %v, want %q, %v",
					tt.buffer, leftover, complete, tt.leftover, tt.complete)
			}
		})
	}
}

func TestChecker_IndentSpaceCount(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		want   int
	}{
		{"balanced", "(a)", 0},
		{"open list", "(defn f", 2},
		{"open vector", "(let [a 1", 6},
		{"open map", "{:a 1", 1},
		{"nested on later line", "(defn f [x]\n  (let [y x]", 4},
		{"closed inner", "(a (b c)", 2},
		{"paren in string", `(a ")("`, 2},
	}

	c := NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IndentSpaceCount(tt.buffer); got != tt.want {
				t.Errorf("IndentSpaceCount(%q) = %d, want %d", tt.buffer, got, tt.want)
			}
		})
	}
}
