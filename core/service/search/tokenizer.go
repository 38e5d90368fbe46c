package search

import "strings"

// Tokenize implements §4.D.3: pad '(', ')', '{', '}' with spaces so they
// become standalone tokens, then split shell-style (preserving
// double-quoted substrings as single tokens). Falls back to a plain
// whitespace split if quoting is unbalanced. 'OR' is never coalesced
// with neighboring tokens — it stays its own token to preserve grammar
// precedence (§4.D.4).
func Tokenize(q string) []string {
	padded := padGrouping(q)
	if toks, ok := shellSplit(padded); ok {
		return toks
	}
	return strings.Fields(padded)
}

func padGrouping(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch r {
		case '(', ')', '{', '}':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// shellSplit tokenizes on whitespace, treating a double-quoted substring
// as one token (quotes retained, since field predicates strip them
// themselves per §4.D.5). Returns ok=false on an unterminated quote.
func shellSplit(s string) ([]string, bool) {
	var toks []string
	var cur strings.Builder
	inQuotes := false
	hasCur := false

	flush := func() {
		if hasCur {
			toks = append(toks, cur.String())
			cur.Reset()
			hasCur = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
			hasCur = true
		case isSpace(r) && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
			hasCur = true
		}
	}
	if inQuotes {
		return nil, false
	}
	flush()
	return toks, true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
