package language

import "strings"

// Split breaks a command string into words using shell-style rules:
// double-quoted segments stay one word and a backslash escapes the next
// character. There are no other shell semantics; no variable expansion and
// no globbing.
func Split(input string) []string {
	var words []string
	var current strings.Builder
	inQuotes := false
	escaped := false

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, ch := range input {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
		case !inQuotes && (ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'):
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return words
}
