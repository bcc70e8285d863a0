package sanitize

// findMatchingParen returns the index just past the ')' that closes the '('
// at openIdx, tracking nesting depth. It returns -1 if the parens never
// balance before the end of s.
func findMatchingParen(s string, openIdx int) int {
	depth := 1
	for i := openIdx + 1; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// topLevelCommaSplit splits s on commas that are not nested inside a
// parenthesized group. Used to pull apart CONVERT(type, expr, style)
// argument lists without being fooled by commas inside a nested call.
func topLevelCommaSplit(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}
