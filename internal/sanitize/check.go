package sanitize

import (
	"regexp"
	"strings"
)

var (
	checkOpenPattern        = regexp.MustCompile(`(?i)\bCHECK\s*\(`)
	constraintPrefixPattern = regexp.MustCompile("(?i)CONSTRAINT\\s+[\\w\\[\\]\"`]+\\s*$")
	forbiddenCheckPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\[FM\]|"FM"`),
		regexp.MustCompile(`(?i)LIKE\s*['"].*?\[.*?\]`),
	}
	computedColumnPattern  = regexp.MustCompile(`(?i)\bAS\s*\(`)
	persistedSuffixPattern = regexp.MustCompile(`(?i)^\s*PERSISTED\b`)
)

// elideCheckConstraints removes CHECK(...) blocks whose body matches one
// of the forbidden patterns ([FM]/"FM" bracket-class literals, or a LIKE
// pattern using a bracket class) along with a preceding `CONSTRAINT name`
// if present. It walks occurrences from the last to the first so that
// earlier indices stay valid as later blocks are deleted.
//
// This must run before the syntactic cleanup in the rest of the Schema
// Rule Set: cleanup would otherwise mistake the `[FM]` bracket-class
// literal for a bracketed identifier and mangle it.
func elideCheckConstraints(script string) string {
	matches := checkOpenPattern.FindAllStringIndex(script, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start := matches[i][0]
		openIdx := matches[i][1] - 1
		closeIdx := findMatchingParen(script, openIdx)
		if closeIdx == -1 {
			continue
		}
		block := script[start:closeIdx]
		forbidden := false
		for _, p := range forbiddenCheckPatterns {
			if p.MatchString(block) {
				forbidden = true
				break
			}
		}
		if !forbidden {
			continue
		}
		removeStart := start
		if m := constraintPrefixPattern.FindStringIndex(script[:start]); m != nil {
			removeStart = m[0]
		}
		script = script[:removeStart] + script[closeIdx:]
	}
	return script
}

// removeComputedColumns strips the `AS (expression) [PERSISTED]` clause
// of a computed column, leaving the column name in place as a typeless
// column. A clause is recognized by the fact that the closing paren (or
// the trailing PERSISTED keyword) is followed, after spaces or tabs, by a
// comma, a line break, or the end of the text; a clause followed directly
// by the column list's `)` on the same line is left in place.
func removeComputedColumns(script string) string {
	result := script
	searchFrom := 0
	for {
		loc := computedColumnPattern.FindStringIndex(result[searchFrom:])
		if loc == nil {
			break
		}
		start := searchFrom + loc[0]
		openIdx := searchFrom + loc[1] - 1
		closeIdx := findMatchingParen(result, openIdx)
		if closeIdx == -1 {
			searchFrom = start + 1
			continue
		}
		end := closeIdx
		if m := persistedSuffixPattern.FindStringIndex(result[closeIdx:]); m != nil {
			end = closeIdx + m[1]
		}
		trimmed := strings.TrimLeft(result[end:], " \t")
		if strings.HasPrefix(trimmed, ",") || trimmed == "" ||
			strings.HasPrefix(trimmed, "\n") || strings.HasPrefix(trimmed, "\r") {
			result = result[:start] + result[end:]
			searchFrom = start
			continue
		}
		searchFrom = start + (loc[1] - loc[0])
	}
	return result
}
