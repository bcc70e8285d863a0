package sanitize

import (
	"regexp"
	"strings"
)

var (
	insertBarePattern       = regexp.MustCompile(`(?i)\bINSERT\s+`)
	backToBackInsertPattern = regexp.MustCompile(`(?i)([^;])(\s*[\r\n]+\s*)(INSERT\s+INTO\b)`)
	hexLiteralPattern       = regexp.MustCompile(`(?i)\b0x([0-9A-Fa-f]+)\b`)
	unicodeStringPattern    = regexp.MustCompile(`(?i)\bN'((?:[^']|'')*)'`)
)

// applyInlineFixups is Pipeline Orchestrator stage 3: patch up INSERT
// statements, literal encodings, and strip any residual IDENTITY keyword.
func applyInlineFixups(script string) string {
	script = insertIntoFixup(script)
	script = backToBackInsertPattern.ReplaceAllString(script, "${1}${2}; ${3}")
	script = hexLiteralPattern.ReplaceAllString(script, "X'$1'")
	script = unicodeStringPattern.ReplaceAllString(script, "'$1'")
	script = identityBarePattern.ReplaceAllString(script, "")
	return script
}

// insertIntoFixup inserts a missing INTO after a bare INSERT keyword,
// e.g. `INSERT "Table" (...)` -> `INSERT INTO "Table" (...)`. Go's RE2
// engine has no negative lookahead, so the "not already followed by
// INTO" check is done by inspecting the text after each match directly.
func insertIntoFixup(script string) string {
	out := script
	offset := 0
	for {
		loc := insertBarePattern.FindStringIndex(out[offset:])
		if loc == nil {
			break
		}
		end := offset + loc[1]
		rest := out[end:]
		if len(rest) >= 4 && strings.EqualFold(rest[:4], "INTO") {
			offset = end
			continue
		}
		out = out[:end] + "INTO " + out[end:]
		offset = end + len("INTO ")
	}
	return out
}
