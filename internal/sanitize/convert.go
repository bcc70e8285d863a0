package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// maxConvertIterations bounds the CONVERT(...) sweep so a pathological or
// unbalanced input can't spin the rewrite loop forever.
const maxConvertIterations = 400

var convertOpenPattern = regexp.MustCompile(`(?i)\bCONVERT\s*\(`)

// rewriteConvert turns T-SQL CONVERT(Type, Expr[, Style]) into
// CAST(Expr AS Type), discarding any style argument. It is a balanced-paren
// sweep rather than a single regex because the expression argument may
// itself contain commas and parens (nested function calls, subqueries).
func rewriteConvert(script string) string {
	for i := 0; i < maxConvertIterations; i++ {
		loc := convertOpenPattern.FindStringIndex(script)
		if loc == nil {
			break
		}
		openIdx := loc[1] - 1
		closeIdx := findMatchingParen(script, openIdx)
		if closeIdx == -1 {
			break
		}
		body := script[openIdx+1 : closeIdx-1]
		args := topLevelCommaSplit(body)
		if len(args) < 2 {
			break
		}
		targetType := strings.TrimSpace(args[0])
		expr := strings.TrimSpace(args[1])
		if strings.EqualFold(targetType, "xml") {
			targetType = "TEXT"
		}
		replacement := fmt.Sprintf("CAST(%s AS %s)", expr, targetType)
		script = script[:loc[0]] + replacement + script[closeIdx:]
	}
	return script
}
