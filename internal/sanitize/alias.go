package sanitize

import "regexp"

var (
	selectPattern      = regexp.MustCompile(`(?i)\bSELECT\b`)
	fromPattern        = regexp.MustCompile(`(?i)\bFROM\b`)
	aliasAssignPattern = regexp.MustCompile(`(?is)^(\s*)([a-zA-Z0-9_"\.\[\]]+)\s*=\s*(.+)$`)
)

// stripAliasAssignments rewrites `name = expr` column-list entries inside
// SELECT ... FROM into plain `expr`. It is deliberately scoped to the
// column-list span between a top-level SELECT and its matching FROM
// (tracked by paren depth) rather than a bare regex over the whole
// script, because `name = expr` is indistinguishable from a WHERE
// predicate once you stop anchoring on SELECT.
func stripAliasAssignments(script string) string {
	out := script
	searchFrom := 0
	for {
		loc := selectPattern.FindStringIndex(out[searchFrom:])
		if loc == nil {
			break
		}
		selectEnd := searchFrom + loc[1]
		fromLoc := findTopLevelFrom(out, selectEnd)
		if fromLoc == -1 {
			searchFrom = selectEnd
			continue
		}
		columnList := out[selectEnd:fromLoc]
		rewritten := rewriteColumnList(columnList)
		out = out[:selectEnd] + rewritten + out[fromLoc:]
		searchFrom = selectEnd + len(rewritten)
	}
	return out
}

// findTopLevelFrom finds the next FROM keyword at the same paren depth as
// position `from` (i.e. not inside a subquery opened after `from`).
func findTopLevelFrom(s string, from int) int {
	candidates := fromPattern.FindAllStringIndex(s[from:], -1)
	for _, c := range candidates {
		pos := from + c[0]
		if depthAt(s, from, pos) == 0 {
			return pos
		}
	}
	return -1
}

func depthAt(s string, from, to int) int {
	depth := 0
	for i := from; i < to; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

func rewriteColumnList(columnList string) string {
	parts := topLevelCommaSplit(columnList)
	for i, p := range parts {
		if m := aliasAssignPattern.FindStringSubmatch(p); m != nil {
			parts[i] = m[1] + m[3]
		}
	}
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += ","
		}
		joined += p
	}
	return joined
}
