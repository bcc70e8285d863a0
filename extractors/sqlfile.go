package extractors

import (
	"regexp"
	"strings"
)

var createTablePattern = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?("?[\w]+"?)\s*\(`)

var constraintStarters = []string{
	"PRIMARY KEY", "FOREIGN KEY", "UNIQUE", "CHECK", "CONSTRAINT",
}

// ParseTables scans sanitized SQL text for CREATE TABLE statements and
// returns the table and column metadata they declare. It expects input
// that already went through the sanitizer (double-quoted identifiers,
// balanced parens); it is a metadata scan for upload previews, not a SQL
// parser.
func ParseTables(sqlText string) []TableMeta {
	var tables []TableMeta
	for _, m := range createTablePattern.FindAllStringSubmatchIndex(sqlText, -1) {
		name := strings.Trim(sqlText[m[2]:m[3]], `"`)
		openIdx := m[1] - 1
		closeIdx := matchParen(sqlText, openIdx)
		if closeIdx == -1 {
			continue
		}
		body := sqlText[openIdx+1 : closeIdx-1]
		tables = append(tables, TableMeta{Name: name, Columns: parseColumns(body)})
	}
	return tables
}

func parseColumns(body string) []ColumnMeta {
	var cols []ColumnMeta
	for _, entry := range splitTopLevel(body) {
		entry = strings.TrimSpace(entry)
		if entry == "" || isConstraintEntry(entry) {
			continue
		}
		fields := strings.Fields(entry)
		name := strings.Trim(fields[0], `"`)
		typ := ""
		if len(fields) > 1 {
			typ = fields[1]
		}
		cols = append(cols, ColumnMeta{Name: name, Type: typ})
	}
	return cols
}

func isConstraintEntry(entry string) bool {
	upper := strings.ToUpper(entry)
	for _, s := range constraintStarters {
		if strings.HasPrefix(upper, s) {
			return true
		}
	}
	return false
}

// matchParen returns the index just past the ')' closing the '(' at
// openIdx, or -1 if the parens never balance.
func matchParen(s string, openIdx int) int {
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

// splitTopLevel splits a column-list body on commas outside nested parens,
// so a DECIMAL(10,2) type doesn't split its own arguments.
func splitTopLevel(s string) []string {
	var parts []string
	depth, last := 0, 0
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
	return append(parts, s[last:])
}
