// Package sanitize rewrites a T-SQL/MySQL dump into SQLite-executable SQL.
//
// The pipeline runs in a fixed order: text normalization, the T-SQL rule
// set, inline fixups, MySQL-only construct removal, then the schema rule
// set. Each stage is a pure string-to-string transform; none of them parse
// a SQL AST, so the order in which they run is load-bearing: a later
// stage may depend on an earlier one having already collapsed a
// construct into a simpler shape.
package sanitize

// Sanitize converts a single SQL dump's text into SQLite-compatible SQL.
// It is deterministic and side-effect free; callers own reading the input
// file and executing the output against a database.
func Sanitize(text string) string {
	text = normalizeText(text)
	text = applyTSQLRules(text)
	text = applyInlineFixups(text)
	text = stripMySQLOnly(text)
	text = applySchemaRules(text)
	return text
}
