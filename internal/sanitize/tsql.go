package sanitize

import (
	"regexp"
	"strings"
)

// proceduralSkipSet lists the statement-leading prefixes (case-insensitive)
// whose entire batch gets discarded: stored procedures, triggers, and
// other server-side constructs SQLite has no equivalent for.
var proceduralSkipSet = []string{
	"CREATE TRIGGER", "CREATE PROCEDURE", "CREATE PROC", "CREATE FUNCTION",
	"CREATE VIEW", "CREATE SCHEMA", "CREATE SEQUENCE", "CREATE ROLE",
	"CREATE SECURITY POLICY", "CREATE TYPE", "ALTER TABLE", "ALTER TRIGGER",
	"ALTER PROCEDURE", "ALTER PROC", "ALTER FUNCTION", "ALTER DATABASE",
	"DROP DATABASE", "DROP PROC", "DROP PROCEDURE", "DROP TRIGGER",
	"DROP FUNCTION", "CREATE DATABASE", "IF", "IF(", "ELSE", "WHILE",
	"UPDATE STATISTICS", "GRANT", "REVOKE", "DENY", "SET", "DECLARE",
	"PRINT", "RAISERROR", "CHECKPOINT", "DBCC", "USE", "BACKUP", "RESTORE",
	"DISK", "SELECT @", "EXEC", "EXECUTE",
}

var goSeparatorPattern = regexp.MustCompile(`(?im)^[ \t]*GO[ \t]*;?[ \t]*$`)

// eliminateProceduralBatches splits the script on GO batch separators and
// drops any batch whose first real (non-comment) statement starts with a
// token from proceduralSkipSet.
func eliminateProceduralBatches(script string) string {
	batches := goSeparatorPattern.Split(script, -1)
	var kept []string
	for _, batch := range batches {
		trimmed := strings.TrimSpace(batch)
		if trimmed == "" {
			continue
		}
		if isProceduralBatch(batch) {
			continue
		}
		trimmed = strings.TrimRight(trimmed, "; \t\r\n")
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ";\n") + ";"
}

func isProceduralBatch(batch string) bool {
	head := strings.ToUpper(strings.TrimSpace(firstLine(stripLeadingComments(batch))))
	for _, token := range proceduralSkipSet {
		if strings.HasPrefix(head, token) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		return s[:idx]
	}
	return s
}

// stripLeadingComments repeatedly peels line comments (`-- ...`) and block
// comments (`/* ... */`) off the front of a batch until the first real
// token is reached.
func stripLeadingComments(batch string) string {
	for {
		s := strings.TrimLeft(batch, " \t\r\n")
		switch {
		case strings.HasPrefix(s, "--"):
			idx := strings.IndexByte(s, '\n')
			if idx == -1 {
				return ""
			}
			batch = s[idx+1:]
		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s, "*/")
			if idx == -1 {
				return ""
			}
			batch = s[idx+2:]
		default:
			return s
		}
	}
}

var (
	insertKeywordPattern = regexp.MustCompile(`(?i)\bINSERT\b`)
	valueOpenPattern     = regexp.MustCompile(`(?i)\bVALUE\s*\(`)
	rowWrapperPattern    = regexp.MustCompile(`(?i)\bROW\s*\(`)
	getdatePattern       = regexp.MustCompile(`(?i)\bGETDATE\s*\(\s*\)`)
	newidPattern         = regexp.MustCompile(`(?i)\bNEWID\s*\(\s*\)`)
	identityArgsPattern  = regexp.MustCompile(`(?i)\bIDENTITY\s*\(\s*\d+\s*,\s*\d+\s*\)`)
	identityBarePattern  = regexp.MustCompile(`(?i)\bIDENTITY\b`)
	clusteredPattern     = regexp.MustCompile(`(?i)\b(NON)?CLUSTERED\b`)
	withRollupPattern    = regexp.MustCompile(`(?i)\bWITH\s+ROLLUP\b`)
	periodForPattern     = regexp.MustCompile(`(?i)\bPERIOD\s+FOR\s+SYSTEM_TIME\s*\([^)]*\)`)
	systemVersioning     = regexp.MustCompile(`(?i)\bWITH\s*\(\s*SYSTEM_VERSIONING[^)]*\)`)
	moneyLiteralPattern  = regexp.MustCompile(`(^|[^A-Za-z0-9_])\$(\d+(?:\.\d+)?)`)
	leftoverTokenPattern = regexp.MustCompile(`(?im)^[ \t]*(BEGIN|END|AS|ELSE|WITH\s+LOG|WITH\s+NOWAIT)[ \t]*;?[ \t]*$`)
	variableLinePattern  = regexp.MustCompile(`(?im)^[ \t]*(@\w+|:setvar\b).*$`)
)

// inlineRewriteRules are the T-SQL Phase B fixups applied after batch
// elimination: scalar function rewrites, literal rewrites, and stray
// keyword removal.
var inlineRewriteRules = []Rule{
	FuncRule{Transform: fixInsertValue},
	RegexRule{rowWrapperPattern, "("},
	RegexRule{getdatePattern, "CURRENT_TIMESTAMP"},
	RegexRule{newidPattern, uuidv4Expr},
	RegexRule{identityArgsPattern, ""},
	RegexRule{identityBarePattern, ""},
	RegexRule{clusteredPattern, ""},
	RegexRule{withRollupPattern, ""},
	RegexRule{periodForPattern, ""},
	RegexRule{systemVersioning, ""},
	RegexRule{moneyLiteralPattern, "$1$2"},
	FuncRule{Transform: rewriteConvert},
	FuncRule{Transform: stripAliasAssignments},
	RegexRule{leftoverTokenPattern, ""},
	RegexRule{variableLinePattern, ""},
}

// fixInsertValue rewrites `INSERT ... VALUE (` to `INSERT ... VALUES (`,
// scoped to the statement following each INSERT keyword so that a
// `VALUE(` elsewhere in the script (a column default, say) is untouched.
func fixInsertValue(script string) string {
	out := script
	offset := 0
	for {
		loc := insertKeywordPattern.FindStringIndex(out[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[1]
		window := out[start:]
		stmtEnd := strings.IndexByte(window, ';')
		if stmtEnd != -1 {
			window = window[:stmtEnd]
		}
		if m := valueOpenPattern.FindStringIndex(window); m != nil {
			abs := start + m[0]
			absEnd := start + m[1]
			out = out[:abs] + "VALUES (" + out[absEnd:]
			offset = abs + len("VALUES (")
			continue
		}
		offset = start
	}
	return out
}

// applyTSQLRules runs the T-SQL rule set: batch elimination (Phase A),
// then the inline scalar/literal rewrites (Phase B).
func applyTSQLRules(script string) string {
	script = eliminateProceduralBatches(script)
	script = applyRules(script, inlineRewriteRules)
	return script
}
