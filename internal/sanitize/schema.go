package sanitize

import (
	"regexp"
	"strings"
)

var (
	bracketSchemaBracketName = regexp.MustCompile(`\[\w+\]\.\[(\w+)\]`)
	bracketSchemaBareName    = regexp.MustCompile(`\[\w+\]\.(\w+)`)
	bareSchemaBracketCol     = regexp.MustCompile(`\b\w+\.\[(\w+)\]`)
	bracketedIdentifier      = regexp.MustCompile(`\[(\w+)\]`)
	dboQualifiedName         = regexp.MustCompile(`"dbo"\."(\w+)"`)
)

// unquoteIdentifiers applies the bracket/dotted-identifier rewrites from
// most to least specific: the schema-qualified forms must
// run before the bare `[name]` -> `"name"` rule, or the schema prefix
// would be folded into the quoted name instead of being dropped.
func unquoteIdentifiers(script string) string {
	script = bracketSchemaBracketName.ReplaceAllString(script, "[$1]")
	script = bracketSchemaBareName.ReplaceAllString(script, `"$1"`)
	script = bareSchemaBracketCol.ReplaceAllString(script, "[$1]")
	script = bracketedIdentifier.ReplaceAllString(script, `"$1"`)
	script = dboQualifiedName.ReplaceAllString(script, `"$1"`)
	return script
}

var recognizedTypeKeywords = []string{
	"int", "nvarchar", "datetime", "image", "ntext", "money", "smallint",
	"real", "bit", "tinyint", "float", "decimal", "char", "varchar",
	"date", "time",
}

var (
	geometryPattern     = regexp.MustCompile(`(?i)\bGEOMETRY\b`)
	geographyPattern    = regexp.MustCompile(`(?i)\bGEOGRAPHY\b`)
	hierarchyIDPattern  = regexp.MustCompile(`(?i)\bHIERARCHYID\b`)
	varcharMaxPattern   = regexp.MustCompile(`(?i)N?VARCHAR\s*\(\s*MAX\s*\)`)
	varbinaryMaxPattern = regexp.MustCompile(`(?i)VARBINARY\s*\(\s*MAX\s*\)`)
)

// normalizeTypes strips the quotes Step 2 puts around recognized type
// keywords (they got quoted only because they looked like bracketed
// identifiers) and maps T-SQL-only types onto their closest SQLite
// equivalent.
func normalizeTypes(script string) string {
	for _, t := range recognizedTypeKeywords {
		pattern := regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(t) + `"`)
		script = pattern.ReplaceAllString(script, t)
	}
	script = geometryPattern.ReplaceAllString(script, "TEXT")
	script = geographyPattern.ReplaceAllString(script, "TEXT")
	script = hierarchyIDPattern.ReplaceAllString(script, "TEXT")
	script = varcharMaxPattern.ReplaceAllString(script, "TEXT")
	script = varbinaryMaxPattern.ReplaceAllString(script, "BLOB")
	return script
}

var (
	engineOptionPattern    = regexp.MustCompile(`(?is)\)\s*ENGINE.*?;`)
	autoIncrementPattern   = regexp.MustCompile(`(?i)\s+AUTO_INCREMENT\b`)
	onUpdateTimestampPat   = regexp.MustCompile(`(?i)\s+ON\s+UPDATE\s+CURRENT_TIMESTAMP`)
	checkConstraintOffPat  = regexp.MustCompile(`(?i)CHECK\s+CONSTRAINT\s+\[.*?\]`)
	withOptionsPattern     = regexp.MustCompile(`(?is)\bWITH\s*\(.*?\)`)
	onPrimaryPattern       = regexp.MustCompile(`(?i)\)\s*ON\s+("PRIMARY"|\[PRIMARY\]|PRIMARY)`)
	generatedAlwaysRowPat  = regexp.MustCompile(`(?i)\bGENERATED\s+ALWAYS\s+AS\s+ROW\s+(START|END)\b`)
	nextValueForDefaultPat = regexp.MustCompile(`(?is)DEFAULT\s*\(\s*NEXT\s+VALUE\s+FOR\s+.*?\)`)
	includeColumnsPattern  = regexp.MustCompile(`(?is)\bINCLUDE\s*\(.*?\)`)
)

// stripTableOptions removes MySQL/T-SQL table- and index-level options
// that have no SQLite equivalent: storage engine clauses, identity/
// timestamp defaults expressed as options, filegroup placement, and
// system-versioning/temporal-table decorations.
func stripTableOptions(script string) string {
	script = engineOptionPattern.ReplaceAllString(script, ");")
	script = autoIncrementPattern.ReplaceAllString(script, "")
	script = onUpdateTimestampPat.ReplaceAllString(script, "")
	script = checkConstraintOffPat.ReplaceAllString(script, "")
	script = withOptionsPattern.ReplaceAllString(script, "")
	script = onPrimaryPattern.ReplaceAllString(script, ")")
	script = generatedAlwaysRowPat.ReplaceAllString(script, "")
	script = nextValueForDefaultPat.ReplaceAllString(script, "")
	script = includeColumnsPattern.ReplaceAllString(script, "")
	return script
}

var constraintLinePattern = regexp.MustCompile(`(?i)^\s*(UNIQUE\s+)?(KEY|INDEX|FULLTEXT\s+KEY|CONSTRAINT)\s+`)

// filterConstraintLines drops standalone KEY/INDEX/FULLTEXT KEY/CONSTRAINT
// declaration lines that SQLite's CREATE TABLE grammar doesn't accept,
// except PRIMARY KEY and FOREIGN KEY lines, which it does.
func filterConstraintLines(script string) string {
	lines := strings.Split(script, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if constraintLinePattern.MatchString(line) {
			upper := strings.ToUpper(line)
			if !strings.Contains(upper, "PRIMARY KEY") && !strings.Contains(upper, "FOREIGN KEY") {
				continue
			}
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

var (
	createIndexPattern     = regexp.MustCompile(`(?i)CREATE\s+(UNIQUE\s+)?(?:(?:NON)?CLUSTERED\s+)?INDEX\s+([\w"\[\]]+)\s+ON\s+([\w"\[\].]+)\s*(\([^()]*\))`)
	schemaQualifierPattern = regexp.MustCompile(`^("?\[?\w+\]?"?)\.`)
)

// canonicalizeCreateIndex rewrites CREATE [UNIQUE] [NON]CLUSTERED INDEX
// into CREATE [UNIQUE] INDEX IF NOT EXISTS, dropping the schema qualifier
// from the target table and prefixing the index name with the table name
// when it doesn't already start with it (SQLite has one flat index
// namespace per database, unlike T-SQL's per-table one).
//
// A statement already spelled `CREATE INDEX IF NOT EXISTS ...` does not
// match this pattern (the "IF" after INDEX breaks the `\s+ON\s+` that the
// pattern requires right after the index name), so it passes through
// unchanged without needing a negative lookahead RE2 doesn't support.
func canonicalizeCreateIndex(script string) string {
	return createIndexPattern.ReplaceAllStringFunc(script, func(m string) string {
		sub := createIndexPattern.FindStringSubmatch(m)
		unique := strings.TrimSpace(sub[1])
		idxName := sub[2]
		rawTable := sub[3]
		cols := sub[4]

		tableName := schemaQualifierPattern.ReplaceAllString(rawTable, "")
		cleanIdx := stripBracketsAndQuotes(idxName)
		cleanTbl := stripBracketsAndQuotes(tableName)

		newIdxName := idxName
		if !strings.HasPrefix(strings.ToLower(cleanIdx), strings.ToLower(cleanTbl)) {
			newIdxName = `"` + cleanTbl + "_" + cleanIdx + `"`
		}

		prefix := "CREATE "
		if unique != "" {
			prefix += "UNIQUE "
		}
		return prefix + "INDEX IF NOT EXISTS " + newIdxName + " ON " + tableName + " " + cols
	})
}

func stripBracketsAndQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "[", "")
	s = strings.ReplaceAll(s, "]", "")
	return s
}

var (
	dropIndexPattern = regexp.MustCompile(`(?im)^\s*DROP\s+INDEX\s+[\w"]+\.([\w"]+)`)
	dropTablePattern = regexp.MustCompile(`(?im)^[ \t]*DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?([^;]*);?`)
)

// canonicalizeDrops rewrites DROP INDEX schema.name into
// DROP INDEX IF EXISTS name, and splits a multi-table DROP TABLE into one
// DROP TABLE IF EXISTS statement per table.
func canonicalizeDrops(script string) string {
	script = dropIndexPattern.ReplaceAllString(script, "DROP INDEX IF EXISTS $1")
	script = dropTablePattern.ReplaceAllStringFunc(script, func(m string) string {
		sub := dropTablePattern.FindStringSubmatch(m)
		tables := strings.Split(sub[1], ",")
		var stmts []string
		for _, t := range tables {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			t = schemaQualifierPattern.ReplaceAllString(t, "")
			stmts = append(stmts, "DROP TABLE IF EXISTS "+t)
		}
		if len(stmts) == 0 {
			return m
		}
		return strings.Join(stmts, "; ") + ";"
	})
	return script
}

var (
	trailingCommaParenPattern = regexp.MustCompile(`,(\s*\))`)
	trailingCommaSemiPattern  = regexp.MustCompile(`,(\s*;)`)
	doubleCloseParenPattern   = regexp.MustCompile(`\)\s*[\r\n]+\s*\);`)
)

// syntacticCleanup removes the dangling commas and duplicated closing
// parens that earlier removals (CHECK blocks, KEY/INDEX lines, table
// options) leave behind.
func syntacticCleanup(script string) string {
	script = trailingCommaParenPattern.ReplaceAllString(script, ")")
	script = trailingCommaSemiPattern.ReplaceAllString(script, "$1")
	script = doubleCloseParenPattern.ReplaceAllString(script, ");")
	return script
}

// applySchemaRules is the Schema Rule Set: CHECK elision first (so the
// syntactic cleanup steps below can't mistake a bracket-class literal for
// a bracketed identifier), then identifier/type normalization, then
// option/constraint/index/drop cleanup, then a final syntactic pass.
func applySchemaRules(script string) string {
	script = elideCheckConstraints(script)
	script = removeComputedColumns(script)
	script = unquoteIdentifiers(script)
	script = normalizeTypes(script)
	script = stripTableOptions(script)
	script = filterConstraintLines(script)
	script = canonicalizeCreateIndex(script)
	script = canonicalizeDrops(script)
	script = syntacticCleanup(script)
	return script
}
