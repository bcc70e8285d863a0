package importer

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunImportsSchemaThenData(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "a_schema.sql",
		"CREATE TABLE [dbo].[T] ([id] INT IDENTITY(1,1) PRIMARY KEY, [name] NVARCHAR(MAX));\nGO\n")
	data := writeFile(t, dir, "b_data.sql",
		"INSERT INTO T VALUES (1, N'alpha');\nINSERT INTO T VALUES (2, N'beta');\n")
	dbPath := filepath.Join(dir, "out.db")

	var messages []string
	job := &Job{
		Files:  []string{schema, data},
		DBPath: dbPath,
		Mode:   ModeOverwrite,
		Log:    func(msg string) { messages = append(messages, msg) },
	}
	summary, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Passed != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	db := openDB(t, dbPath)
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "T"`).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 2 {
		t.Errorf("row count = %d, want 2", n)
	}

	if len(messages) == 0 || !strings.HasPrefix(messages[0], "Processing 1/2:") {
		t.Errorf("expected Processing prefix on first log line, got %v", messages)
	}
	if !strings.HasPrefix(messages[len(messages)-1], "成功匯入資料庫:") {
		t.Errorf("expected final success line, got %q", messages[len(messages)-1])
	}
}

func TestImportedTableShapeMatchesDeclaration(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.sql",
		"CREATE TABLE [dbo].[T] ([id] INT IDENTITY(1,1) PRIMARY KEY, [name] NVARCHAR(MAX));\n")
	dbPath := filepath.Join(dir, "out.db")

	if _, err := (&Job{Files: []string{schema}, DBPath: dbPath, Mode: ModeOverwrite}).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	db := openDB(t, dbPath)
	rows, err := db.Query(`PRAGMA table_info("T")`)
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()

	type col struct {
		name, typ string
		pk        int
	}
	var cols []col
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, col{name, typ, pk})
	}
	want := []col{{"id", "INT", 1}, {"name", "TEXT", 0}}
	if len(cols) != 2 || cols[0] != want[0] || cols[1] != want[1] {
		t.Errorf("table_info = %+v, want %+v", cols, want)
	}
}

func TestRunFailedFileRollsBackAndContinues(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.sql", "CREATE TABLE t (i INT);\n")
	bad := writeFile(t, dir, "bad.sql", "INSERT INTO missing_table VALUES (1);\n")
	after := writeFile(t, dir, "after.sql", "INSERT INTO t VALUES (42);\n")
	dbPath := filepath.Join(dir, "out.db")

	job := &Job{Files: []string{schema, bad, after}, DBPath: dbPath, Mode: ModeOverwrite}
	summary, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Passed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Results[1].Status != StatusFailed || summary.Results[1].Err == "" {
		t.Errorf("expected failure recorded for bad.sql, got %+v", summary.Results[1])
	}

	// The failure must not have kept the schema from persisting nor blocked
	// the file after it.
	db := openDB(t, dbPath)
	var v int
	if err := db.QueryRow("SELECT i FROM t").Scan(&v); err != nil {
		t.Fatalf("expected t to exist with one row: %v", err)
	}
	if v != 42 {
		t.Errorf("v = %d, want 42", v)
	}
}

func TestRunSkipsProceduralOnlyFile(t *testing.T) {
	dir := t.TempDir()
	proc := writeFile(t, dir, "procs.sql",
		"CREATE PROCEDURE p AS SELECT 1;\nGO\nCREATE TRIGGER tr ON t AFTER INSERT AS BEGIN END;\nGO\n")
	tbl := writeFile(t, dir, "table.sql", "CREATE TABLE t (i INT);\n")
	dbPath := filepath.Join(dir, "out.db")

	job := &Job{Files: []string{proc, tbl}, DBPath: dbPath, Mode: ModeOverwrite}
	summary, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SkippedEmpty != 1 {
		t.Errorf("expected one skipped-empty file, got %+v", summary)
	}
	if summary.Passed != 1 {
		t.Errorf("expected the table file to pass, got %+v", summary)
	}
}

func TestRunWritesDebugArtifacts(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "dump.sql", "CREATE TABLE [x] (a INT);\n")
	dbPath := filepath.Join(dir, "out.db")

	job := &Job{Files: []string{schema}, DBPath: dbPath, Mode: ModeOverwrite}
	summary, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(dir, "debug_0_dump.sql.sql")
	if summary.Results[0].DebugPath != want {
		t.Errorf("debug path = %q, want %q", summary.Results[0].DebugPath, want)
	}
	content, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read debug artifact: %v", err)
	}
	if !strings.Contains(string(content), `"x"`) {
		t.Errorf("debug artifact should hold sanitized text, got %q", content)
	}
}

func TestRunDebugDirOverride(t *testing.T) {
	dir := t.TempDir()
	debugDir := filepath.Join(dir, "artifacts")
	schema := writeFile(t, dir, "dump.sql", "CREATE TABLE t (a INT);\n")
	dbPath := filepath.Join(dir, "out.db")

	job := &Job{Files: []string{schema}, DBPath: dbPath, Mode: ModeOverwrite, DebugDir: debugDir}
	summary, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(debugDir, "debug_0_dump.sql.sql")
	if summary.Results[0].DebugPath != want {
		t.Errorf("debug path = %q, want %q", summary.Results[0].DebugPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("debug artifact missing from override dir: %v", err)
	}
}

func TestRunAppendModeKeepsExistingRows(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.sql", "CREATE TABLE t (i INT);\nINSERT INTO t VALUES (1);\n")
	second := writeFile(t, dir, "second.sql", "INSERT INTO t VALUES (2);\n")
	dbPath := filepath.Join(dir, "out.db")

	if _, err := (&Job{Files: []string{first}, DBPath: dbPath, Mode: ModeOverwrite}).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := (&Job{Files: []string{second}, DBPath: dbPath, Mode: ModeAppend}).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	db := openDB(t, dbPath)
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM t").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("row count = %d, want 2 (append must not drop existing data)", n)
	}
}

func TestRegisteredRegexpFunction(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "out.db")
	db := openDB(t, dbPath)

	var matched int
	if err := db.QueryRow(`SELECT 'hello' REGEXP 'h.*o'`).Scan(&matched); err != nil {
		t.Fatalf("regexp query: %v", err)
	}
	if matched != 1 {
		t.Errorf("REGEXP = %d, want 1", matched)
	}
	if err := db.QueryRow(`SELECT 'hello' REGEXP '^x'`).Scan(&matched); err != nil {
		t.Fatalf("regexp query: %v", err)
	}
	if matched != 0 {
		t.Errorf("REGEXP = %d, want 0", matched)
	}
}

func TestReadTextFileLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	// 0xE9 is 'é' in Latin-1 and invalid as a standalone UTF-8 byte.
	path := filepath.Join(dir, "latin1.sql")
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := readTextFile(path)
	if err != nil {
		t.Fatalf("readTextFile: %v", err)
	}
	if got != "café" {
		t.Errorf("got %q, want %q", got, "café")
	}
}
