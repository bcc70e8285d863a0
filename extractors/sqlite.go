package extractors

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type sqliteDriver struct{}

func (sqliteDriver) Open(dsn string) (Extractor, error) {
	return openSQLExtractor(dialect{
		driverName: "sqlite",
		listTables: listSQLiteTables,
		sampleQuery: func(table string, limit int) string {
			return fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit)
		},
	}, dsn)
}

// listSQLiteTables walks sqlite_master and asks PRAGMA table_info for each
// table's columns; SQLite has no information_schema.
func listSQLiteTables(ctx context.Context, db *sql.DB) ([]TableMeta, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []TableMeta
	for _, name := range names {
		cols, err := sqliteColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, TableMeta{Name: name, Columns: cols})
	}
	return tables, nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, table string) ([]ColumnMeta, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnMeta
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnMeta{Name: name, Type: typ})
	}
	return cols, rows.Err()
}

func init() {
	Register("sqlite", sqliteDriver{})
}
