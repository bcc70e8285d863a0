package extractors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// dialect captures the per-family differences: which database/sql driver
// to open, how to enumerate tables and columns, and how to spell a
// row-limited sample query (TOP vs LIMIT).
type dialect struct {
	driverName  string
	listTables  func(ctx context.Context, db *sql.DB) ([]TableMeta, error)
	sampleQuery func(table string, limit int) string
}

type sqlExtractor struct {
	db *sql.DB
	d  dialect
}

func openSQLExtractor(d dialect, dsn string) (Extractor, error) {
	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("extractors: open %s: %w", d.driverName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("extractors: connect %s: %w", d.driverName, err)
	}
	return &sqlExtractor{db: db, d: d}, nil
}

func (e *sqlExtractor) ListTables(ctx context.Context) ([]TableMeta, error) {
	return e.d.listTables(ctx, e.db)
}

func (e *sqlExtractor) SampleRows(ctx context.Context, table string, limit int) ([][]any, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := e.db.QueryContext(ctx, e.d.sampleQuery(table, limit))
	if err != nil {
		return nil, fmt.Errorf("extractors: sample %s: %w", table, err)
	}
	defer rows.Close()
	return scanAllRows(rows)
}

func (e *sqlExtractor) Close() error {
	return e.db.Close()
}

func scanAllRows(rows *sql.Rows) ([][]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

// listViaInformationSchema covers both SQL Server and PostgreSQL, which
// share the standard INFORMATION_SCHEMA views; only the schema filter
// differs.
func listViaInformationSchema(ctx context.Context, db *sql.DB, schemaFilter string) ([]TableMeta, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = `+schemaFilter+`
		ORDER BY table_name, ordinal_position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableMeta
	byName := map[string]int{}
	for rows.Next() {
		var table, column, typ string
		if err := rows.Scan(&table, &column, &typ); err != nil {
			return nil, err
		}
		idx, ok := byName[table]
		if !ok {
			idx = len(tables)
			byName[table] = idx
			tables = append(tables, TableMeta{Name: table})
		}
		tables[idx].Columns = append(tables[idx].Columns, ColumnMeta{Name: column, Type: typ})
	}
	return tables, rows.Err()
}

// quoteIdent double-quotes an identifier, escaping embedded quotes, for
// use in sample queries where the table name comes from a caller.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
