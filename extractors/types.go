package extractors

import "context"

// ColumnMeta describes one column of an extracted table.
type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableMeta describes one table surfaced by an Extractor.
type TableMeta struct {
	Name    string       `json:"name"`
	Columns []ColumnMeta `json:"columns"`
}

// Extractor is a read-only view over a live database: it lists tables and
// fetches a few sample rows. It never infers schema or rewrites types;
// that is the mapping layer's job.
type Extractor interface {
	ListTables(ctx context.Context) ([]TableMeta, error)
	SampleRows(ctx context.Context, table string, limit int) ([][]any, error)
	Close() error
}

// Driver creates Extractors for one database family.
type Driver interface {
	Open(dsn string) (Extractor, error)
}
