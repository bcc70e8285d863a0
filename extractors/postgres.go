package extractors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type postgresDriver struct{}

func (postgresDriver) Open(dsn string) (Extractor, error) {
	return openSQLExtractor(dialect{
		driverName: "pgx",
		listTables: func(ctx context.Context, db *sql.DB) ([]TableMeta, error) {
			return listViaInformationSchema(ctx, db, "'public'")
		},
		sampleQuery: func(table string, limit int) string {
			return fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), limit)
		},
	}, dsn)
}

func init() {
	Register("postgres", postgresDriver{})
}
