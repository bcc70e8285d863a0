package extractors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
)

type mssqlDriver struct{}

func (mssqlDriver) Open(dsn string) (Extractor, error) {
	return openSQLExtractor(dialect{
		driverName: "sqlserver",
		listTables: func(ctx context.Context, db *sql.DB) ([]TableMeta, error) {
			return listViaInformationSchema(ctx, db, "'dbo'")
		},
		sampleQuery: func(table string, limit int) string {
			// SQL Server has no LIMIT; TOP is the row bound.
			return fmt.Sprintf("SELECT TOP %d * FROM %s", limit, quoteIdent(table))
		},
	}, dsn)
}

func init() {
	Register("mssql", mssqlDriver{})
}
