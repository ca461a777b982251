package domain

import "context"

// QueryResult is a normalized warehouse result. Every row map carries exactly
// the keys listed in Columns; values missing from the payload are nil.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// QueryExecutor runs one SQL statement against the warehouse.
// Implementations must be safe for concurrent use.
type QueryExecutor interface {
	ExecuteSQL(ctx context.Context, query string) (*QueryResult, error)
}

// TableRef names a table inside the configured catalog and schema.
type TableRef struct {
	Catalog string
	Schema  string
}

// Qualify returns catalog.schema.table.
func (t TableRef) Qualify(table string) string {
	return t.Catalog + "." + t.Schema + "." + table
}
