package warehouse

import "sre-dashboard/internal/domain"

// Normalize pairs the manifest's columns with each payload row. Values beyond
// the column count are dropped and missing trailing values become nil. A nil
// result yields an empty, non-nil row slice.
func Normalize(manifest *Manifest, result *ResultData) *domain.QueryResult {
	columns := manifest.ColumnNames()

	var data [][]any
	if result != nil {
		data = result.DataArray
	}

	rows := make([]map[string]any, 0, len(data))
	for _, values := range data {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
				continue
			}
			row[col] = nil
		}
		rows = append(rows, row)
	}

	return &domain.QueryResult{Columns: columns, Rows: rows}
}
