package repository

import (
	"github.com/pkg/errors"

	"github.com/krew-solutions/querymap-go/querymap/session"
)

// scanRecords drains rows into generic records, one map per row. It closes
// the rows.
func scanRecords(rows session.Rows) ([]Record, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read result columns")
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrap(err, "unable to scan row")
		}

		record := make(Record, len(columns))
		for i, column := range columns {
			record[column] = values[i]
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
