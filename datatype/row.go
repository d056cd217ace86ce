package datatype

import (
	"database/sql"
	"fmt"
	"strings"
)

// MapRow a Row backed by column names and the values scanned for them
type MapRow struct {
	columns []string
	values  []interface{}
}

// NewRow creates a Row from parallel column and value slices
func NewRow(columns []string, values []interface{}) *MapRow {
	return &MapRow{columns: columns, values: values}
}

// ScanRow scans the current row of rows into a MapRow
func ScanRow(rows *sql.Rows) (*MapRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(columns))
	dests := make([]interface{}, len(columns))
	for idx := range values {
		dests[idx] = &values[idx]
	}

	if err := rows.Scan(dests...); err != nil {
		return nil, err
	}
	return NewRow(columns, values), nil
}

// ByName implements Row, column names are matched case-insensitively
func (r *MapRow) ByName(colName string) (interface{}, error) {
	for idx, column := range r.columns {
		if strings.EqualFold(column, colName) {
			return r.values[idx], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
}

// ByIndex implements Row
func (r *MapRow) ByIndex(colIndex int) (interface{}, error) {
	if colIndex < 1 || colIndex > len(r.values) {
		return nil, fmt.Errorf("%w: index %d", ErrColumnNotFound, colIndex)
	}
	return r.values[colIndex-1], nil
}

// Args statement parameters collected for database/sql
type Args []interface{}

// Bind implements Params, growing the argument list as needed
func (a *Args) Bind(parameterIndex int, value interface{}) error {
	if parameterIndex < 1 {
		return fmt.Errorf("invalid parameter index %d", parameterIndex)
	}
	for len(*a) < parameterIndex {
		*a = append(*a, nil)
	}
	(*a)[parameterIndex-1] = value
	return nil
}
