package model

import "errors"

var (
	// ErrDuplicateColumn a column with the same property name is already in the table
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrColumnNotFound no column has the property name
	ErrColumnNotFound = errors.New("column not found")
)
