package datatype

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnsupportedType no data type is registered for a name or go type
	ErrUnsupportedType = errors.New("unsupported data type")
	// ErrNullValueNotSupported the data type can't substitute a sentinel for null
	ErrNullValueNotSupported = errors.New("null value is not supported")
	// ErrNullValueConfigured the null sentinel has already been set
	ErrNullValueConfigured = errors.New("null value already configured")
	// ErrUnsupportedOperation the data type doesn't implement the operation
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrInvalidValue the value can't be converted to the data type
	ErrInvalidValue = errors.New("invalid value")
	// ErrColumnNotFound the row doesn't contain the column
	ErrColumnNotFound = errors.New("column not found")
)

// Row a fetched result row, readable by column name or by 1-based column index
type Row interface {
	ByName(colName string) (interface{}, error)
	ByIndex(colIndex int) (interface{}, error)
}

// Params statement parameters, bound by 1-based parameter index
type Params interface {
	Bind(parameterIndex int, value interface{}) error
}

// SQLDataType converts values of one semantic type between go and the database
type SQLDataType interface {
	// GetSQLValue reads the column named colName from the row
	GetSQLValue(row Row, colName string) (interface{}, error)
	// GetSQLValueAt reads the column at colIndex from the row
	GetSQLValueAt(row Row, colIndex int) (interface{}, error)
	// SetSQLValue binds value, or its textual form, to the statement parameter
	SetSQLValue(params Params, parameterIndex int, value interface{}) error
	// GetFromString parses the textual form of a value
	GetFromString(value string) (interface{}, error)
	// SetNullToValue configures the sentinel bound in place of nil; nil means no sentinel
	SetNullToValue(nullValue *string) error
	// DataType the go type values are converted to
	DataType() reflect.Type
}

// nullSentinel holds the sentinel of a data type, configured at most once
type nullSentinel struct {
	configured bool
	value      interface{}
	set        bool
}

func (n *nullSentinel) configure(nullValue *string, parse func(string) (interface{}, error)) error {
	if n.configured {
		return ErrNullValueConfigured
	}
	n.configured = true

	if nullValue == nil {
		return nil
	}

	v, err := parse(*nullValue)
	if err != nil {
		return fmt.Errorf("%w: null value %q: %v", ErrInvalidValue, *nullValue, err)
	}
	n.value, n.set = v, true
	return nil
}

// bindNull binds the sentinel when one is configured, or a true NULL otherwise
func (n *nullSentinel) bindNull(params Params, parameterIndex int) error {
	if n.set {
		return params.Bind(parameterIndex, n.value)
	}
	return params.Bind(parameterIndex, nil)
}
