package model

import (
	"context"
	"reflect"

	"gorm.io/entitymap/datatype"
)

// ValueLoader loads the value of a column lazily or from outside of the table
type ValueLoader interface {
	LoadValue(ctx context.Context, owner interface{}) (interface{}, error)
}

// Column a mapped column of a table
type Column struct {
	ColName  string
	PropName string
	// TypeName the declared data type name, empty when inferred from GoType
	TypeName    string
	GoType      reflect.Type
	NullValue   *string
	DataType    datatype.SQLDataType
	AllowInsert bool
	AllowUpdate bool
	Lazy        bool
	Loader      ValueLoader
	table       *Table
}

// NewColumn creates a column that can be inserted and updated
func NewColumn(propName, colName string) *Column {
	return &Column{PropName: propName, ColName: colName, AllowInsert: true, AllowUpdate: true}
}

// Table the table owning the column, nil if it isn't added yet
func (c *Column) Table() *Table {
	return c.table
}

// IsPrimaryKey reports whether the column is the primary key of its table
func (c *Column) IsPrimaryKey() bool {
	return c.table != nil && c.table.PKPropName == c.PropName
}
