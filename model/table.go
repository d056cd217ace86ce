package model

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/entitymap/id"
)

// TableView resolves the physical table of a logical table, e.g. sharding rows by a key
type TableView interface {
	// ConfiguredTableName the logical table name the view was created for
	ConfiguredTableName() string
	// TableName resolves the physical table for condition, usually the business object
	TableName(ctx context.Context, condition interface{}) (string, error)
}

// Table the mapped table of a domain class, columns are kept in declaration order
type Table struct {
	Name          string
	BusinessName  string
	DynamicUpdate bool
	PKColName     string
	PKPropName    string
	Generator     id.Generator
	// IDStrategy the generation strategy Generator was resolved from
	IDStrategy id.GenerationType
	ShadowView TableView
	// CustomView set when the shadow view also resolves columns per business object
	CustomView TableView

	columns   []*Column
	byProp    map[string]*Column
	byColName map[string]*Column
}

// NewTable creates an empty table
func NewTable(name string) *Table {
	return &Table{
		Name:      name,
		byProp:    map[string]*Column{},
		byColName: map[string]*Column{},
	}
}

// AddColumn append a column, property names are unique within a table
func (t *Table) AddColumn(col *Column) error {
	if _, ok := t.byProp[col.PropName]; ok {
		return fmt.Errorf("%w: property %s of table %s", ErrDuplicateColumn, col.PropName, t.Name)
	}

	col.table = t
	t.columns = append(t.columns, col)
	t.byProp[col.PropName] = col
	t.byColName[strings.ToLower(col.ColName)] = col
	return nil
}

// RemoveColumn remove the column with the property name, returning it
func (t *Table) RemoveColumn(propName string) *Column {
	col, ok := t.byProp[propName]
	if !ok {
		return nil
	}

	for idx, c := range t.columns {
		if c == col {
			t.columns = append(t.columns[:idx], t.columns[idx+1:]...)
			break
		}
	}
	delete(t.byProp, propName)
	if t.byColName[strings.ToLower(col.ColName)] == col {
		delete(t.byColName, strings.ToLower(col.ColName))
	}
	col.table = nil
	return col
}

// RenameColumn change the physical name of the column with the property name, keeping its position and
// every other setting
func (t *Table) RenameColumn(propName, colName string) error {
	col, ok := t.byProp[propName]
	if !ok {
		return fmt.Errorf("%w: property %s of table %s", ErrColumnNotFound, propName, t.Name)
	}

	if t.byColName[strings.ToLower(col.ColName)] == col {
		delete(t.byColName, strings.ToLower(col.ColName))
	}
	col.ColName = colName
	t.byColName[strings.ToLower(colName)] = col

	if t.PKPropName == propName {
		t.PKColName = colName
	}
	return nil
}

// SetPrimaryKey mark the column as the primary key
func (t *Table) SetPrimaryKey(col *Column) {
	t.PKPropName, t.PKColName = col.PropName, col.ColName
}

// ColumnByPropName get the column mapped to the property, nil if none
func (t *Table) ColumnByPropName(propName string) *Column {
	return t.byProp[propName]
}

// ColumnByColName get the column by its physical name, case-insensitive
func (t *Table) ColumnByColName(colName string) *Column {
	return t.byColName[strings.ToLower(colName)]
}

// PKColumn the primary key column, nil if the table has none
func (t *Table) PKColumn() *Column {
	if t.PKPropName == "" {
		return nil
	}
	return t.byProp[t.PKPropName]
}

// Columns columns in declaration order
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// InsertColumns columns written by an insert, an id drawn by the database is left out
func (t *Table) InsertColumns() []*Column {
	var columns []*Column
	for _, col := range t.columns {
		if !col.AllowInsert {
			continue
		}
		if col.PropName == t.PKPropName && t.Generator != nil && !t.Generator.InsertBefore() {
			continue
		}
		columns = append(columns, col)
	}
	return columns
}

// UpdateColumns columns written by an update, the primary key is never updated
func (t *Table) UpdateColumns() []*Column {
	var columns []*Column
	for _, col := range t.columns {
		if col.AllowUpdate && col.PropName != t.PKPropName {
			columns = append(columns, col)
		}
	}
	return columns
}

// EagerColumns columns fetched together with the row
func (t *Table) EagerColumns() []*Column {
	var columns []*Column
	for _, col := range t.columns {
		if !col.Lazy && col.Loader == nil {
			columns = append(columns, col)
		}
	}
	return columns
}

// PhysicalName the table rows matching condition live in, the configured name without a shadow view
func (t *Table) PhysicalName(ctx context.Context, condition interface{}) (string, error) {
	if t.ShadowView == nil {
		return t.Name, nil
	}
	return t.ShadowView.TableName(ctx, condition)
}
