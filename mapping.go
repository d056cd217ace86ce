package entitymap

import (
	"gorm.io/entitymap/id"
	"gorm.io/entitymap/model"
)

// Mapping ties a business to its table and db group. It must not be changed once ParseDomainClass returns.
type Mapping struct {
	business *Business
	dbGroup  *DBGroup
	table    *model.Table
}

func (m *Mapping) Business() *Business {
	return m.business
}

func (m *Mapping) DBGroup() *DBGroup {
	return m.dbGroup
}

func (m *Mapping) Table() *model.Table {
	return m.table
}

// TableName implements id.Mapping
func (m *Mapping) TableName() string {
	return m.table.Name
}

// PKColumnName implements id.Mapping
func (m *Mapping) PKColumnName() string {
	return m.table.PKColName
}

// DBGroupName implements id.Mapping
func (m *Mapping) DBGroupName() string {
	return m.dbGroup.Name
}

// ColumnByPropName get the column mapped to the property, nil if none
func (m *Mapping) ColumnByPropName(propName string) *model.Column {
	return m.table.ColumnByPropName(propName)
}

// ColumnByColName get the column by its physical name, case-insensitive
func (m *Mapping) ColumnByColName(colName string) *model.Column {
	return m.table.ColumnByColName(colName)
}

var _ id.Mapping = (*Mapping)(nil)
