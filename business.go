package entitymap

import (
	"gorm.io/entitymap/interpreter"
	"gorm.io/entitymap/model"
	"gorm.io/entitymap/schema"
)

// Business a domain class registered under a business name
type Business struct {
	Name        string
	DBGroup     string
	Class       *schema.Class
	Interpreter interpreter.Interpreter

	mapping *Mapping
}

// Mapping the compiled mapping of the business
func (b *Business) Mapping() *Mapping {
	return b.mapping
}

// Table the mapped table of the business
func (b *Business) Table() *model.Table {
	return b.mapping.table
}
