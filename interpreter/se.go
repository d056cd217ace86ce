package interpreter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/entitymap/model"
)

// ErrUnsupportedCondition the interpreter can't explain the condition
var ErrUnsupportedCondition = errors.New("unsupported condition")

// SEInterpreter the default interpreter. It explains raw SQL fragments, and maps of property or
// column names to values joined with AND.
type SEInterpreter struct {
	table *model.Table
}

// NewSEInterpreter creates the default interpreter of a table
func NewSEInterpreter(table *model.Table) *SEInterpreter {
	return &SEInterpreter{table: table}
}

// Explain implements Interpreter
func (i *SEInterpreter) Explain(ctx context.Context, condition interface{}) (string, []interface{}, error) {
	switch c := condition.(type) {
	case nil:
		return "", nil, nil
	case string:
		return c, nil, nil
	case map[string]interface{}:
		return i.explainMap(c)
	}
	return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedCondition, condition)
}

func (i *SEInterpreter) explainMap(condition map[string]interface{}) (string, []interface{}, error) {
	keys := make([]string, 0, len(condition))
	for key := range condition {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		clauses = make([]string, 0, len(keys))
		args    = make([]interface{}, 0, len(keys))
	)
	for _, key := range keys {
		colName, err := i.columnName(key)
		if err != nil {
			return "", nil, err
		}

		if value := condition[key]; value == nil {
			clauses = append(clauses, colName+" IS NULL")
		} else {
			clauses = append(clauses, colName+" = ?")
			args = append(args, value)
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func (i *SEInterpreter) columnName(name string) (string, error) {
	if i.table == nil {
		return name, nil
	}
	if col := i.table.ColumnByPropName(name); col != nil {
		return col.ColName, nil
	}
	if col := i.table.ColumnByColName(name); col != nil {
		return col.ColName, nil
	}
	return "", fmt.Errorf("%w: unknown property %s of table %s", ErrUnsupportedCondition, name, i.table.Name)
}
