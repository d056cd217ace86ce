package model_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/entitymap/id"
	"gorm.io/entitymap/model"
)

func newTable(t *testing.T) *model.Table {
	table := model.NewTable("tb_user")
	for _, name := range []string{"id", "name", "createdAt"} {
		require.NoError(t, table.AddColumn(model.NewColumn(name, name)))
	}
	table.SetPrimaryKey(table.ColumnByPropName("id"))
	return table
}

func propNames(columns []*model.Column) (names []string) {
	for _, col := range columns {
		names = append(names, col.PropName)
	}
	return
}

func TestTable_AddColumn(t *testing.T) {
	table := newTable(t)

	err := table.AddColumn(model.NewColumn("name", "user_name"))
	assert.True(t, errors.Is(err, model.ErrDuplicateColumn))
	assert.Equal(t, "name", table.ColumnByPropName("name").ColName)

	assert.Equal(t, []string{"id", "name", "createdAt"}, propNames(table.Columns()))
	assert.Equal(t, table, table.ColumnByPropName("id").Table())
	assert.True(t, table.PKColumn().IsPrimaryKey())
	assert.False(t, table.ColumnByPropName("name").IsPrimaryKey())
	assert.Equal(t, "createdAt", table.ColumnByColName("CREATEDAT").PropName)
}

func TestTable_RenameColumn(t *testing.T) {
	table := newTable(t)
	name := table.ColumnByPropName("name")
	name.Lazy = true
	name.AllowUpdate = false

	require.NoError(t, table.RenameColumn("name", "user_name"))

	assert.Same(t, name, table.ColumnByPropName("name"))
	assert.Equal(t, "user_name", name.ColName)
	assert.True(t, name.Lazy)
	assert.False(t, name.AllowUpdate)
	assert.Nil(t, table.ColumnByColName("name"))
	assert.Same(t, name, table.ColumnByColName("user_name"))
	assert.Equal(t, []string{"id", "name", "createdAt"}, propNames(table.Columns()))

	require.NoError(t, table.RenameColumn("id", "pk"))
	assert.Equal(t, "pk", table.PKColName)

	err := table.RenameColumn("foo", "bar")
	assert.True(t, errors.Is(err, model.ErrColumnNotFound))
	assert.Contains(t, err.Error(), "foo")
}

func TestTable_RemoveColumn(t *testing.T) {
	table := newTable(t)

	col := table.RemoveColumn("name")
	require.NotNil(t, col)
	assert.Nil(t, col.Table())
	assert.Nil(t, table.ColumnByPropName("name"))
	assert.Nil(t, table.ColumnByColName("name"))
	assert.Equal(t, []string{"id", "createdAt"}, propNames(table.Columns()))

	assert.Nil(t, table.RemoveColumn("name"))
}

func TestTable_ColumnSets(t *testing.T) {
	table := newTable(t)
	table.ColumnByPropName("name").AllowInsert = false
	table.ColumnByPropName("createdAt").AllowUpdate = false
	table.ColumnByPropName("createdAt").Lazy = true

	identity, err := id.New(id.KeyIdentity, id.Config{})
	require.NoError(t, err)
	table.Generator = identity

	assert.Equal(t, []string{"createdAt"}, propNames(table.InsertColumns()))
	assert.Equal(t, []string{"name"}, propNames(table.UpdateColumns()))
	assert.Equal(t, []string{"id", "name"}, propNames(table.EagerColumns()))

	hilo, err := id.New(id.KeyHiloMulti, id.Config{})
	require.NoError(t, err)
	table.Generator = hilo
	assert.Equal(t, []string{"id", "createdAt"}, propNames(table.InsertColumns()))
}

type shardView struct{ name string }

func (v shardView) ConfiguredTableName() string { return v.name }

func (v shardView) TableName(ctx context.Context, condition interface{}) (string, error) {
	return fmt.Sprintf("%s_%d", v.name, condition.(int)%4), nil
}

func TestTable_PhysicalName(t *testing.T) {
	table := newTable(t)

	name, err := table.PhysicalName(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "tb_user", name)

	table.ShadowView = shardView{name: table.Name}
	name, err = table.PhysicalName(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "tb_user_3", name)
}
