package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/entitymap"
	"gorm.io/entitymap/cli"
	"gorm.io/entitymap/schema"
)

func TestParseFields(t *testing.T) {
	fields, err := cli.ParseFields("name:string, email:string,age:int")
	require.NoError(t, err)
	assert.Equal(t, []cli.FieldInfo{{"name", "string"}, {"email", "string"}, {"age", "int"}}, fields)

	for _, attr := range []string{"name", "name:string:x", ":string", "name:"} {
		_, err := cli.ParseFields(attr)
		assert.Error(t, err, attr)
	}
}

func TestWriteDescriptors(t *testing.T) {
	class, err := cli.NewEntity("User", "", []cli.FieldInfo{{"name", "string"}, {"createdAt", "datetime"}})
	require.NoError(t, err)

	overrides, err := cli.ParseOverrides("name:user_name,createdAt:created")
	require.NoError(t, err)
	cli.AddOverrides(class, overrides)
	cli.AddOverrides(class, []schema.AttributeOverride{{Name: "createdAt", Column: "created_time"}})
	assert.Equal(t, []schema.AttributeOverride{
		{Name: "name", Column: "user_name"},
		{Name: "createdAt", Column: "created_time"},
	}, class.AttributeOverrides)

	path := filepath.Join(t.TempDir(), "schema", "user.yaml")
	require.NoError(t, cli.WriteDescriptors(path, class))

	doc, err := schema.LoadYAMLFile(path)
	require.NoError(t, err)
	user, ok := doc.Class("User")
	require.True(t, ok)
	assert.True(t, user.Entity)
	assert.Equal(t, "user", user.Business.Name)
	require.Len(t, user.Fields, 3)
	assert.True(t, user.Fields[0].ID)
	assert.Equal(t, "datetime", user.Fields[2].TypeName)

	_, err = cli.NewEntity("User", "", []cli.FieldInfo{{"id", "string"}})
	assert.Error(t, err)
	_, err = cli.NewEntity("", "", nil)
	assert.Error(t, err)
	_, err = cli.ParseOverrides("name")
	assert.Error(t, err)
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entitymap.yaml")
	require.NoError(t, cli.GenerateConfig(path, "postgres", "host=localhost dbname=app"))

	config, err := entitymap.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, entitymap.DefaultDBGroupName, config.DefaultDBGroup)
	assert.Equal(t, []entitymap.DBGroupConfig{
		{Name: entitymap.DefaultDBGroupName, Dialect: "postgres", DSN: "host=localhost dbname=app"},
	}, config.DBGroups)

	assert.Error(t, cli.GenerateConfig(path, "db2", ""))
}

func TestPrintMapping(t *testing.T) {
	doc, err := schema.LoadYAML([]byte(`
classes:
  - name: User
    entity: true
    business: {name: user}
    fields:
      - {name: id, type: int64, id: true}
      - {name: name, type: string, column: {name: user_name, updatable: false}}
      - {name: bio, type: text, lazy: true}
`))
	require.NoError(t, err)

	c, err := entitymap.New(&entitymap.Config{DBGroups: []entitymap.DBGroupConfig{{Name: "default", Dialect: "sqlite3"}}})
	require.NoError(t, err)
	mappings, err := c.Compile(context.Background(), doc.Entities()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cli.PrintMapping(&buf, mappings[0]))

	out := buf.String()
	assert.Contains(t, out, "business user: table User, db group default, id AUTO (identity)")
	assert.Regexp(t, `id\s+id\s+int64\s+pk`, out)
	assert.Regexp(t, `name\s+user_name\s+string\s+no-update`, out)
	assert.Regexp(t, `bio\s+bio\s+text\s+lazy`, out)
}
