package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/entitymap/schema"
)

func TestLoadYAMLFile(t *testing.T) {
	doc, err := schema.LoadYAMLFile("testdata/classes.yaml")
	require.NoError(t, err)
	require.Len(t, doc.Classes, 3)
	require.Len(t, doc.Entities(), 2)

	article, ok := doc.Class("Article")
	require.True(t, ok)
	assert.Equal(t, "example.com/blog.Article", article.String())
	assert.Equal(t, schema.AccessField, article.Access)
	assert.Equal(t, &schema.Table{Name: "tb_article", DBGroup: "default", DynamicUpdate: true}, article.Table)
	assert.Equal(t, []schema.AttributeOverride{{Name: "createdAt", Column: "created_time"}}, article.AttributeOverrides)

	title := article.Fields[0]
	assert.Equal(t, "article_title", title.Column.Name)
	require.NotNil(t, title.Column.NullValue)
	assert.Equal(t, "", *title.Column.NullValue)
	assert.Equal(t, "[]Comment", article.Fields[1].TypeName)
	assert.False(t, article.Fields[2].Column.AllowInsert())
	assert.True(t, article.Fields[2].Column.AllowUpdate())

	base := article.MappedSuper()
	require.NotNil(t, base)
	assert.Equal(t, "BaseEntity", base.Name)
	assert.Equal(t, &schema.SequenceGenerator{
		Name: "seq_base", SequenceName: "seq_base",
		AllocationSize: schema.DefaultAllocationSize, InitialValue: intPtr(schema.DefaultSequenceInitialValue),
	}, base.SequenceGenerator)
	assert.Equal(t, &schema.GeneratedValue{Strategy: "SEQUENCE", Generator: "seq_base"}, base.Fields[0].GeneratedValue)

	comment, ok := doc.Class("Comment")
	require.True(t, ok)
	assert.Equal(t, schema.AccessProperty, comment.Access)

	var names []string
	for _, p := range schema.Properties(comment) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "approved"}, names)

	_, ok = doc.Class("Missing")
	assert.False(t, ok)
}

func TestLoadYAML_SequenceInitialValue(t *testing.T) {
	doc, err := schema.LoadYAML([]byte(`
classes:
  - name: Zero
    sequenceGenerator:
      name: seq_zero
      initialValue: 0
  - name: Unset
    sequenceGenerator:
      name: seq_unset
`))
	require.NoError(t, err)

	zero, ok := doc.Class("Zero")
	require.True(t, ok)
	assert.Equal(t, 0, zero.SequenceGenerator.Initial())
	assert.Contains(t, zero.SequenceGenerator.String(), "initialValue=0")

	unset, ok := doc.Class("Unset")
	require.True(t, ok)
	assert.Equal(t, schema.DefaultSequenceInitialValue, unset.SequenceGenerator.Initial())
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":               "classes: [",
		"no name":                 "classes:\n  - entity: true\n",
		"bad access":              "classes:\n  - name: A\n    access: getter\n",
		"unknown super":           "classes:\n  - name: A\n    extends: B\n",
		"cycle":                   "classes:\n  - name: A\n    extends: B\n  - name: B\n    extends: A\n",
		"duplicate":               "classes:\n  - name: A\n  - name: A\n",
		"member without name":     "classes:\n  - name: A\n    fields:\n      - id: true\n",
		"generator without name":  "classes:\n  - name: A\n    sequenceGenerator:\n      sequenceName: s\n",
		"override without column": "classes:\n  - name: A\n    attributeOverrides:\n      - name: a\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := schema.LoadYAML([]byte(data))
			assert.True(t, errors.Is(err, schema.ErrInvalidDescriptor), "%v", err)
		})
	}

	_, err := schema.LoadYAMLFile("testdata/missing.yaml")
	assert.Error(t, err)
}
