package entitymap_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/entitymap"
	"gorm.io/entitymap/dialect"
	"gorm.io/entitymap/id"
	"gorm.io/entitymap/interpreter"
	"gorm.io/entitymap/model"
	"gorm.io/entitymap/schema"
)

type monthView struct {
	table   string
	mapping *entitymap.Mapping
}

func (v *monthView) ConfiguredTableName() string {
	return v.table
}

func (v *monthView) TableName(ctx context.Context, condition interface{}) (string, error) {
	if t, ok := condition.(time.Time); ok {
		return v.table + "_" + t.Format("200601"), nil
	}
	return v.table, nil
}

type summaryLoader struct {
	mapping          *entitymap.Mapping
	table            *model.Table
	propName, column string
}

func (l *summaryLoader) LoadValue(ctx context.Context, owner interface{}) (interface{}, error) {
	return "summary of " + l.column, nil
}

type searchInterpreter struct {
	business    string
	container   interpreter.Container
	beanFactory interpreter.BeanFactory
	wired       int
}

func (i *searchInterpreter) Explain(ctx context.Context, condition interface{}) (string, []interface{}, error) {
	return "MATCH(?)", []interface{}{condition}, nil
}

func (i *searchInterpreter) SetContext(c interpreter.Container) {
	i.container = c
	i.wired++
}

func (i *searchInterpreter) SetBeanFactory(f interpreter.BeanFactory) {
	i.beanFactory = f
	i.wired++
}

type beans map[string]interface{}

func (b beans) GetBean(name string) (interface{}, error) {
	return b[name], nil
}

func TestContext_Defaults(t *testing.T) {
	c, err := entitymap.New(nil)
	require.NoError(t, err)

	assert.Equal(t, entitymap.DefaultDBGroupName, c.DefaultDBGroup())
	_, ok := c.DBGroup("")
	assert.False(t, ok)
	assert.False(t, c.FullStarted())
	assert.Nil(t, c.BeanFactory())

	_, err = c.DB("")
	assert.True(t, errors.Is(err, entitymap.ErrUnknownDBGroup))

	_, err = entitymap.New(&entitymap.Config{DBGroups: []entitymap.DBGroupConfig{{Name: "main", Dialect: "db2"}}})
	assert.True(t, errors.Is(err, entitymap.ErrInvalidConfig))
}

func TestContext_ShadowView(t *testing.T) {
	doc := loadClasses(t, `
classes:
  - name: Log
    entity: true
    business: {name: log}
    table: {name: tb_log, shadow: by_month}
    fields:
      - {name: id, type: int64, id: true}
  - name: Event
    entity: true
    business: {name: event}
    table: {name: tb_event, shadow: by_owner}
    fields:
      - {name: id, type: int64, id: true}
`)
	c := newContext(t, nil)
	c.RegisterShadowView("by_month", func(tableName string) (model.TableView, error) {
		return &monthView{table: tableName}, nil
	})
	c.RegisterCustomView("by_owner", func(tableName string, m *entitymap.Mapping) (model.TableView, error) {
		return &monthView{table: tableName, mapping: m}, nil
	})

	m, err := c.ParseDomainClass(context.Background(), "", "", class(t, doc, "Log"))
	require.NoError(t, err)
	table := m.Table()
	require.NotNil(t, table.ShadowView)
	assert.Nil(t, table.CustomView)
	assert.Equal(t, "tb_log", table.ShadowView.ConfiguredTableName())
	assert.Same(t, table.ShadowView, c.ShadowViews().ByTableName("tb_log"))

	name, err := table.PhysicalName(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "tb_log_202403", name)

	m, err = c.ParseDomainClass(context.Background(), "", "", class(t, doc, "Event"))
	require.NoError(t, err)
	table = m.Table()
	require.NotNil(t, table.CustomView)
	assert.Same(t, table.CustomView, table.ShadowView)
	assert.Same(t, m, table.CustomView.(*monthView).mapping)
	assert.Len(t, c.ShadowViews().Views(), 2)
	assert.Nil(t, c.ShadowViews().ByTableName("tb_other"))
}

func TestContext_DataLoader(t *testing.T) {
	doc := loadClasses(t, `
classes:
  - name: Article
    entity: true
    business: {name: article}
    fields:
      - {name: id, type: int64, id: true}
      - name: summary
        type: string
        lazy: true
        column: {name: summary_text, loader: summary}
`)
	c := newContext(t, nil)
	c.RegisterDataLoader("summary", func(m *entitymap.Mapping, table *model.Table, propName, colName string) (model.ValueLoader, error) {
		return &summaryLoader{mapping: m, table: table, propName: propName, column: colName}, nil
	})

	m, err := c.ParseDomainClass(context.Background(), "", "", class(t, doc, "Article"))
	require.NoError(t, err)

	col := m.ColumnByPropName("summary")
	require.NotNil(t, col)
	loader, ok := col.Loader.(*summaryLoader)
	require.True(t, ok)
	assert.Same(t, m, loader.mapping)
	assert.Same(t, m.Table(), loader.table)
	assert.Equal(t, "summary", loader.propName)
	assert.Equal(t, "summary_text", loader.column)
	assert.Equal(t, []model.ValueLoader{loader}, c.DataLoaders().Loaders())
	assert.NotContains(t, m.Table().EagerColumns(), col)

	v, err := col.Loader.LoadValue(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "summary of summary_text", v)
}

func TestContext_Interpreters(t *testing.T) {
	doc := loadClasses(t, `
classes:
  - name: Article
    entity: true
    business: {name: article, interpreter: search}
    fields:
      - {name: id, type: int64, id: true}
  - name: Comment
    entity: true
    business: {name: comment}
    fields:
      - {name: id, type: int64, id: true}
      - {name: body, type: string, column: {name: comment_body}}
`)
	c := newContext(t, nil)

	var created []*searchInterpreter
	c.RegisterInterpreter("search", func(business string) (interpreter.Interpreter, error) {
		i := &searchInterpreter{business: business}
		created = append(created, i)
		return i, nil
	})

	mappings, err := c.Compile(context.Background(), class(t, doc, "Article"), class(t, doc, "Comment"))
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	require.Len(t, created, 1)

	search := created[0]
	assert.Equal(t, "article", search.business)
	assert.Same(t, search, mappings[0].Business().Interpreter)
	assert.Nil(t, search.container)

	se, ok := mappings[1].Business().Interpreter.(*interpreter.SEInterpreter)
	require.True(t, ok)
	where, args, err := se.Explain(context.Background(), map[string]interface{}{"body": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "comment_body = ?", where)
	assert.Equal(t, []interface{}{"hi"}, args)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.FullStarted())
	assert.Same(t, c, search.container)

	f := beans{"index": "articles"}
	c.SetExtendedBeanFactory(f)
	assert.Equal(t, f, search.beanFactory)
	assert.Equal(t, f, c.BeanFactory())

	require.NoError(t, c.Start(context.Background()))
	c.SetExtendedBeanFactory(f)
	assert.Equal(t, 2, search.wired)

	assert.Len(t, c.Interpreters().Interpreters(), 2)
	require.NoError(t, c.Shutdown())
	assert.Empty(t, c.Interpreters().Interpreters())
}

func TestContext_StartBindsGenerators(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	doc := loadClasses(t, `
classes:
  - name: Order
    entity: true
    business: {name: order}
    table: {dbGroup: pg}
    sequenceGenerator: {name: seq_order, sequenceName: seq_order, allocationSize: 1}
    fields:
      - name: id
        type: int64
        id: true
        generatedValue: {strategy: SEQUENCE, generator: seq_order}
`)
	c := newContext(t, nil)
	postgres, err := dialect.Get("postgres")
	require.NoError(t, err)
	c.AddDBGroup(&entitymap.DBGroup{Name: "pg", Dialect: postgres, DB: db})

	mappings, err := c.Compile(context.Background(), doc.Entities()...)
	require.NoError(t, err)
	require.Len(t, mappings, 1)

	generator := mappings[0].Table().Generator
	_, err = generator.Generate(context.Background())
	assert.True(t, errors.Is(err, id.ErrNotStarted))

	require.NoError(t, c.Start(context.Background()))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval('seq_order')")).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(7))
	v, err := generator.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.NoError(t, mock.ExpectationsWereMet())

	b, ok := c.Business("order")
	require.True(t, ok)
	assert.Same(t, mappings[0], b.Mapping())
	assert.Same(t, mappings[0].Table(), b.Table())

	_, err = c.Compile(context.Background(), doc.Entities()...)
	assert.True(t, errors.Is(err, entitymap.ErrDuplicateBusiness))
}

func TestContext_StartFailure(t *testing.T) {
	doc := loadClasses(t, `
classes:
  - name: Order
    entity: true
    business: {name: order}
    fields:
      - name: id
        type: int64
        id: true
        generatedValue: {strategy: TABLE}
        tableGenerator: {name: gen_order}
`)
	c := newContext(t, nil)

	_, err := c.Compile(context.Background(), doc.Entities()...)
	require.NoError(t, err)

	err = c.Start(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
	assert.False(t, c.FullStarted())

	err = c.Start(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
	assert.False(t, c.FullStarted())

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mysql, err := dialect.Get("mysql")
	require.NoError(t, err)
	c.AddDBGroup(&entitymap.DBGroup{Name: "default", Dialect: mysql, DB: db})

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.FullStarted())
}

type Customer struct {
	schema.Entity `orm:"business:customer;table:tb_customer;generated:identity"`
	ID            int64  `orm:"id"`
	Name          string `orm:"column:customer_name"`
	Level         int
}

func TestContext_Register(t *testing.T) {
	c := newContext(t, nil)

	m, err := c.Register(context.Background(), &Customer{})
	require.NoError(t, err)
	assert.Equal(t, "tb_customer", m.TableName())
	assert.Equal(t, []string{"ID", "customer_name", "Level"}, columnNames(m.Table()))
	assert.Equal(t, id.Identity, m.Table().IDStrategy)
	assert.False(t, m.Table().Generator.InsertBefore())

	var inserted []string
	for _, col := range m.Table().InsertColumns() {
		inserted = append(inserted, col.ColName)
	}
	assert.Equal(t, []string{"customer_name", "Level"}, inserted)
}
