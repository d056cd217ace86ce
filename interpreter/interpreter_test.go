package interpreter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/entitymap/interpreter"
	"gorm.io/entitymap/model"
)

type container struct {
	started     bool
	beanFactory interpreter.BeanFactory
}

func (c *container) FullStarted() bool                   { return c.started }
func (c *container) BeanFactory() interpreter.BeanFactory { return c.beanFactory }

type beans map[string]interface{}

func (b beans) GetBean(name string) (interface{}, error) { return b[name], nil }

type awareInterpreter struct {
	interpreter.SEInterpreter
	contexts      int
	beanFactories int
}

func (i *awareInterpreter) SetContext(c interpreter.Container)       { i.contexts++ }
func (i *awareInterpreter) SetBeanFactory(f interpreter.BeanFactory) { i.beanFactories++ }

func awareFactory(business string) (interpreter.Interpreter, error) {
	return &awareInterpreter{}, nil
}

func TestManager_NewInterpreter(t *testing.T) {
	m := interpreter.NewManager(&container{})

	i, err := m.NewInterpreter("user", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, i)
	assert.Empty(t, m.Interpreters())

	i, err = m.NewInterpreter("user", nil, model.NewTable("tb_user"))
	require.NoError(t, err)
	assert.IsType(t, &interpreter.SEInterpreter{}, i)

	i, err = m.NewInterpreter("order", awareFactory, nil)
	require.NoError(t, err)
	assert.IsType(t, &awareInterpreter{}, i)
	assert.Len(t, m.Interpreters(), 2)

	failing := func(business string) (interpreter.Interpreter, error) {
		return nil, errors.New("no interpreter for " + business)
	}
	_, err = m.NewInterpreter("blog", failing, nil)
	assert.EqualError(t, err, "no interpreter for blog")
	assert.Len(t, m.Interpreters(), 2)
}

func TestManager_WiresExactlyOnce(t *testing.T) {
	c := &container{}
	m := interpreter.NewManager(c)

	// created before the container started and before the bean factory is set
	i, err := m.NewInterpreter("early", awareFactory, nil)
	require.NoError(t, err)
	early := i.(*awareInterpreter)
	assert.Equal(t, 0, early.contexts)
	assert.Equal(t, 0, early.beanFactories)

	c.started = true
	m.OnFullStarted()
	c.beanFactory = beans{}
	m.OnBeanFactorySet(c.beanFactory)

	// created after both are available
	i, err = m.NewInterpreter("late", awareFactory, nil)
	require.NoError(t, err)
	late := i.(*awareInterpreter)

	// broadcasts again
	m.OnFullStarted()
	m.OnBeanFactorySet(c.beanFactory)

	for _, aware := range []*awareInterpreter{early, late} {
		assert.Equal(t, 1, aware.contexts)
		assert.Equal(t, 1, aware.beanFactories)
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := interpreter.NewManager(&container{})
	i, err := m.NewInterpreter("early", awareFactory, nil)
	require.NoError(t, err)

	m.Shutdown()
	assert.Empty(t, m.Interpreters())

	m.OnFullStarted()
	assert.Equal(t, 0, i.(*awareInterpreter).contexts)
}

func TestSEInterpreter_Explain(t *testing.T) {
	table := model.NewTable("tb_user")
	require.NoError(t, table.AddColumn(model.NewColumn("name", "user_name")))
	require.NoError(t, table.AddColumn(model.NewColumn("age", "age")))
	require.NoError(t, table.AddColumn(model.NewColumn("deletedAt", "deleted_at")))

	se := interpreter.NewSEInterpreter(table)
	ctx := context.Background()

	where, args, err := se.Explain(ctx, map[string]interface{}{"name": "jinzhu", "age": 18, "deleted_at": nil})
	require.NoError(t, err)
	assert.Equal(t, "age = ? AND deleted_at IS NULL AND user_name = ?", where)
	assert.Equal(t, []interface{}{18, "jinzhu"}, args)

	where, args, err = se.Explain(ctx, "age > 10")
	require.NoError(t, err)
	assert.Equal(t, "age > 10", where)
	assert.Empty(t, args)

	where, _, err = se.Explain(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, where)

	_, _, err = se.Explain(ctx, map[string]interface{}{"email": "a@b.c"})
	assert.True(t, errors.Is(err, interpreter.ErrUnsupportedCondition))

	_, _, err = se.Explain(ctx, 42)
	assert.True(t, errors.Is(err, interpreter.ErrUnsupportedCondition))
}
