package interpreter

import (
	"context"
	"sync"

	"gorm.io/entitymap/model"
)

// Interpreter explains business conditions as SQL where clauses
type Interpreter interface {
	Explain(ctx context.Context, condition interface{}) (string, []interface{}, error)
}

// Factory creates the interpreter of a business
type Factory func(business string) (Interpreter, error)

// BeanFactory container managed beans, e.g. services an interpreter depends on
type BeanFactory interface {
	GetBean(name string) (interface{}, error)
}

// Container the context interpreters are wired to
type Container interface {
	FullStarted() bool
	BeanFactory() BeanFactory
}

// ContextAware interpreters that need the container once it has fully started
type ContextAware interface {
	SetContext(c Container)
}

// BeanFactoryAware interpreters that need the bean factory once it is set
type BeanFactoryAware interface {
	SetBeanFactory(f BeanFactory)
}

type entry struct {
	interpreter      Interpreter
	contextWired     bool
	beanFactoryWired bool
}

// Manager creates interpreters and wires each of them to the container and to the bean factory
// exactly once, whether they are created before or after those become available
type Manager struct {
	mu           sync.Mutex
	container    Container
	interpreters []*entry
}

// NewManager creates a manager for a container that may not have started yet
func NewManager(container Container) *Manager {
	return &Manager{container: container}
}

// NewInterpreter creates the interpreter of a business with factory, or the default interpreter over
// the business table when factory is nil. Returns nil if neither is given.
func (m *Manager) NewInterpreter(business string, factory Factory, table *model.Table) (Interpreter, error) {
	if factory == nil && table == nil {
		return nil, nil
	}

	var (
		i   Interpreter
		err error
	)
	if factory != nil {
		if i, err = factory(business); err != nil {
			return nil, err
		}
	} else {
		i = NewSEInterpreter(table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := &entry{interpreter: i}
	m.interpreters = append(m.interpreters, e)

	if m.container.FullStarted() {
		m.wireContext(e)
	}
	if f := m.container.BeanFactory(); f != nil {
		m.wireBeanFactory(e, f)
	}
	return i, nil
}

// OnFullStarted wire the container to every interpreter that needs it
func (m *Manager) OnFullStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.interpreters {
		m.wireContext(e)
	}
}

// OnBeanFactorySet wire the bean factory to every interpreter that needs it
func (m *Manager) OnBeanFactorySet(f BeanFactory) {
	if f == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.interpreters {
		m.wireBeanFactory(e, f)
	}
}

// Interpreters created interpreters in creation order
func (m *Manager) Interpreters() []Interpreter {
	m.mu.Lock()
	defer m.mu.Unlock()

	interpreters := make([]Interpreter, 0, len(m.interpreters))
	for _, e := range m.interpreters {
		interpreters = append(interpreters, e.interpreter)
	}
	return interpreters
}

// Shutdown forget every created interpreter
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interpreters = nil
}

func (m *Manager) wireContext(e *entry) {
	if aware, ok := e.interpreter.(ContextAware); ok && !e.contextWired {
		aware.SetContext(m.container)
		e.contextWired = true
	}
}

func (m *Manager) wireBeanFactory(e *entry, f BeanFactory) {
	if aware, ok := e.interpreter.(BeanFactoryAware); ok && !e.beanFactoryWired {
		aware.SetBeanFactory(f)
		e.beanFactoryWired = true
	}
}
