package entitymap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gorm.io/entitymap/datatype"
	"gorm.io/entitymap/dialect"
	"gorm.io/entitymap/id"
	"gorm.io/entitymap/interpreter"
	"gorm.io/entitymap/logger"
	"gorm.io/entitymap/schema"
)

// DBGroup a named database and the dialect spoken to it
type DBGroup struct {
	Name    string
	Dialect dialect.Dialect
	// DB nil until the group is connected
	DB *sql.DB
}

// Context owns every registry the mapping builder reads and writes: db groups, named id generators,
// shadow views, data loaders, interpreters and the callbacks run once it has fully started
type Context struct {
	Logger    logger.Interface
	DataTypes *datatype.Registry

	namer          schema.Namer
	defaultDBGroup string

	startMu      sync.Mutex
	mu           sync.RWMutex
	dbGroups     map[string]*DBGroup
	ownedDBs     []*sql.DB
	idGenerators IDGenerators
	businesses   map[string]*Business
	startFuncs   []id.StartFunc
	fullStarted  bool
	beanFactory  interpreter.BeanFactory

	shadowViewFactories  map[string]ShadowViewFactory
	customViewFactories  map[string]CustomViewFactory
	dataLoaderFactories  map[string]DataLoaderFactory
	interpreterFactories map[string]interpreter.Factory

	shadowViews  *ShadowViewManager
	dataLoaders  *DataLoaderManager
	interpreters *interpreter.Manager
}

// New initialize a context from config, db groups get their dialects but no connections
func New(config *Config) (*Context, error) {
	if config == nil {
		config = &Config{}
	}

	c := &Context{
		Logger:               config.logger(),
		DataTypes:            datatype.Default,
		namer:                config.namer(),
		defaultDBGroup:       config.DefaultDBGroup,
		dbGroups:             map[string]*DBGroup{},
		idGenerators:         IDGenerators{},
		businesses:           map[string]*Business{},
		shadowViewFactories:  map[string]ShadowViewFactory{},
		customViewFactories:  map[string]CustomViewFactory{},
		dataLoaderFactories:  map[string]DataLoaderFactory{},
		interpreterFactories: map[string]interpreter.Factory{},
		shadowViews:          &ShadowViewManager{},
		dataLoaders:          &DataLoaderManager{},
	}
	c.interpreters = interpreter.NewManager(c)

	if c.defaultDBGroup == "" {
		c.defaultDBGroup = DefaultDBGroupName
	}

	for _, group := range config.DBGroups {
		d, err := dialect.Get(group.Dialect)
		if err != nil {
			return nil, fmt.Errorf("%w: db group %s: %v", ErrInvalidConfig, group.Name, err)
		}
		c.AddDBGroup(&DBGroup{Name: group.Name, Dialect: d})
	}
	return c, nil
}

// Open initialize a context from config and connect every db group with a DSN
func Open(config *Config) (*Context, error) {
	if config == nil {
		config = &Config{}
	}

	c, err := New(config)
	if err != nil {
		return nil, err
	}

	for _, group := range config.DBGroups {
		if group.DSN == "" {
			continue
		}

		driver := group.Driver
		if driver == "" {
			driver = c.dbGroups[group.Name].Dialect.Name()
		}

		db, err := sql.Open(driver, group.DSN)
		if err != nil {
			c.Shutdown()
			return nil, fmt.Errorf("failed to open db group %s: %w", group.Name, err)
		}
		c.dbGroups[group.Name].DB = db
		c.ownedDBs = append(c.ownedDBs, db)
	}
	return c, nil
}

// AddDBGroup add or replace a db group
func (c *Context) AddDBGroup(group *DBGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbGroups[group.Name] = group
}

// DBGroup get a db group, an empty name means the default db group
func (c *Context) DBGroup(name string) (*DBGroup, bool) {
	if name == "" {
		name = c.defaultDBGroup
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	group, ok := c.dbGroups[name]
	return group, ok
}

// DefaultDBGroup name of the db group of businesses that don't name one
func (c *Context) DefaultDBGroup() string {
	return c.defaultDBGroup
}

// DB the connected database of a db group, implements id.Env
func (c *Context) DB(dbGroup string) (*sql.DB, error) {
	group, ok := c.DBGroup(dbGroup)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDBGroup, dbGroup)
	}
	if group.DB == nil {
		return nil, fmt.Errorf("db group %s is not connected", group.Name)
	}
	return group.DB, nil
}

// OnStarted run fn once the context has fully started, implements id.Registrar. fn runs right away
// when the context has already started.
func (c *Context) OnStarted(fn id.StartFunc) {
	c.mu.Lock()
	if !c.fullStarted {
		c.startFuncs = append(c.startFuncs, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ctx := context.Background()
	if err := fn(ctx, c); err != nil {
		c.Logger.Error(ctx, "failed to run startup callback: %v", err)
	}
}

// Start mark the context fully started: run the registered startup callbacks in order, then wire
// interpreters waiting for the context. A failing callback and the ones after it stay queued, the
// context is not started and Start may be called again.
func (c *Context) Start(ctx context.Context) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()

	for {
		c.mu.Lock()
		if c.fullStarted {
			c.mu.Unlock()
			return nil
		}
		if len(c.startFuncs) == 0 {
			c.fullStarted = true
			c.mu.Unlock()
			break
		}
		fn := c.startFuncs[0]
		c.mu.Unlock()

		if err := fn(ctx, c); err != nil {
			return err
		}

		c.mu.Lock()
		c.startFuncs = c.startFuncs[1:]
		c.mu.Unlock()
	}

	c.interpreters.OnFullStarted()
	c.Logger.Info(ctx, "context started with %d businesses", len(c.Businesses()))
	return nil
}

// FullStarted implements interpreter.Container
func (c *Context) FullStarted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fullStarted
}

// BeanFactory implements interpreter.Container
func (c *Context) BeanFactory() interpreter.BeanFactory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.beanFactory
}

// SetExtendedBeanFactory set the bean factory and wire it to interpreters waiting for it
func (c *Context) SetExtendedBeanFactory(f interpreter.BeanFactory) {
	c.mu.Lock()
	c.beanFactory = f
	c.mu.Unlock()

	c.interpreters.OnBeanFactorySet(f)
}

// Shutdown forget interpreters and close the databases connected by Open
func (c *Context) Shutdown() error {
	c.interpreters.Shutdown()

	c.mu.Lock()
	dbs := c.ownedDBs
	c.ownedDBs = nil
	c.mu.Unlock()

	var errs []error
	for _, db := range dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterShadowView register a shadow view factory referenced by name from table descriptors
func (c *Context) RegisterShadowView(name string, factory ShadowViewFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shadowViewFactories[name] = factory
}

// RegisterCustomView register a custom view factory referenced by name from table descriptors
func (c *Context) RegisterCustomView(name string, factory CustomViewFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customViewFactories[name] = factory
}

// RegisterDataLoader register a data loader factory referenced by name from column descriptors
func (c *Context) RegisterDataLoader(name string, factory DataLoaderFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dataLoaderFactories[name] = factory
}

// RegisterInterpreter register an interpreter factory referenced by name from business descriptors
func (c *Context) RegisterInterpreter(name string, factory interpreter.Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interpreterFactories[name] = factory
}

// ShadowViews shadow views of compiled tables
func (c *Context) ShadowViews() *ShadowViewManager {
	return c.shadowViews
}

// DataLoaders data loaders of compiled columns
func (c *Context) DataLoaders() *DataLoaderManager {
	return c.dataLoaders
}

// Interpreters interpreters of compiled businesses
func (c *Context) Interpreters() *interpreter.Manager {
	return c.interpreters
}

// GlobalIDGenerator get a named id generator registered by RegisterIDGenerators
func (c *Context) GlobalIDGenerator(name string) (schema.GeneratorDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.idGenerators[name]
	return g, ok
}

// RegisterIDGenerators register the named id generators declared on class and its mapped superclasses
func (c *Context) RegisterIDGenerators(ctx context.Context, class *schema.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ParseIDGenerators(ctx, c.Logger, c.idGenerators, class)
}

// Business get a compiled business by name
func (c *Context) Business(name string) (*Business, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.businesses[name]
	return b, ok
}

// Businesses compiled businesses
func (c *Context) Businesses() []*Business {
	c.mu.RLock()
	defer c.mu.RUnlock()

	businesses := make([]*Business, 0, len(c.businesses))
	for _, b := range c.businesses {
		businesses = append(businesses, b)
	}
	return businesses
}

// Compile register the named id generators of every class, then compile and register the business of
// every class. A class failing to compile aborts the compilation.
func (c *Context) Compile(ctx context.Context, classes ...*schema.Class) ([]*Mapping, error) {
	for _, class := range classes {
		c.RegisterIDGenerators(ctx, class)
	}

	mappings := make([]*Mapping, 0, len(classes))
	for _, class := range classes {
		m, err := c.parseDomainClass(ctx, "", "", class, true)
		if err != nil {
			return mappings, err
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// Register parse the struct tags of dest and compile it, see Compile
func (c *Context) Register(ctx context.Context, dest interface{}) (*Mapping, error) {
	class, err := schema.Parse(dest)
	if err != nil {
		return nil, err
	}

	mappings, err := c.Compile(ctx, class)
	if err != nil {
		return nil, err
	}
	return mappings[0], nil
}

func (c *Context) addBusiness(b *Business) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.businesses[b.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBusiness, b.Name)
	}
	c.businesses[b.Name] = b
	return nil
}

func (c *Context) removeBusiness(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.businesses, name)
}

func (c *Context) shadowViewFactory(name string) (ShadowViewFactory, CustomViewFactory) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shadowViewFactories[name], c.customViewFactories[name]
}

func (c *Context) dataLoaderFactory(name string) (DataLoaderFactory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.dataLoaderFactories[name]
	return f, ok
}

func (c *Context) interpreterFactory(name string) (interpreter.Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.interpreterFactories[name]
	return f, ok
}

var (
	_ id.Env                = (*Context)(nil)
	_ id.Registrar          = (*Context)(nil)
	_ interpreter.Container = (*Context)(nil)
)
