package entitymap

import (
	"context"
	"fmt"

	"gorm.io/entitymap/id"
	"gorm.io/entitymap/interpreter"
	"gorm.io/entitymap/logger"
	"gorm.io/entitymap/model"
	"gorm.io/entitymap/schema"
)

// IDGenerators named id generator descriptors shared by every class
type IDGenerators map[string]schema.GeneratorDescriptor

// builder compiles one domain class. Registrations into the context are staged and only committed
// once the whole class compiled, so a failing class leaves nothing behind.
type builder struct {
	ctx      context.Context
	c        *Context
	logger   logger.Interface
	namer    schema.Namer
	business *Business
	mapping  *Mapping
	table    *model.Table

	interpreterFactory interpreter.Factory
	shadowView         model.TableView
	loaders            []model.ValueLoader
	startFuncs         []id.StartFunc
}

// OnStarted implements id.Registrar for generators created while compiling
func (b *builder) OnStarted(fn id.StartFunc) {
	b.startFuncs = append(b.startFuncs, fn)
}

// ParseDomainClass compile the mapping of an entity class. Non-empty dbGroupName and businessName take
// precedence over the names declared by the class.
func (c *Context) ParseDomainClass(ctx context.Context, dbGroupName, businessName string, class *schema.Class) (*Mapping, error) {
	return c.parseDomainClass(ctx, dbGroupName, businessName, class, false)
}

// parseDomainClass with register set also claims the business name, a duplicate fails before anything
// of the class is published
func (c *Context) parseDomainClass(ctx context.Context, dbGroupName, businessName string, class *schema.Class, register bool) (*Mapping, error) {
	if class == nil || !class.Entity {
		return nil, fmt.Errorf("%w: %v", ErrNotEntity, class)
	}

	info := &entityTable{}
	info.resolve(class)

	if dbGroupName == "" {
		dbGroupName = info.dbGroup
	}
	if businessName == "" {
		businessName = info.businessName
	}
	if businessName == "" {
		return nil, fmt.Errorf("%w: %v", ErrBusinessNameRequired, class)
	}

	tableName := info.tableName
	if tableName == "" {
		tableName = c.namer.TableName(class.Name)
	}

	dbGroup, ok := c.DBGroup(dbGroupName)
	if !ok {
		if dbGroupName == "" {
			dbGroupName = c.defaultDBGroup
		}
		return nil, fmt.Errorf("%w: %s of business %s", ErrUnknownDBGroup, dbGroupName, businessName)
	}

	table := model.NewTable(tableName)
	table.BusinessName = businessName
	table.DynamicUpdate = info.dynamicUpdate

	b := &builder{
		ctx:      ctx,
		c:        c,
		logger:   c.Logger,
		namer:    c.namer,
		business: &Business{Name: businessName, DBGroup: dbGroup.Name, Class: class},
		table:    table,
	}
	b.mapping = &Mapping{business: b.business, dbGroup: dbGroup, table: table}
	b.business.mapping = b.mapping

	if info.interpreter != "" {
		factory, ok := c.interpreterFactory(info.interpreter)
		if !ok {
			return nil, fmt.Errorf("%w: %s of business %s", ErrUnknownInterpreter, info.interpreter, businessName)
		}
		b.interpreterFactory = factory
	}

	if info.shadow != "" {
		if err := b.attachShadowView(info.shadow); err != nil {
			return nil, err
		}
	}

	if err := b.parseClassForAttributes(class); err != nil {
		return nil, err
	}

	if table.Generator == nil {
		return nil, fmt.Errorf("%w: business %s of %v", ErrPrimaryKeyRequired, businessName, class)
	}

	if err := b.commit(register); err != nil {
		return nil, err
	}

	b.logger.Info(ctx, "business %s mapped to table %s of db group %s with %d columns",
		businessName, table.Name, dbGroup.Name, len(table.Columns()))
	return b.mapping, nil
}

func (b *builder) attachShadowView(name string) error {
	shadowFactory, customFactory := b.c.shadowViewFactory(name)

	var (
		view model.TableView
		err  error
	)
	switch {
	case customFactory != nil:
		if view, err = customFactory(b.table.Name, b.mapping); err != nil {
			return fmt.Errorf("failed to create custom view %s of table %s: %w", name, b.table.Name, err)
		}
		b.table.CustomView = view
	case shadowFactory != nil:
		if view, err = shadowFactory(b.table.Name); err != nil {
			return fmt.Errorf("failed to create shadow view %s of table %s: %w", name, b.table.Name, err)
		}
	default:
		return fmt.Errorf("%w: %s of table %s", ErrUnknownShadowView, name, b.table.Name)
	}

	b.table.ShadowView = view
	b.shadowView = view
	return nil
}

func (b *builder) commit(register bool) error {
	if register {
		if err := b.c.addBusiness(b.business); err != nil {
			return err
		}
	}

	i, err := b.c.interpreters.NewInterpreter(b.business.Name, b.interpreterFactory, b.table)
	if err != nil {
		if register {
			b.c.removeBusiness(b.business.Name)
		}
		return fmt.Errorf("failed to create interpreter of business %s: %w", b.business.Name, err)
	}
	b.business.Interpreter = i

	if b.shadowView != nil {
		b.c.shadowViews.Add(b.shadowView)
	}
	for _, loader := range b.loaders {
		b.c.dataLoaders.Add(loader)
	}
	for _, fn := range b.startFuncs {
		b.c.OnStarted(fn)
	}
	return nil
}

// ParseIDGenerators register the named id generators declared on class and its mapped superclasses into
// generators. A subclass declaration replaces an inherited one with the same name.
func ParseIDGenerators(ctx context.Context, log logger.Interface, generators IDGenerators, class *schema.Class) {
	if class == nil {
		return
	}
	if !class.Entity && !class.MappedSuperclass {
		log.Debug(ctx, "id generators parsing stops at %v, neither an entity nor a mapped superclass", class)
		return
	}

	if super := class.MappedSuper(); super != nil {
		ParseIDGenerators(ctx, log, generators, super)
	}

	for _, g := range []schema.GeneratorDescriptor{sequenceDescriptor(class.SequenceGenerator), tableDescriptor(class.TableGenerator)} {
		if g == nil {
			continue
		}
		if old, ok := generators[g.GeneratorName()]; ok {
			log.Debug(ctx, "id generator %s is overridden by %v, old: %v", g.GeneratorName(), class, old)
		}
		generators[g.GeneratorName()] = g
	}
}

// typed nil pointers must not become non-nil interfaces
func sequenceDescriptor(g *schema.SequenceGenerator) schema.GeneratorDescriptor {
	if g == nil {
		return nil
	}
	return g
}

func tableDescriptor(g *schema.TableGenerator) schema.GeneratorDescriptor {
	if g == nil {
		return nil
	}
	return g
}
