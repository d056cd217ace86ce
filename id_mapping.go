package entitymap

import (
	"fmt"
	"strconv"

	"gorm.io/entitymap/id"
	"gorm.io/entitymap/model"
	"gorm.io/entitymap/schema"
)

// addIDMapping map the primary key declared on one level of the class hierarchy. A subclass redeclaring
// the id reuses and reconfigures the inherited column.
func (b *builder) addIDMapping(class *schema.Class, p schema.Property) error {
	m := p.Member
	colName := b.columnName(m, p.Name)

	col := b.table.ColumnByPropName(p.Name)
	if col == nil {
		col = model.NewColumn(p.Name, colName)
		if err := b.table.AddColumn(col); err != nil {
			return err
		}
	} else {
		b.logger.Info(b.ctx, "override @Id in the parent class, property %s of %v", p.Name, class)
		if err := b.table.RenameColumn(p.Name, colName); err != nil {
			return err
		}
	}

	col.TypeName = typeName(m)
	col.GoType = m.GoType
	col.NullValue = nil
	col.AllowInsert = true
	col.AllowUpdate = true
	col.Lazy = false
	col.Loader = nil

	dataType, err := b.c.DataTypes.New(col.TypeName, col.GoType, nil)
	if err != nil {
		return fmt.Errorf("id property %s of business %s: %w", p.Name, b.business.Name, err)
	}
	col.DataType = dataType
	b.table.SetPrimaryKey(col)

	gv := m.GeneratedValue
	if gv == nil {
		gv = class.GeneratedValue
	}
	if gv == nil {
		gv = &schema.GeneratedValue{}
	}

	strategy, err := id.ParseGenerationType(gv.Strategy)
	if err != nil {
		return fmt.Errorf("id property %s of business %s: %w", p.Name, b.business.Name, err)
	}

	key, props, err := b.generatorConfig(m, strategy, gv.Generator)
	if err != nil {
		return err
	}

	// a redeclared id replaces the generator of the parent level, drop its callbacks too
	b.startFuncs = nil
	generator, err := id.New(key, id.Config{
		Dialect:    b.mapping.dbGroup.Dialect,
		Mapping:    b.mapping,
		Properties: props,
		Startup:    b,
	})
	if err != nil {
		return fmt.Errorf("id generator of business %s: %w", b.business.Name, err)
	}

	b.table.Generator = generator
	b.table.IDStrategy = strategy
	return nil
}

func (b *builder) generatorConfig(m *schema.Member, strategy id.GenerationType, name string) (string, id.Properties, error) {
	props := id.Properties{}

	switch strategy {
	case id.Auto:
		return b.mapping.dbGroup.Dialect.NativeIDGenerator(), props, nil
	case id.Identity:
		return id.KeyIdentity, props, nil
	case id.Sequence:
		sg := m.SequenceGenerator
		if sg == nil {
			g, err := b.lookupGenerator(name)
			if err != nil {
				return "", nil, err
			}
			var ok bool
			if sg, ok = g.(*schema.SequenceGenerator); !ok {
				return "", nil, fmt.Errorf("%w: %s is not a sequence generator, business %s", ErrGeneratorKind, name, b.business.Name)
			}
		}

		props[id.ParamSequence] = sg.SequenceName
		props[id.ParamCatalog] = sg.Catalog
		props[id.ParamSchema] = sg.Schema
		props[id.ParamAllocationSize] = strconv.Itoa(sg.AllocationSize)
		props[id.ParamInitialValue] = strconv.Itoa(sg.Initial())
		return id.KeySequence, props, nil
	case id.Table:
		tg := m.TableGenerator
		if tg == nil {
			g, err := b.lookupGenerator(name)
			if err != nil {
				return "", nil, err
			}
			var ok bool
			if tg, ok = g.(*schema.TableGenerator); !ok {
				return "", nil, fmt.Errorf("%w: %s is not a table generator, business %s", ErrGeneratorKind, name, b.business.Name)
			}
		}

		props[id.ParamCatalog] = tg.Catalog
		props[id.ParamSchema] = tg.Schema
		props[id.ParamTable] = tg.Table
		props[id.ParamPKColumnName] = tg.PKColumnName
		props[id.ParamPKColumnValue] = tg.PKColumnValue
		props[id.ParamColumn] = tg.ValueColumnName
		props[id.ParamMaxLo] = strconv.Itoa(tg.AllocationSize)
		props[id.ParamInitialValue] = strconv.Itoa(tg.InitialValue)
		return id.KeyHiloMulti, props, nil
	}
	return "", nil, fmt.Errorf("%w: %v", id.ErrUnknownGenerationType, strategy)
}

func (b *builder) lookupGenerator(name string) (schema.GeneratorDescriptor, error) {
	g, ok := b.c.GlobalIDGenerator(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q, business %s", ErrGeneratorNotFound, name, b.business.Name)
	}
	return g, nil
}
