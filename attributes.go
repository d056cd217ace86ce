package entitymap

import (
	"fmt"

	"gorm.io/entitymap/model"
	"gorm.io/entitymap/schema"
)

// parseClassForAttributes map the members of class, its mapped superclasses first, then apply the
// attribute overrides of class
func (b *builder) parseClassForAttributes(class *schema.Class) error {
	if super := class.MappedSuper(); super != nil {
		if err := b.parseClassForAttributes(super); err != nil {
			return err
		}
	}

	for _, p := range schema.Properties(class) {
		var err error
		if p.Member.ID {
			err = b.addIDMapping(class, p)
		} else {
			err = b.addPropertyMapping(class, p)
		}
		if err != nil {
			return err
		}
	}

	for _, override := range class.AttributeOverrides {
		if err := b.table.RenameColumn(override.Name, override.Column); err != nil {
			return fmt.Errorf("%w: %s overridden by %v, business %s", ErrAttributeNotFound, override.Name, class, b.business.Name)
		}
	}
	return nil
}

func (b *builder) columnName(m *schema.Member, propName string) string {
	if m.Column != nil && m.Column.Name != "" {
		return m.Column.Name
	}
	return b.namer.ColumnName(b.table.Name, propName)
}

// typeName the declared data type of a member, empty when it is inferred from the go type
func typeName(m *schema.Member) string {
	if m.Column != nil && m.Column.Type != "" {
		return m.Column.Type
	}
	if m.GoType == nil {
		return m.TypeName
	}
	return ""
}

func (b *builder) addPropertyMapping(class *schema.Class, p schema.Property) error {
	if b.table.ColumnByPropName(p.Name) != nil {
		b.logger.Warn(b.ctx, "property %s of %v is already mapped by a parent class, ignored", p.Name, class)
		return nil
	}

	m := p.Member
	col := model.NewColumn(p.Name, b.columnName(m, p.Name))
	col.TypeName = typeName(m)
	col.GoType = m.GoType
	col.Lazy = m.Lazy
	if m.Column != nil {
		col.NullValue = m.Column.NullValue
		col.AllowInsert = m.Column.AllowInsert()
		col.AllowUpdate = m.Column.AllowUpdate()
	}

	dataType, err := b.c.DataTypes.New(col.TypeName, col.GoType, col.NullValue)
	if err != nil {
		b.logger.Warn(b.ctx, "property %s of business %s is ignored, unsupported data type", p.Name, b.business.Name)
		b.logger.Debug(b.ctx, "data type of property %s of business %s: %v", p.Name, b.business.Name, err)
		return nil
	}
	col.DataType = dataType

	if m.Column != nil && m.Column.Loader != "" {
		factory, ok := b.c.dataLoaderFactory(m.Column.Loader)
		if !ok {
			return fmt.Errorf("%w: %s of property %s, business %s", ErrUnknownDataLoader, m.Column.Loader, p.Name, b.business.Name)
		}

		loader, err := factory(b.mapping, b.table, col.PropName, col.ColName)
		if err != nil {
			return fmt.Errorf("failed to create data loader %s of property %s, business %s: %w", m.Column.Loader, p.Name, b.business.Name, err)
		}
		col.Loader = loader
		b.loaders = append(b.loaders, loader)
	}

	return b.table.AddColumn(col)
}
