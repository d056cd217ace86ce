package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrUnsupportedModel the value can't describe a domain class
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrInvalidDescriptor the class descriptor is malformed
	ErrInvalidDescriptor = errors.New("invalid class descriptor")
)

// Access how the members of a class level are mapped
type Access string

const (
	// AccessNone no explicit access type
	AccessNone Access = ""
	// AccessField map declared fields
	AccessField Access = "FIELD"
	// AccessProperty map accessor methods
	AccessProperty Access = "PROPERTY"
)

// ParseAccess parse an access type name case-insensitively
func ParseAccess(s string) (Access, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return AccessNone, nil
	case string(AccessField):
		return AccessField, nil
	case string(AccessProperty):
		return AccessProperty, nil
	}
	return AccessNone, fmt.Errorf("%w: unknown access type %q", ErrInvalidDescriptor, s)
}

// Class the mapping metadata declared on one level of a domain class hierarchy
type Class struct {
	Name             string `yaml:"name" validate:"required"`
	PkgPath          string `yaml:"package,omitempty"`
	Entity           bool   `yaml:"entity,omitempty"`
	MappedSuperclass bool   `yaml:"mappedSuperclass,omitempty"`
	Access           Access `yaml:"access,omitempty" validate:"omitempty,oneof=FIELD PROPERTY"`

	Business          *Business          `yaml:"business,omitempty"`
	Table             *Table             `yaml:"table,omitempty"`
	GeneratedValue    *GeneratedValue    `yaml:"generatedValue,omitempty"`
	SequenceGenerator *SequenceGenerator `yaml:"sequenceGenerator,omitempty"`
	TableGenerator    *TableGenerator    `yaml:"tableGenerator,omitempty"`

	AttributeOverrides []AttributeOverride `yaml:"attributeOverrides,omitempty" validate:"dive"`
	Fields             []*Member           `yaml:"fields,omitempty" validate:"dive"`
	Methods            []*Member           `yaml:"methods,omitempty" validate:"dive"`

	// Extends names the super class within the same descriptor document
	Extends string `yaml:"extends,omitempty"`
	// Super the super class, only followed when it is a mapped superclass
	Super *Class `yaml:"-" validate:"-"`
	// ModelType the go type the class was parsed from, nil for declarative descriptors
	ModelType reflect.Type `yaml:"-" validate:"-"`
}

func (c *Class) String() string {
	if c.PkgPath != "" {
		return c.PkgPath + "." + c.Name
	}
	return c.Name
}

// MappedSuper the super class when it contributes mapping metadata, nil otherwise
func (c *Class) MappedSuper() *Class {
	if c.Super != nil && c.Super.MappedSuperclass {
		return c.Super
	}
	return nil
}

// Business the business a domain class is registered as
type Business struct {
	Name        string `yaml:"name,omitempty"`
	Interpreter string `yaml:"interpreter,omitempty"`
}

// Table the table a domain class is stored in
type Table struct {
	Name          string `yaml:"name,omitempty"`
	DBGroup       string `yaml:"dbGroup,omitempty"`
	Shadow        string `yaml:"shadow,omitempty"`
	DynamicUpdate bool   `yaml:"dynamicUpdate,omitempty"`
}

// GeneratedValue how the primary key is generated
type GeneratedValue struct {
	Strategy  string `yaml:"strategy,omitempty"`
	Generator string `yaml:"generator,omitempty"`
}

// defaults of generator descriptors
const (
	DefaultAllocationSize        = 50
	DefaultSequenceInitialValue  = 1
	DefaultTableGeneratorInitial = 0
)

// SequenceGenerator a named sequence backed generator
type SequenceGenerator struct {
	Name           string `yaml:"name" validate:"required"`
	SequenceName   string `yaml:"sequenceName,omitempty"`
	Catalog        string `yaml:"catalog,omitempty"`
	Schema         string `yaml:"schema,omitempty"`
	AllocationSize int    `yaml:"allocationSize,omitempty" validate:"gte=0"`
	InitialValue   *int   `yaml:"initialValue,omitempty"`
}

// GeneratorName implements GeneratorDescriptor
func (g *SequenceGenerator) GeneratorName() string {
	return g.Name
}

func (g *SequenceGenerator) applyDefaults() {
	if g.AllocationSize == 0 {
		g.AllocationSize = DefaultAllocationSize
	}
	if g.InitialValue == nil {
		initial := DefaultSequenceInitialValue
		g.InitialValue = &initial
	}
}

// Initial the first value of the sequence, an explicit 0 is kept
func (g *SequenceGenerator) Initial() int {
	if g.InitialValue == nil {
		return DefaultSequenceInitialValue
	}
	return *g.InitialValue
}

func (g *SequenceGenerator) String() string {
	return fmt.Sprintf("SequenceGenerator(name=%s, sequenceName=%s, allocationSize=%d, initialValue=%d)",
		g.Name, g.SequenceName, g.AllocationSize, g.Initial())
}

// TableGenerator a named hi/lo table backed generator
type TableGenerator struct {
	Name            string `yaml:"name" validate:"required"`
	Catalog         string `yaml:"catalog,omitempty"`
	Schema          string `yaml:"schema,omitempty"`
	Table           string `yaml:"table,omitempty"`
	PKColumnName    string `yaml:"pkColumnName,omitempty"`
	PKColumnValue   string `yaml:"pkColumnValue,omitempty"`
	ValueColumnName string `yaml:"valueColumnName,omitempty"`
	AllocationSize  int    `yaml:"allocationSize,omitempty" validate:"gte=0"`
	InitialValue    int    `yaml:"initialValue,omitempty"`
}

// GeneratorName implements GeneratorDescriptor
func (g *TableGenerator) GeneratorName() string {
	return g.Name
}

func (g *TableGenerator) applyDefaults() {
	if g.AllocationSize == 0 {
		g.AllocationSize = DefaultAllocationSize
	}
}

func (g *TableGenerator) String() string {
	return fmt.Sprintf("TableGenerator(name=%s, table=%s, pkColumnValue=%s, allocationSize=%d)",
		g.Name, g.Table, g.PKColumnValue, g.AllocationSize)
}

// GeneratorDescriptor a SequenceGenerator or a TableGenerator
type GeneratorDescriptor interface {
	GeneratorName() string
}

// AttributeOverride rename the column of an inherited attribute
type AttributeOverride struct {
	Name   string `yaml:"name" validate:"required"`
	Column string `yaml:"column" validate:"required"`
}

// Member a field or accessor method of a class level
type Member struct {
	// Name the field name, or the method name for accessor methods
	Name string `yaml:"name" validate:"required"`
	// TypeName the declared value type when GoType is unknown, e.g. int64 or []Order
	TypeName string       `yaml:"type,omitempty"`
	GoType   reflect.Type `yaml:"-" validate:"-"`

	Transient bool `yaml:"transient,omitempty"`
	// TransientModifier excluded from persistence by the language rather than by mapping metadata
	TransientModifier bool `yaml:"transientModifier,omitempty"`
	Static            bool `yaml:"static,omitempty"`
	Private           bool `yaml:"private,omitempty"`

	ID     bool    `yaml:"id,omitempty"`
	Column *Column `yaml:"column,omitempty"`
	Lazy   bool    `yaml:"lazy,omitempty"`

	GeneratedValue    *GeneratedValue    `yaml:"generatedValue,omitempty"`
	SequenceGenerator *SequenceGenerator `yaml:"sequenceGenerator,omitempty"`
	TableGenerator    *TableGenerator    `yaml:"tableGenerator,omitempty"`
}

// ReturnsBool reports whether the member value is a bool
func (m *Member) ReturnsBool() bool {
	if m.GoType != nil {
		t := m.GoType
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		return t.Kind() == reflect.Bool
	}
	switch strings.ToLower(strings.TrimPrefix(m.TypeName, "*")) {
	case "bool", "boolean":
		return true
	}
	return false
}

// Column the column a member is mapped to
type Column struct {
	Name string `yaml:"name,omitempty"`
	// Type the data type name, inferred from the member type when empty
	Type string `yaml:"type,omitempty"`
	// NullValue text of the value bound in place of nil, nil means a real NULL
	NullValue *string `yaml:"nullValue,omitempty"`
	// Loader name of a registered data loader
	Loader     string `yaml:"loader,omitempty"`
	Insertable *bool  `yaml:"insertable,omitempty"`
	Updatable  *bool  `yaml:"updatable,omitempty"`
}

// AllowInsert reports whether the column is written by inserts, true unless suppressed
func (c *Column) AllowInsert() bool {
	return c == nil || c.Insertable == nil || *c.Insertable
}

// AllowUpdate reports whether the column is written by updates, true unless suppressed
func (c *Column) AllowUpdate() bool {
	return c == nil || c.Updatable == nil || *c.Updatable
}
