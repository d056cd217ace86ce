package schema

import (
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gorm.io/entitymap/utils"
)

// Entity embed into a struct to mark it as an entity, class settings are read from its tags:
//
//	schema.Entity `orm:"business:user;table:tb_user;dbgroup:main" override:"name:user_name"`
type Entity struct{}

// MappedSuperclass embed into a struct to let entities embedding it inherit its mapping
type MappedSuperclass struct{}

// struct tag keys
const (
	TagKey            = "orm"
	SequenceTagKey    = "sequence"
	TableGenTagKey    = "tablegen"
	OverrideTagKey    = "override"
	methodMemberField = "_"
)

var (
	entityType           = reflect.TypeOf(Entity{})
	mappedSuperclassType = reflect.TypeOf(MappedSuperclass{})
	cacheStore           sync.Map
)

// Parse parse the class descriptor of a struct. Accessor methods are declared with blank fields
// naming them, e.g. _ struct{} `orm:"method:GetName;column:name"`.
func Parse(dest interface{}) (*Class, error) {
	if dest == nil {
		return nil, fmt.Errorf("%w: %+v", ErrUnsupportedModel, dest)
	}

	modelType, ok := dest.(reflect.Type)
	if !ok {
		modelType = reflect.ValueOf(dest).Type()
	}
	for modelType.Kind() == reflect.Slice || modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	if modelType.Kind() != reflect.Struct {
		if modelType.PkgPath() == "" {
			return nil, fmt.Errorf("%w: %+v", ErrUnsupportedModel, dest)
		}
		return nil, fmt.Errorf("%w: %v.%v", ErrUnsupportedModel, modelType.PkgPath(), modelType.Name())
	}

	return parseType(modelType)
}

func parseType(modelType reflect.Type) (*Class, error) {
	if v, ok := cacheStore.Load(modelType); ok {
		return v.(*Class), nil
	}

	class := &Class{Name: modelType.Name(), PkgPath: modelType.PkgPath(), ModelType: modelType}

	for i := 0; i < modelType.NumField(); i++ {
		fieldStruct := modelType.Field(i)

		var err error
		switch {
		case fieldStruct.Anonymous && fieldStruct.Type == entityType:
			class.Entity = true
			err = parseClassTag(class, fieldStruct.Tag)
		case fieldStruct.Anonymous && fieldStruct.Type == mappedSuperclassType:
			class.MappedSuperclass = true
			err = parseClassTag(class, fieldStruct.Tag)
		case fieldStruct.Name == methodMemberField:
			var member *Member
			if member, err = parseMethodMember(modelType, fieldStruct.Tag); err == nil {
				class.Methods = append(class.Methods, member)
			}
		case fieldStruct.Anonymous:
			err = parseEmbedded(class, fieldStruct.Type)
		case ast.IsExported(fieldStruct.Name):
			var member *Member
			if member, err = parseMember(fieldStruct.Name, fieldStruct.Type, fieldStruct.Tag); err == nil {
				class.Fields = append(class.Fields, member)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v field %s", err, class, fieldStruct.Name)
		}
	}

	v, _ := cacheStore.LoadOrStore(modelType, class)
	return v.(*Class), nil
}

// parseEmbedded an embedded mapped superclass is the super class, other embedded structs are not mapped
func parseEmbedded(class *Class, embeddedType reflect.Type) error {
	for embeddedType.Kind() == reflect.Ptr {
		embeddedType = embeddedType.Elem()
	}
	if embeddedType.Kind() != reflect.Struct || !isMappedSuperclass(embeddedType) {
		return nil
	}

	if class.Super != nil {
		return fmt.Errorf("%w: more than one mapped superclass embedded", ErrInvalidDescriptor)
	}

	super, err := parseType(embeddedType)
	if err != nil {
		return err
	}
	class.Super = super
	return nil
}

func isMappedSuperclass(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Anonymous && f.Type == mappedSuperclassType {
			return true
		}
	}
	return false
}

func parseClassTag(class *Class, tag reflect.StructTag) (err error) {
	settings := ParseTagSetting(tag.Get(TagKey), ";")

	if class.Access, err = ParseAccess(settings["ACCESS"]); err != nil {
		return err
	}

	if name, interpreter := settings["BUSINESS"], settings["INTERPRETER"]; name != "" || interpreter != "" {
		class.Business = &Business{Name: name, Interpreter: interpreter}
	}

	_, hasDynamicUpdate := settings["DYNAMICUPDATE"]
	if table, dbGroup, shadow := settings["TABLE"], settings["DBGROUP"], settings["SHADOW"]; table != "" || dbGroup != "" || shadow != "" || hasDynamicUpdate {
		class.Table = &Table{
			Name:          table,
			DBGroup:       dbGroup,
			Shadow:        shadow,
			DynamicUpdate: hasDynamicUpdate && utils.CheckTruth(settings["DYNAMICUPDATE"]),
		}
	}

	class.GeneratedValue = parseGeneratedValue(settings)

	if class.SequenceGenerator, err = parseSequenceGenerator(tag.Get(SequenceTagKey)); err != nil {
		return err
	}
	if class.TableGenerator, err = parseTableGenerator(tag.Get(TableGenTagKey)); err != nil {
		return err
	}

	for _, pair := range parseTagPairs(tag.Get(OverrideTagKey), ";") {
		if pair.Value == "" {
			return fmt.Errorf("%w: attribute override %s has no column", ErrInvalidDescriptor, pair.Key)
		}
		class.AttributeOverrides = append(class.AttributeOverrides, AttributeOverride{Name: pair.Key, Column: pair.Value})
	}
	return nil
}

func parseMethodMember(modelType reflect.Type, tag reflect.StructTag) (*Member, error) {
	settings := ParseTagSetting(tag.Get(TagKey), ";")
	name := settings["METHOD"]
	if name == "" || name == "METHOD" {
		return nil, fmt.Errorf("%w: blank field without method name", ErrInvalidDescriptor)
	}

	method, ok := reflect.PtrTo(modelType).MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: method %s not found", ErrInvalidDescriptor, name)
	}

	var returnType reflect.Type
	if method.Type.NumOut() > 0 {
		returnType = method.Type.Out(0)
	}
	return parseMember(name, returnType, tag)
}

func parseMember(name string, goType reflect.Type, tag reflect.StructTag) (member *Member, err error) {
	settings := ParseTagSetting(tag.Get(TagKey), ";")
	member = &Member{Name: name, GoType: goType}

	_, ignored := settings["-"]
	_, transient := settings["TRANSIENT"]
	member.Transient = ignored || transient

	if v, ok := settings["ID"]; ok {
		member.ID = utils.CheckTruth(v)
	} else if v, ok := settings["PRIMARYKEY"]; ok {
		member.ID = utils.CheckTruth(v)
	}

	if v, ok := settings["LAZY"]; ok {
		member.Lazy = utils.CheckTruth(v)
	}

	if member.Column, err = parseColumn(settings); err != nil {
		return nil, err
	}
	member.GeneratedValue = parseGeneratedValue(settings)

	if member.SequenceGenerator, err = parseSequenceGenerator(tag.Get(SequenceTagKey)); err != nil {
		return nil, err
	}
	if member.TableGenerator, err = parseTableGenerator(tag.Get(TableGenTagKey)); err != nil {
		return nil, err
	}
	return member, nil
}

func parseColumn(settings map[string]string) (*Column, error) {
	var (
		column  = &Column{}
		present bool
	)

	if v, ok := settings["COLUMN"]; ok {
		present = true
		if v != "COLUMN" {
			column.Name = v
		}
	}

	if v, ok := settings["TYPE"]; ok {
		present, column.Type = true, v
	}

	if v, ok := settings["NULL"]; ok {
		present = true
		if v == "NULL" {
			v = ""
		}
		nullValue := v
		column.NullValue = &nullValue
	}

	if v, ok := settings["LOADER"]; ok {
		present, column.Loader = true, v
	}

	if v, ok := settings["INSERTABLE"]; ok {
		present = true
		column.Insertable = boolPtr(utils.CheckTruth(v))
	}

	if v, ok := settings["UPDATABLE"]; ok {
		present = true
		column.Updatable = boolPtr(utils.CheckTruth(v))
	}

	if v, ok := settings["<-"]; ok {
		present = true
		switch v = strings.ToLower(v); v {
		case "<-":
			column.Insertable, column.Updatable = boolPtr(true), boolPtr(true)
		case "false":
			column.Insertable, column.Updatable = boolPtr(false), boolPtr(false)
		default:
			column.Insertable = boolPtr(strings.Contains(v, "create"))
			column.Updatable = boolPtr(strings.Contains(v, "update"))
		}
	}

	if !present {
		return nil, nil
	}
	return column, nil
}

func parseGeneratedValue(settings map[string]string) *GeneratedValue {
	strategy, hasStrategy := settings["GENERATED"]
	generator, hasGenerator := settings["GENERATOR"]
	if !hasStrategy && !hasGenerator {
		return nil
	}

	if strategy == "GENERATED" {
		strategy = ""
	}
	if generator == "GENERATOR" {
		generator = ""
	}
	return &GeneratedValue{Strategy: strategy, Generator: generator}
}

func parseSequenceGenerator(tag string) (*SequenceGenerator, error) {
	if tag == "" {
		return nil, nil
	}

	settings := ParseTagSetting(tag, ";")
	g := &SequenceGenerator{
		Name:         settings["NAME"],
		SequenceName: settings["SEQUENCENAME"],
		Catalog:      settings["CATALOG"],
		Schema:       settings["SCHEMA"],
	}
	if g.Name == "" {
		return nil, fmt.Errorf("%w: sequence generator without name", ErrInvalidDescriptor)
	}

	var err error
	if g.AllocationSize, err = atoi(settings, "ALLOCATIONSIZE"); err != nil {
		return nil, err
	}
	if _, ok := settings["INITIALVALUE"]; ok {
		initial, err := atoi(settings, "INITIALVALUE")
		if err != nil {
			return nil, err
		}
		g.InitialValue = &initial
	}
	g.applyDefaults()
	return g, nil
}

func parseTableGenerator(tag string) (*TableGenerator, error) {
	if tag == "" {
		return nil, nil
	}

	settings := ParseTagSetting(tag, ";")
	g := &TableGenerator{
		Name:            settings["NAME"],
		Catalog:         settings["CATALOG"],
		Schema:          settings["SCHEMA"],
		Table:           settings["TABLE"],
		PKColumnName:    settings["PKCOLUMNNAME"],
		PKColumnValue:   settings["PKCOLUMNVALUE"],
		ValueColumnName: settings["VALUECOLUMNNAME"],
	}
	if g.Name == "" {
		return nil, fmt.Errorf("%w: table generator without name", ErrInvalidDescriptor)
	}

	var err error
	if g.AllocationSize, err = atoi(settings, "ALLOCATIONSIZE"); err != nil {
		return nil, err
	}
	if g.InitialValue, err = atoi(settings, "INITIALVALUE"); err != nil {
		return nil, err
	}
	g.applyDefaults()
	return g, nil
}

func atoi(settings map[string]string, key string) (int, error) {
	v, ok := settings[key]
	if !ok {
		return 0, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidDescriptor, strings.ToLower(key), v)
	}
	return i, nil
}

func boolPtr(b bool) *bool {
	return &b
}
