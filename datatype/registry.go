package datatype

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Constructor creates an unconfigured data type instance
type Constructor func() SQLDataType

// Registry data types by semantic name, and the semantic name inferred for go types
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
	goTypes      map[reflect.Type]string
	kinds        map[reflect.Kind]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		constructors: map[string]Constructor{},
		goTypes:      map[reflect.Type]string{},
		kinds:        map[reflect.Kind]string{},
	}
}

// Default the process wide registry with the builtin data types
var Default = NewDefaultRegistry()

// NewDefaultRegistry creates a registry with the builtin data types
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("bool", NewBoolSQLDataType, "boolean")
	r.Register("int8", func() SQLDataType { return NewByteSQLDataType(reflect.TypeOf(int8(0))) })
	r.Register("uint8", func() SQLDataType { return NewByteSQLDataType(reflect.TypeOf(uint8(0))) }, "byte")
	r.Register("int16", func() SQLDataType { return NewIntegerSQLDataType(reflect.TypeOf(int16(0))) }, "short")
	r.Register("int32", func() SQLDataType { return NewIntegerSQLDataType(reflect.TypeOf(int32(0))) }, "integer")
	r.Register("int", func() SQLDataType { return NewIntegerSQLDataType(reflect.TypeOf(0)) })
	r.Register("int64", func() SQLDataType { return NewIntegerSQLDataType(reflect.TypeOf(int64(0))) }, "long", "bigint")
	r.Register("uint16", func() SQLDataType { return NewUnsignedSQLDataType(reflect.TypeOf(uint16(0))) })
	r.Register("uint32", func() SQLDataType { return NewUnsignedSQLDataType(reflect.TypeOf(uint32(0))) })
	r.Register("uint", func() SQLDataType { return NewUnsignedSQLDataType(reflect.TypeOf(uint(0))) })
	r.Register("uint64", func() SQLDataType { return NewUnsignedSQLDataType(reflect.TypeOf(uint64(0))) })
	r.Register("float32", func() SQLDataType { return NewFloatSQLDataType(reflect.TypeOf(float32(0))) }, "float")
	r.Register("float64", func() SQLDataType { return NewFloatSQLDataType(reflect.TypeOf(float64(0))) }, "double")
	r.Register("string", NewStringSQLDataType, "varchar", "text")
	r.Register("bytes", NewBytesSQLDataType, "binary", "blob")
	r.Register("datetime", NewDateTimeSQLDataType, "timestamp")
	r.Register("date", NewDateSQLDataType)
	r.Register("time", NewTimeSQLDataType)

	r.RegisterGoType(timeType, "datetime")
	r.RegisterGoType(bytesType, "bytes")
	for kind, name := range map[reflect.Kind]string{
		reflect.Bool:    "bool",
		reflect.Int8:    "int8",
		reflect.Uint8:   "uint8",
		reflect.Int16:   "int16",
		reflect.Int32:   "int32",
		reflect.Int:     "int",
		reflect.Int64:   "int64",
		reflect.Uint16:  "uint16",
		reflect.Uint32:  "uint32",
		reflect.Uint:    "uint",
		reflect.Uint64:  "uint64",
		reflect.Float32: "float32",
		reflect.Float64: "float64",
		reflect.String:  "string",
	} {
		r.kinds[kind] = name
	}

	return r
}

// Register register a data type constructor under name and its aliases
func (r *Registry) Register(name string, constructor Constructor, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{name}, aliases...) {
		r.constructors[strings.ToLower(n)] = constructor
	}
}

// RegisterGoType infer the data type name for values of goType
func (r *Registry) RegisterGoType(goType reflect.Type, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goTypes[goType] = strings.ToLower(name)
}

// Lookup get the constructor registered for name
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[strings.ToLower(name)]
	return c, ok
}

// NameOf infer the data type name of a go type, pointers are followed
func (r *Registry) NameOf(goType reflect.Type) (string, bool) {
	if goType == nil {
		return "", false
	}
	for goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if name, ok := r.goTypes[goType]; ok {
		return name, true
	}
	if goType.Kind() == reflect.Slice && goType.Elem().Kind() == reflect.Uint8 {
		return r.goTypes[bytesType], true
	}
	if goType.Kind() == reflect.Struct && goType.ConvertibleTo(timeType) {
		return r.goTypes[timeType], true
	}
	name, ok := r.kinds[goType.Kind()]
	return name, ok
}

// New creates a configured data type. The name wins over goType; a nil nullValue means no sentinel.
func (r *Registry) New(name string, goType reflect.Type, nullValue *string) (SQLDataType, error) {
	if name == "" {
		var ok bool
		if name, ok = r.NameOf(goType); !ok {
			return nil, fmt.Errorf("%w: go type %v", ErrUnsupportedType, goType)
		}
	}

	constructor, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
	}

	dataType := constructor()
	if err := dataType.SetNullToValue(nullValue); err != nil {
		return nil, err
	}
	return dataType, nil
}

// Register register a data type constructor into the default registry
func Register(name string, constructor Constructor, aliases ...string) {
	Default.Register(name, constructor, aliases...)
}

// New creates a configured data type from the default registry
func New(name string, goType reflect.Type, nullValue *string) (SQLDataType, error) {
	return Default.New(name, goType, nullValue)
}
