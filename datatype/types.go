package datatype

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/jinzhu/now"
)

var (
	timeType  = reflect.TypeOf(time.Time{})
	bytesType = reflect.TypeOf([]byte(nil))
)

// codec shared implementation of SQLDataType, conv returns nil for NULL
type codec struct {
	nullSentinel
	typ   reflect.Type
	conv  func(value interface{}) (interface{}, error)
	parse func(value string) (interface{}, error)
}

// GetSQLValue implements SQLDataType
func (c *codec) GetSQLValue(row Row, colName string) (interface{}, error) {
	raw, err := row.ByName(colName)
	if err != nil {
		return nil, err
	}
	return c.conv(raw)
}

// GetSQLValueAt implements SQLDataType
func (c *codec) GetSQLValueAt(row Row, colIndex int) (interface{}, error) {
	raw, err := row.ByIndex(colIndex)
	if err != nil {
		return nil, err
	}
	return c.conv(raw)
}

// SetSQLValue implements SQLDataType
func (c *codec) SetSQLValue(params Params, parameterIndex int, value interface{}) error {
	if isNil(value) {
		return c.bindNull(params, parameterIndex)
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
		value = rv.Elem().Interface()
	}

	if s, ok := value.(string); ok && c.typ.Kind() != reflect.String {
		parsed, err := c.parse(s)
		if err != nil {
			return err
		}
		value = parsed
	}

	v, err := c.conv(value)
	if err != nil {
		return err
	}
	return params.Bind(parameterIndex, v)
}

// GetFromString implements SQLDataType
func (c *codec) GetFromString(value string) (interface{}, error) {
	return c.parse(value)
}

// SetNullToValue implements SQLDataType
func (c *codec) SetNullToValue(nullValue *string) error {
	return c.configure(nullValue, c.parse)
}

// DataType implements SQLDataType
func (c *codec) DataType() reflect.Type {
	return c.typ
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil() && rv.Type() != bytesType
	}
	return false
}

// BoolSQLDataType bool
type BoolSQLDataType struct{ codec }

// NewBoolSQLDataType creates a bool data type
func NewBoolSQLDataType() SQLDataType {
	t := &BoolSQLDataType{}
	t.typ = reflect.TypeOf(false)
	t.conv = func(value interface{}) (interface{}, error) {
		b, ok, err := toBool(value)
		if err != nil || !ok {
			return nil, err
		}
		return b, nil
	}
	t.parse = func(value string) (interface{}, error) {
		return parseBool(value)
	}
	return t
}

// IntegerSQLDataType signed integers of one bit size
type IntegerSQLDataType struct{ codec }

// NewIntegerSQLDataType creates a signed integer data type converting to typ
func NewIntegerSQLDataType(typ reflect.Type) SQLDataType {
	t := &IntegerSQLDataType{}
	t.typ = typ
	t.conv = signedConv(typ)
	t.parse = func(value string) (interface{}, error) {
		i, err := strconv.ParseInt(value, 10, typ.Bits())
		if err != nil {
			return nil, invalid(value, typ.String())
		}
		return t.conv(i)
	}
	return t
}

func signedConv(typ reflect.Type) func(interface{}) (interface{}, error) {
	return func(value interface{}) (interface{}, error) {
		i, ok, err := toInt64(value)
		if err != nil || !ok {
			return nil, err
		}
		rv := reflect.New(typ).Elem()
		if rv.OverflowInt(i) {
			return nil, invalid(value, typ.String())
		}
		rv.SetInt(i)
		return rv.Interface(), nil
	}
}

// UnsignedSQLDataType unsigned integers of one bit size
type UnsignedSQLDataType struct{ codec }

// NewUnsignedSQLDataType creates an unsigned integer data type converting to typ
func NewUnsignedSQLDataType(typ reflect.Type) SQLDataType {
	t := &UnsignedSQLDataType{}
	t.typ = typ
	t.conv = unsignedConv(typ)
	t.parse = func(value string) (interface{}, error) {
		u, err := strconv.ParseUint(value, 10, typ.Bits())
		if err != nil {
			return nil, invalid(value, typ.String())
		}
		return t.conv(u)
	}
	return t
}

func unsignedConv(typ reflect.Type) func(interface{}) (interface{}, error) {
	return func(value interface{}) (interface{}, error) {
		var u uint64
		if v, ok := value.(uint64); ok {
			u = v
		} else {
			i, ok, err := toInt64(value)
			if err != nil || !ok {
				return nil, err
			}
			if i < 0 {
				return nil, invalid(value, typ.String())
			}
			u = uint64(i)
		}
		rv := reflect.New(typ).Elem()
		if rv.OverflowUint(u) {
			return nil, invalid(value, typ.String())
		}
		rv.SetUint(u)
		return rv.Interface(), nil
	}
}

// ByteSQLDataType a single byte integer. It has no safe null sentinel and no textual form.
type ByteSQLDataType struct{ codec }

// NewByteSQLDataType creates a single byte data type, typ is int8 or uint8
func NewByteSQLDataType(typ reflect.Type) SQLDataType {
	t := &ByteSQLDataType{}
	conv := unsignedConv(typ)
	if typ.Kind() == reflect.Int8 {
		conv = signedConv(typ)
	}
	t.typ = typ
	t.conv = conv
	t.parse = func(value string) (interface{}, error) {
		return nil, fmt.Errorf("%w: value is %q", ErrUnsupportedOperation, value)
	}
	return t
}

// SetNullToValue rejects any sentinel
func (t *ByteSQLDataType) SetNullToValue(nullValue *string) error {
	if nullValue != nil {
		return fmt.Errorf("%w: null value is %q", ErrNullValueNotSupported, *nullValue)
	}
	return t.configure(nil, t.parse)
}

// FloatSQLDataType float32 or float64
type FloatSQLDataType struct{ codec }

// NewFloatSQLDataType creates a floating point data type converting to typ
func NewFloatSQLDataType(typ reflect.Type) SQLDataType {
	t := &FloatSQLDataType{}
	t.typ = typ
	t.conv = func(value interface{}) (interface{}, error) {
		f, ok, err := toFloat64(value)
		if err != nil || !ok {
			return nil, err
		}
		rv := reflect.New(typ).Elem()
		if rv.OverflowFloat(f) {
			return nil, invalid(value, typ.String())
		}
		rv.SetFloat(f)
		return rv.Interface(), nil
	}
	t.parse = func(value string) (interface{}, error) {
		f, err := strconv.ParseFloat(value, typ.Bits())
		if err != nil {
			return nil, invalid(value, typ.String())
		}
		return t.conv(f)
	}
	return t
}

// StringSQLDataType string
type StringSQLDataType struct{ codec }

// NewStringSQLDataType creates a string data type
func NewStringSQLDataType() SQLDataType {
	t := &StringSQLDataType{}
	t.typ = reflect.TypeOf("")
	t.conv = func(value interface{}) (interface{}, error) {
		switch v := value.(type) {
		case nil:
			return nil, nil
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case fmt.Stringer:
			return v.String(), nil
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return fmt.Sprint(v), nil
		}
		return nil, invalid(value, "string")
	}
	t.parse = func(value string) (interface{}, error) {
		return value, nil
	}
	return t
}

// BytesSQLDataType []byte
type BytesSQLDataType struct{ codec }

// NewBytesSQLDataType creates a binary data type
func NewBytesSQLDataType() SQLDataType {
	t := &BytesSQLDataType{}
	t.typ = bytesType
	t.conv = func(value interface{}) (interface{}, error) {
		switch v := value.(type) {
		case nil:
			return nil, nil
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		}
		return nil, invalid(value, "[]byte")
	}
	t.parse = func(value string) (interface{}, error) {
		return []byte(value), nil
	}
	return t
}

// DateTimeSQLDataType time.Time with date and time of day
type DateTimeSQLDataType struct{ codec }

// NewDateTimeSQLDataType creates a timestamp data type
func NewDateTimeSQLDataType() SQLDataType {
	t := &DateTimeSQLDataType{}
	t.typ = timeType
	t.conv = func(value interface{}) (interface{}, error) {
		tm, ok, err := toTime(value)
		if err != nil || !ok {
			return nil, err
		}
		return tm, nil
	}
	t.parse = func(value string) (interface{}, error) {
		return parseTime(value)
	}
	return t
}

// DateSQLDataType time.Time truncated to the day
type DateSQLDataType struct{ codec }

// NewDateSQLDataType creates a date data type
func NewDateSQLDataType() SQLDataType {
	t := &DateSQLDataType{}
	t.typ = timeType
	t.conv = func(value interface{}) (interface{}, error) {
		tm, ok, err := toTime(value)
		if err != nil || !ok {
			return nil, err
		}
		return time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, tm.Location()), nil
	}
	t.parse = func(value string) (interface{}, error) {
		tm, err := parseTime(value)
		if err != nil {
			return nil, err
		}
		return t.conv(tm)
	}
	return t
}

// TimeSQLDataType time.Time keeping only the time of day
type TimeSQLDataType struct{ codec }

// NewTimeSQLDataType creates a time of day data type
func NewTimeSQLDataType() SQLDataType {
	t := &TimeSQLDataType{}
	t.typ = timeType
	t.conv = func(value interface{}) (interface{}, error) {
		tm, ok, err := toTime(value)
		if err != nil || !ok {
			return nil, err
		}
		return time.Date(0, 1, 1, tm.Hour(), tm.Minute(), tm.Second(), tm.Nanosecond(), tm.Location()), nil
	}
	t.parse = func(value string) (interface{}, error) {
		tm, err := parseTime(value)
		if err != nil {
			return nil, err
		}
		return t.conv(tm)
	}
	return t
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	t, err := now.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: failed to parse %q as time: %v", ErrInvalidValue, value, err)
	}
	return t, nil
}
