package datatype

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

func invalid(value interface{}, target string) error {
	return fmt.Errorf("%w: can't convert %#v to %s", ErrInvalidValue, value, target)
}

// toInt64 converts driver and go values to int64, nil is reported as ok=false
func toInt64(value interface{}) (int64, bool, error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return v, true, nil
	case int:
		return int64(v), true, nil
	case int8:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int32:
		return int64(v), true, nil
	case uint:
		return int64(v), true, nil
	case uint8:
		return int64(v), true, nil
	case uint16:
		return int64(v), true, nil
	case uint32:
		return int64(v), true, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, false, invalid(value, "int64")
		}
		return int64(v), true, nil
	case float32:
		return int64(v), true, nil
	case float64:
		return int64(v), true, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, false, invalid(value, "int64")
		}
		return i, true, nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false, invalid(value, "int64")
		}
		return i, true, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(value))
	if !rv.IsValid() {
		return 0, false, nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true, nil
	}
	return 0, false, invalid(value, "int64")
}

func toFloat64(value interface{}) (float64, bool, error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, false, invalid(value, "float64")
		}
		return f, true, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, invalid(value, "float64")
		}
		return f, true, nil
	}

	i, ok, err := toInt64(value)
	return float64(i), ok, err
}

func toBool(value interface{}) (bool, bool, error) {
	switch v := value.(type) {
	case nil:
		return false, false, nil
	case bool:
		return v, true, nil
	case []byte:
		b, err := parseBool(string(v))
		return b, err == nil, err
	case string:
		b, err := parseBool(v)
		return b, err == nil, err
	}

	i, ok, err := toInt64(value)
	return i != 0, ok, err
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, invalid(value, "bool")
}

func toTime(value interface{}) (time.Time, bool, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		return v, true, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, false, nil
		}
		return *v, true, nil
	case []byte:
		t, err := parseTime(string(v))
		return t, err == nil, err
	case string:
		t, err := parseTime(v)
		return t, err == nil, err
	case int64:
		return time.Unix(v, 0), true, nil
	}
	return time.Time{}, false, invalid(value, "time.Time")
}
