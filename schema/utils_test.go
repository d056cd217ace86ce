package schema

import (
	"reflect"
	"testing"
)

func TestParseTagSetting(t *testing.T) {
	tags := map[string]map[string]string{
		"id;column:user_id":  {"ID": "ID", "COLUMN": "user_id"},
		"null:;type:string":  {"NULL": "", "TYPE": "string"},
		"null:-1; Lazy ":     {"NULL": "-1", "LAZY": "LAZY"},
		`null:a\;b;column:c`: {"NULL": "a;b", "COLUMN": "c"},
		"default:12:30:00;;": {"DEFAULT": "12:30:00"},
		"<-:create":          {"<-": "create"},
		"":                   {},
		`trailing\`:          {"TRAILING\\": "TRAILING\\"},
	}

	for tag, expected := range tags {
		if settings := ParseTagSetting(tag, ";"); !reflect.DeepEqual(settings, expected) {
			t.Errorf("%q should be parsed as %v, but got %v", tag, expected, settings)
		}
	}
}

func TestParseTagPairs(t *testing.T) {
	pairs := parseTagPairs("firstName:first_name;lastName:last_name", ";")
	expected := []tagPair{
		{Key: "firstName", Value: "first_name", HasValue: true},
		{Key: "lastName", Value: "last_name", HasValue: true},
	}
	if !reflect.DeepEqual(pairs, expected) {
		t.Errorf("pairs should keep order and case, got %v", pairs)
	}
}
