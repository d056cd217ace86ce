package schema

import (
	"strings"
)

type tagPair struct {
	Key      string
	Value    string
	HasValue bool
}

// parseTagPairs split `key:value;flag` settings in order, keeping the case of keys. A separator
// escaped with a backslash belongs to the value.
func parseTagPairs(str string, sep string) []tagPair {
	var pairs []tagPair
	names := strings.Split(str, sep)

	for i := 0; i < len(names); i++ {
		j := i
		for len(names[j]) > 0 && names[j][len(names[j])-1] == '\\' && i+1 < len(names) {
			i++
			names[j] = names[j][0:len(names[j])-1] + sep + names[i]
			names[i] = ""
		}

		values := strings.Split(names[j], ":")
		k := strings.TrimSpace(values[0])
		if k == "" {
			continue
		}
		if len(values) >= 2 {
			pairs = append(pairs, tagPair{Key: k, Value: strings.Join(values[1:], ":"), HasValue: true})
		} else {
			pairs = append(pairs, tagPair{Key: k})
		}
	}
	return pairs
}

// ParseTagSetting parse `key:value;flag` settings, keys are upper cased and a flag maps to itself
func ParseTagSetting(str string, sep string) map[string]string {
	settings := map[string]string{}
	for _, pair := range parseTagPairs(str, sep) {
		k := strings.ToUpper(pair.Key)
		if pair.HasValue {
			settings[k] = pair.Value
		} else {
			settings[k] = k
		}
	}
	return settings
}
