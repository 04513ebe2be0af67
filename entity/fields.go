package entity

import (
	"fmt"
	"sort"
)

// Fields is a flat V2 message: request parameters, gateway responses and callback envelopes.
type Fields map[string]string

// FieldsOf converts arbitrary parameter values to their string form.
func FieldsOf(data map[string]any) Fields {
	fields := make(Fields, len(data))
	for key, value := range data {
		if value == nil {
			fields[key] = ""
			continue
		}
		fields[key] = fmt.Sprint(value)
	}
	return fields
}

// Without returns a copy of the fields lacking the given key.
func (f Fields) Without(key string) Fields {
	result := make(Fields, len(f))
	for k, v := range f {
		if k != key {
			result[k] = v
		}
	}
	return result
}

// Keys returns the field names in ascending byte order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f Fields) Map() map[string]any {
	result := make(map[string]any, len(f))
	for k, v := range f {
		result[k] = v
	}
	return result
}
