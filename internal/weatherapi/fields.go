package weatherapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fields reads typed values out of one decoded JSON object. The first failure
// sticks in err; later reads return zero values so constructors can read every
// field and check err once.
type fields struct {
	entity string
	m      map[string]any
	err    error
}

func newFields(entity string, m map[string]any) *fields {
	return &fields{entity: entity, m: m}
}

func (f *fields) fail(key, reason string) {
	if f.err == nil {
		f.err = &MalformedResponseError{Entity: f.entity, Key: key, Reason: reason}
	}
}

// adopt records an error produced while building a nested entity.
func (f *fields) adopt(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

func (f *fields) required(key string) (any, bool) {
	if f.err != nil {
		return nil, false
	}
	v, ok := f.m[key]
	if !ok {
		f.fail(key, "is missing")
		return nil, false
	}
	if v == nil {
		f.fail(key, "is null")
		return nil, false
	}
	return v, true
}

func (f *fields) optional(key string) (any, bool) {
	if f.err != nil {
		return nil, false
	}
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fields) float(key string) float64 {
	v, ok := f.required(key)
	if !ok {
		return 0
	}
	n, ok := toFloat(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want number", v))
	}
	return n
}

func (f *fields) optFloat(key string) *float64 {
	v, ok := f.optional(key)
	if !ok {
		return nil
	}
	n, ok := toFloat(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want number", v))
		return nil
	}
	return &n
}

// numeric accepts a number or a string holding one; the service sends some
// measurements (tide heights, moon illumination) as strings.
func (f *fields) numeric(key string) float64 {
	v, ok := f.required(key)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f.fail(key, fmt.Sprintf("%q is not numeric", s))
		}
		return n
	}
	n, ok := toFloat(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want number", v))
	}
	return n
}

func (f *fields) int64(key string) int64 {
	v, ok := f.required(key)
	if !ok {
		return 0
	}
	n, ok := toInt64(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T (%v), want integer", v, v))
	}
	return n
}

func (f *fields) int(key string) int {
	return int(f.int64(key))
}

func (f *fields) optInt64(key string) *int64 {
	v, ok := f.optional(key)
	if !ok {
		return nil
	}
	n, ok := toInt64(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T (%v), want integer", v, v))
		return nil
	}
	return &n
}

func (f *fields) optInt(key string) *int {
	n := f.optInt64(key)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

func (f *fields) str(key string) string {
	v, ok := f.required(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want string", v))
	}
	return s
}

func (f *fields) optString(key string) *string {
	v, ok := f.optional(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want string", v))
		return nil
	}
	return &s
}

// flag reads 0/1 style flags; any non-zero number is true.
func (f *fields) flag(key string) bool {
	v, ok := f.required(key)
	if !ok {
		return false
	}
	b, ok := toBool(v)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T (%v), want flag", v, v))
	}
	return b
}

func (f *fields) object(key string) map[string]any {
	v, ok := f.required(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want object", v))
	}
	return m
}

func (f *fields) optObject(key string) map[string]any {
	v, ok := f.optional(key)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want object", v))
	}
	return m
}

func (f *fields) list(key string) []any {
	v, ok := f.required(key)
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want array", v))
	}
	return l
}

func (f *fields) optList(key string) []any {
	v, ok := f.optional(key)
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		f.fail(key, fmt.Sprintf("is %T, want array", v))
	}
	return l
}

// objects builds one T per element of items, keeping source order.
func objects[T any](entity, key string, items []any, build func(map[string]any) (T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &MalformedResponseError{
				Entity: entity,
				Key:    fmt.Sprintf("%s[%d]", key, i),
				Reason: fmt.Sprintf("is %T, want object", item),
			}
		}
		v, err := build(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	}
	f, ok := toFloat(v)
	if !ok {
		return false, false
	}
	return f != 0, true
}
