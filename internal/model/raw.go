package model

import (
	"strconv"
)

// Raw is a decoded classifier payload. Values are whatever encoding/json
// produces for an untyped target: string, float64, bool, nil, map[string]any
// or []any. Accessors never panic on a missing key or an unexpected shape.
type Raw map[string]any

// Section returns the nested object stored under key, or an empty Raw when
// the key is absent or holds something other than an object. The returned
// Raw shares storage with r.
func (r Raw) Section(key string) Raw {
	if r == nil {
		return Raw{}
	}
	switch v := r[key].(type) {
	case map[string]any:
		return Raw(v)
	case Raw:
		return v
	}
	return Raw{}
}

// HasSection reports whether key holds an object.
func (r Raw) HasSection(key string) bool {
	switch r[key].(type) {
	case map[string]any, Raw:
		return true
	}
	return false
}

// String returns the string stored under key. Absent, null and non-string
// values yield "".
func (r Raw) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Text returns the scalar stored under key rendered as text, so numbers and
// booleans survive. Absent, null, object and array values yield "".
func (r Raw) Text(key string) string {
	s, _ := Scalar(r[key])
	return s
}

// Lookup walks nested objects along path.
func (r Raw) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		var m map[string]any
		switch v := cur.(type) {
		case map[string]any:
			m = v
		case Raw:
			m = v
		default:
			return nil, false
		}
		next, ok := m[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// StringAt returns the string at path, or "" when any step is missing or the
// leaf is not a string.
func (r Raw) StringAt(path ...string) string {
	v, ok := r.Lookup(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Clone returns a deep copy of r.
func (r Raw) Clone() Raw {
	if r == nil {
		return nil
	}
	return cloneValue(map[string]any(r)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Raw:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// Scalar renders a scalar JSON value as text. Objects and arrays report
// false.
func Scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
