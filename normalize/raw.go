package normalize

import (
	"fmt"
	"strconv"
)

// RawListing is one catalog entry as decoded from source JSON.
// The schema is external and not guaranteed complete; every access goes
// through a tolerant accessor that distinguishes "absent" (zero value)
// from "present but malformed" (error).
type RawListing map[string]any

// str returns the string field under key.
// Absent fields yield ""; a non-string value is an error.
func (r RawListing) str(key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

// stringOrNumber returns the field under key rendered as a string.
// JSON sources are inconsistent about identifier types, so both strings and
// numbers are accepted.
func (r RawListing) stringOrNumber(key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		// encoding/json decodes all JSON numbers as float64
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("field %q: expected string or number, got %T", key, v)
	}
}

// stringList returns the list of strings under key.
// Absent fields yield nil; any non-list value or non-string element is an
// error.
func (r RawListing) stringList(key string) ([]string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected list, got %T", key, v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected string, got %T", key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// object returns the nested object under key.
// Absent fields yield nil; a non-object value is an error.
func (r RawListing) object(key string) (RawListing, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected object, got %T", key, v)
	}
	return RawListing(m), nil
}

// objectList returns the list of nested objects under key.
// Absent fields yield nil; any non-list value or non-object element is an
// error.
func (r RawListing) objectList(key string) ([]RawListing, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected list, got %T", key, v)
	}
	out := make([]RawListing, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected object, got %T", key, i, item)
		}
		out = append(out, RawListing(m))
	}
	return out, nil
}
