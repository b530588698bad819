// Package document turns arbitrary values into plain JSON documents before
// they are persisted, either in the session envelope or in the catalog store.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrNotAnObject is returned when a value does not sanitize to a JSON object
var ErrNotAnObject = errors.New("value is not a JSON object")

// Sanitize converts v into plain JSON values (map[string]any, []any, string,
// float64, bool, nil). Values that have no plain JSON form, such as channels,
// functions, complex numbers or non-finite floats, are dropped from their
// enclosing object or array instead of failing the whole conversion.
func Sanitize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	raw, err := json.Marshal(strip(reflect.ValueOf(v)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}

// SanitizeObject sanitizes v and requires the result to be a JSON object
func SanitizeObject(v any) (map[string]any, error) {
	out, err := Sanitize(v)
	if err != nil {
		return nil, err
	}
	obj, ok := out.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return obj, nil
}

// Marshal sanitizes v and encodes it. When sanitizing fails the structural
// default for v's shape is returned: "[]" for slices and arrays, "{}" otherwise.
func Marshal(v any) json.RawMessage {
	out, err := Sanitize(v)
	if err == nil {
		if raw, err := json.Marshal(out); err == nil {
			return raw
		}
	}
	return EmptyFor(v)
}

// EmptyFor returns the empty JSON structure matching v's shape
func EmptyFor(v any) json.RawMessage {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		rv = rv.Elem()
	}
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		return json.RawMessage("[]")
	}
	return json.RawMessage("{}")
}

// strip walks generic containers and removes entries that cannot be encoded.
// Typed structs are left to encoding/json.
func strip(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
			return rv.Interface()
		}
		return strip(rv.Elem())
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if !plain(iter.Value()) {
				continue
			}
			out[iter.Key().String()] = strip(iter.Value())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if !plain(rv.Index(i)) {
				continue
			}
			out = append(out, strip(rv.Index(i)))
		}
		return out
	default:
		return rv.Interface()
	}
}

func plain(rv reflect.Value) bool {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return false
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}
