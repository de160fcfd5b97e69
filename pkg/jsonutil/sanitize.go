// Package jsonutil cleans values that are about to cross the JSON boundary.
package jsonutil

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// SanitizeNumbers replaces every non-finite float (NaN, +Inf, -Inf) in a
// value with nil. JSON has no representation for these, so they must become
// an explicit absent marker before serialization. The walk descends through
// maps, slices, pointers and exported struct fields; values that carry no
// non-finite numbers come back unchanged.
func SanitizeNumbers(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if !hasNonFinite(rv) {
		return v
	}
	return sanitizeValue(rv)
}

// SanitizeRows is a convenience wrapper for row-shaped payloads.
func SanitizeRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return nil
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		out[i] = sanitizeValue(reflect.ValueOf(row)).(map[string]any)
	}
	return out
}

// hasNonFinite reports whether any reachable float is NaN or infinite. It is
// the cheap pre-pass that lets clean payloads skip the rebuild entirely.
func hasNonFinite(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return math.IsNaN(f) || math.IsInf(f, 0)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return hasNonFinite(rv.Elem())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if hasNonFinite(rv.Index(i)) {
				return true
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if hasNonFinite(iter.Value()) {
				return true
			}
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() && hasNonFinite(rv.Field(i)) {
				return true
			}
		}
	}
	return false
}

// sanitizeValue rebuilds a value as generic JSON data with non-finite floats
// replaced by nil. Structs become maps keyed by their json tags so the
// encoded shape does not change.
func sanitizeValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return rv.Interface()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		// []byte and json.RawMessage have their own encodings.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = sanitizeValue(iter.Value())
		}
		return out
	case reflect.Struct:
		// Types with custom marshaling (time.Time) cannot be decomposed;
		// they never carry bare floats either.
		if rv.Type().Implements(marshalerType) || reflect.PointerTo(rv.Type()).Implements(marshalerType) {
			return rv.Interface()
		}
		out := make(map[string]any)
		sanitizeStructFields(rv, out)
		return out
	default:
		return rv.Interface()
	}
}

func sanitizeStructFields(rv reflect.Value, out map[string]any) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		fv := rv.Field(i)
		if f.Anonymous && name == "" && fv.Kind() == reflect.Struct {
			sanitizeStructFields(fv, out)
			continue
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = sanitizeValue(fv)
	}
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

func mapKey(rv reflect.Value) string {
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return ""
	}
	return strings.Trim(string(b), `"`)
}
