// Package normalise converts arbitrary backend response values into
// JSON-safe shapes: maps keyed by strings, slices, and scalar leaves. The
// backend SDK hands back loosely typed structures whose concrete types vary
// by endpoint and SDK version; downstream consumers (the tool boundary, the
// journal, log fields) need plain data they can marshal without surprises.
package normalise

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Value normalises v recursively.
//
// Scalars (nil, booleans, numbers, strings) pass through. Slices and arrays
// normalise element-wise; maps normalise per value with keys stringified;
// structs project their exported fields using json tag names when present.
// time.Time becomes RFC3339, []byte becomes base64. Anything with no JSON
// analogue (channels, funcs) collapses to its fmt rendering, which is lossy
// but never fails.
func Value(v any) any {
	if v == nil {
		return nil
	}
	return normalise(reflect.ValueOf(v))
}

// Map normalises v and guarantees a mapping root. Non-mapping values are
// wrapped under a "value" key; nil stays nil.
func Map(v any) map[string]any {
	if v == nil {
		return nil
	}
	n := Value(v)
	if n == nil {
		return nil
	}
	if m, ok := n.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": n}
}

func normalise(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}

	// Well-known concrete types first.
	switch v := rv.Interface().(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalise(rv.Elem())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalise(rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = normalise(iter.Value())
		}
		return out
	case reflect.Struct:
		return normaliseStruct(rv)
	default:
		// Channels, funcs, complex numbers, unsafe pointers. Lossy on
		// purpose: a printable stand-in beats a marshal failure.
		return fmt.Sprintf("%v", rv.Interface())
	}
}

func mapKey(rv reflect.Value) string {
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprintf("%v", rv.Interface())
}

func normaliseStruct(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		omitEmpty := false
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, opts, _ := strings.Cut(tag, ",")
			if tagName == "-" && opts == "" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
			omitEmpty = strings.Contains(","+opts+",", ",omitempty,")
		}

		fv := rv.Field(i)
		if field.Anonymous && fv.Kind() == reflect.Struct {
			// Flatten embedded structs the way encoding/json does.
			for k, v := range normaliseStruct(fv) {
				if _, exists := out[k]; !exists {
					out[k] = v
				}
			}
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = normalise(fv)
	}
	return out
}
