package analysis

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Sanitize returns a copy of v built only from map[string]any, []any, strings, bools,
// int64, uint64, float64 and nil, with NaN and ±Inf replaced by nil so the result always
// encodes as strict JSON. Struct fields follow their json tags. Values of other kinds,
// such as time.Time, pass through unchanged. Sanitize(Sanitize(v)) equals Sanitize(v).
func Sanitize(v any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = v
		}
	}()
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[mapKey(iter.Key())] = sanitizeValue(iter.Value())
		}
		return m
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = sanitizeValue(rv.Index(i))
		}
		return s
	case reflect.Struct:
		if isOpaqueStruct(rv) {
			return rv.Interface()
		}
		return sanitizeStruct(rv)
	}
	if rv.CanInterface() {
		return rv.Interface()
	}
	return nil
}

func sanitizeStruct(rv reflect.Value) map[string]any {
	rt := rv.Type()
	m := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonField(f)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && isEmptyValue(fv) {
			continue
		}
		m[name] = sanitizeValue(fv)
	}
	return m
}

func jsonField(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// isEmptyValue mirrors encoding/json's omitempty test.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// isOpaqueStruct reports structs with no exported fields (time.Time and friends); they are
// kept as-is for their own marshalers.
func isOpaqueStruct(rv reflect.Value) bool {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).IsExported() {
			return false
		}
	}
	return rv.CanInterface()
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.CanInterface() {
		if s, ok := k.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	return fmt.Sprint(k.Interface())
}
