package column

import (
	"fmt"
	"reflect"
	"strings"
)

// Fielder is implemented by rows that expose their cells by key.
type Fielder interface {
	Field(key string) any
}

// FieldValue reads key from row. Maps with string keys, Fielder
// implementations and structs (by `grid` tag or case-insensitive field
// name) are supported. The boolean is false when the row has no such field.
func FieldValue(row any, key string) (any, bool) {
	switch r := row.(type) {
	case nil:
		return nil, false
	case Fielder:
		v := r.Field(key)
		return v, v != nil
	case map[string]any:
		v, ok := r[key]
		return v, ok
	case map[string]string:
		v, ok := r[key]
		return v, ok
	}

	v := reflect.ValueOf(row)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Tag.Get("grid")
			if name == "" {
				name = f.Name
			}
			if strings.EqualFold(name, key) {
				return v.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}

// CellValue returns the value of the column for row. Accessors that panic
// yield (nil, false).
func (c *Column) CellValue(row any) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()
	if c.Value != nil {
		v = c.Value(row)
		return v, v != nil
	}
	return FieldValue(row, c.Key)
}

// DisplayValue returns the default textual display of the cell.
// Missing values and failing accessors display as the empty string.
func DisplayValue(c *Column, row any) string {
	v, ok := c.CellValue(row)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return safeString(t)
	}
	return fmt.Sprint(v)
}

func safeString(s fmt.Stringer) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	return s.String()
}

// RenderValue is the default cell renderer. It renders DisplayValue.
func RenderValue(p CellProps) any {
	return DisplayValue(p.Column, p.Row)
}

// Same reports whether a and b are the same row. Comparable values are
// compared with ==; maps, slices and funcs are compared by identity.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		if va.Kind() == reflect.Slice && va.Len() != vb.Len() {
			return false
		}
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return safeEqual(a, b)
	}
	return false
}

type identity struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

// Identity returns a map key under which rows that are Same collide. It
// reports false for rows Same never matches.
func Identity(row any) (any, bool) {
	if row == nil {
		return nil, false
	}
	v := reflect.ValueOf(row)
	switch v.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return identity{typ: v.Type(), ptr: v.Pointer()}, true
	case reflect.Slice:
		return identity{typ: v.Type(), ptr: v.Pointer(), n: v.Len()}, true
	}
	if !v.Type().Comparable() || !hashable(row) {
		return nil, false
	}
	return row, true
}

// hashable reports whether v can be a map key. Comparable structs may
// still hold uncomparable values in interface fields.
func hashable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}

func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
