package postgres

import (
	"reflect"
	"sync"
)

// dbField is one "db"-tagged field; index is the path through embedded structs.
type dbField struct {
	column string
	index  []int
}

var dbFieldCache sync.Map // reflect.Type -> []dbField

func dbFields(t reflect.Type) []dbField {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := dbFieldCache.Load(t); ok {
		return cached.([]dbField)
	}
	fields := collectDBFields(t, nil)
	dbFieldCache.Store(t, fields)
	return fields
}

func collectDBFields(t reflect.Type, prefix []int) []dbField {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []dbField
	for i := range t.NumField() {
		sf := t.Field(i)
		path := append(append([]int(nil), prefix...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			out = append(out, collectDBFields(sf.Type, path)...)
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		out = append(out, dbField{column: tag, index: path})
	}
	return out
}

// ExtractDBColumns lists the "db" columns of T in field order, embedded structs inlined.
func ExtractDBColumns[T any]() []string {
	fields := dbFields(reflect.TypeFor[T]())
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

// StructToMap maps the "db" columns of a struct (or pointer to one) to their values.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	fields := dbFields(rv.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return out
}
