package bind

import (
	"fmt"
	"reflect"
	"sync"
)

// Field pairs a label with a pointer to the value it binds.
type Field struct {
	Label string
	Ptr   any

	// Optional fields that are missing on decode are left unchanged.
	Optional bool
}

// Fields pairs labels with ptrs in order. It panics if the counts differ.
func Fields(labels []string, ptrs ...any) []Field {
	if len(labels) != len(ptrs) {
		panic(fmt.Sprintf("bind: %d labels for %d fields", len(labels), len(ptrs)))
	}
	res := make([]Field, len(ptrs))
	for i, p := range ptrs {
		res[i] = Field{Label: labels[i], Ptr: p}
	}
	return res
}

// fieldInfo holds field metadata extracted from struct tags
type fieldInfo struct {
	// Name is the dotted Go field name, for error paths
	Name     string
	Label    string
	Index    []int
	Optional bool
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

// Struct returns the fields of the struct v points to, in declaration
// order. Unexported fields are skipped and embedded structs are
// flattened. The label defaults to the field name and can be set with a
// tag:
//
//	Name string `jstream:"field=name"`
//	Note string `jstream:"optional"`
//	Tmp  int    `jstream:"omit"`
func Struct(v any) ([]Field, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	infos, err := structFields(rv.Type())
	if err != nil {
		return nil, err
	}
	res := make([]Field, len(infos))
	for i, fi := range infos {
		res[i] = Field{
			Label:    fi.Label,
			Ptr:      rv.FieldByIndex(fi.Index).Addr().Interface(),
			Optional: fi.Optional,
		}
	}
	return res, nil
}

// Labeled pairs the exported top level fields of the struct v points to
// with labels, in order. Tags are ignored. It panics if the counts differ.
func Labeled(v any, labels ...string) ([]Field, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}
	var ptrs []any
	t := rv.Type()
	for i := range t.NumField() {
		if !t.Field(i).IsExported() {
			continue
		}
		ptrs = append(ptrs, rv.Field(i).Addr().Interface())
	}
	return Fields(labels, ptrs...), nil
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: expected non-nil pointer to struct, got %T", ErrNotStruct, v)
	}
	return rv.Elem(), nil
}

func structFields(t reflect.Type) ([]fieldInfo, error) {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo), nil
	}
	var res []fieldInfo
	if err := collectFields(t, nil, "", &res); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(res))
	for _, fi := range res {
		if other, ok := seen[fi.Label]; ok {
			return nil, fmt.Errorf("%w: fields %s and %s of %s both use label %q", ErrLabelConflict, other, fi.Name, t, fi.Label)
		}
		seen[fi.Label] = fi.Name
	}
	fieldCache.Store(t, res)
	return res, nil
}

func collectFields(t reflect.Type, index []int, prefix string, res *[]fieldInfo) error {
	for i := range t.NumField() {
		field := t.Field(i)
		idx := append(append([]int(nil), index...), i)
		tags, err := ParseStructTag(field.Tag.Get(TagName))
		if err != nil {
			return fmt.Errorf("%s.%s: %w", t, field.Name, err)
		}
		if _, omit := tags["omit"]; omit || tags["field"] == "-" {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if _, named := tags["field"]; !named {
				if err := collectFields(field.Type, idx, prefix+field.Name+".", res); err != nil {
					return err
				}
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		label := field.Name
		if renamed := tags["field"]; renamed != "" {
			label = renamed
		}
		_, optional := tags["optional"]
		*res = append(*res, fieldInfo{
			Name:     prefix + field.Name,
			Label:    label,
			Index:    idx,
			Optional: optional,
		})
	}
	return nil
}
