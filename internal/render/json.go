// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/n2y/internal/ir"
)

// renderJSON dumps the tree with every node tagged by its type name:
// {"t": "Para", "inlines": [...]}. It is meant for debugging and for
// diagnosing StructureErrors.
func renderJSON(doc ir.Document) (string, error) {
	data, err := json.MarshalIndent(encodeNode(reflect.ValueOf(doc)), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding tree: %w", err)
	}
	return string(data) + "\n", nil
}

// Dump encodes any node or node slice as tagged JSON. Errors are folded into
// the returned string since it is only used for log output.
func Dump(v any) string {
	data, err := json.Marshal(encodeNode(reflect.ValueOf(v)))
	if err != nil {
		return fmt.Sprintf("<unencodable %T: %v>", v, err)
	}
	return string(data)
}

func encodeNode(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return encodeNode(v.Elem())
	case reflect.Struct:
		out := map[string]any{"t": v.Type().Name()}
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if !f.IsExported() {
				continue
			}
			out[lowerFirst(f.Name)] = encodeNode(v.Field(i))
		}
		return out
	case reflect.Slice, reflect.Array:
		list := make([]any, v.Len())
		for i := range list {
			list[i] = encodeNode(v.Index(i))
		}
		return list
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = encodeNode(iter.Value())
		}
		return out
	}
	return v.Interface()
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}
