package cmd

import (
	"reflect"

	"github.com/hlvm-dev/hql/internal/token"
)

// toJSONValue converts an IR/AST node tree into a JSON-marshalable generic
// value. The IR package (internal/ir) models its tagged union as a family
// of interfaces (Node/Expression/Statement/Declaration/Pattern) implemented
// by concrete structs rather than a single Kind-tagged struct, so encoding
// it with encoding/json directly would lose every type name. Walking the
// tree with reflection and tagging each struct with its Go type name is the
// same "dump the tree with a type label per node" idea as the teacher's
// dumpASTNode, generalized so it doesn't need one case per IR node kind.
func toJSONValue(v any) any {
	if v == nil {
		return nil
	}
	return reflectValue(reflect.ValueOf(v))
}

func reflectValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return reflectValue(rv.Elem())
	case reflect.Struct:
		return reflectStruct(rv)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = reflectValue(rv.Index(i))
		}
		return out
	default:
		return rv.Interface()
	}
}

func reflectStruct(rv reflect.Value) any {
	// token.Position renders as "file:line:col" rather than its raw fields.
	if rv.Type() == reflect.TypeOf(token.Position{}) {
		return rv.Interface().(token.Position).String()
	}

	out := map[string]any{"type": rv.Type().Name()}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		// NodeBase embeds only a Position; surface it as "pos" instead of
		// nesting an extra "NodeBase" object.
		if field.Anonymous && field.Name == "NodeBase" {
			out["pos"] = reflectValue(fv.FieldByName("Position"))
			continue
		}
		out[lowerFirst(field.Name)] = reflectValue(fv)
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
