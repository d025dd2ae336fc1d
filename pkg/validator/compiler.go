package validator

import (
	"sort"

	"github.com/aretw0/contour/pkg/schema"
)

// Compile turns a schema into a Validator.
//
// Every node is visited once. Malformed nodes (an unknown discriminant, an
// array without items, a requiredKeys entry missing from properties) abort
// compilation with a *DefinitionError.
func Compile(s schema.Schema) (*Validator, error) {
	root, err := compile(s, s.Required, "$")
	if err != nil {
		return nil, err
	}
	return &Validator{root: root}, nil
}

// MustCompile is like Compile but panics on definition errors.
func MustCompile(s schema.Schema) *Validator {
	v, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return v
}

func compile(s schema.Schema, required bool, path string) (rule, error) {
	var shape shapeRule

	switch s.Type {
	case schema.KindString:
		shape = stringRule{}
	case schema.KindNumber:
		shape = numberRule{}
	case schema.KindBoolean:
		shape = booleanRule{}
	case schema.KindArray:
		if s.Items == nil {
			return nil, &DefinitionError{Path: path, Type: s.Type, Err: ErrMissingItems}
		}
		items, err := compile(*s.Items, s.Items.Required, path+".items")
		if err != nil {
			return nil, err
		}
		shape = &arrayRule{items: items}
	case schema.KindObject:
		obj, err := compileObject(s, path)
		if err != nil {
			return nil, err
		}
		shape = obj
	default:
		return nil, &DefinitionError{Path: path, Type: s.Type, Err: ErrUnsupportedSchemaType}
	}

	return &presenceRule{required: required, shape: shape}, nil
}

func compileObject(s schema.Schema, path string) (*objectRule, error) {
	for _, key := range s.RequiredKeys {
		if _, ok := s.Properties[key]; !ok {
			return nil, &DefinitionError{Path: path, Type: s.Type, Key: key, Err: ErrDanglingRequiredKey}
		}
	}

	// Sorted so that Check reports failures deterministically.
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]objectField, 0, len(names))
	for _, name := range names {
		child, err := compile(s.Properties[name], s.IsRequired(name), path+".properties."+name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, objectField{name: name, rule: child})
	}
	return &objectRule{fields: fields}, nil
}
