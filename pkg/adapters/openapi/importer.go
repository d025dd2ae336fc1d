// Package openapi imports schema definitions from OpenAPI documents.
//
// Only the subset expressible as a schema.Schema is accepted: string, number,
// integer (mapped to number), boolean, array and object. Composition keywords
// such as allOf or oneOf are not supported.
package openapi

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/contour/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrNoComponents is returned when a document declares no component schemas.
	ErrNoComponents = errors.New("document has no component schemas")
	// ErrCycle is returned for recursive definitions, which have no finite schema.Schema form.
	ErrCycle = errors.New("recursive schema")
	// ErrUnsupported is returned for schemas outside the importable subset.
	ErrUnsupported = errors.New("unsupported openapi schema")
)

// LoadFile imports the component schemas of the OpenAPI document at path.
func LoadFile(path string) (map[string]schema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read openapi document: %w", err)
	}
	return Load(data)
}

// Load imports the component schemas of an OpenAPI document (JSON or YAML).
func Load(data []byte) (map[string]schema.Schema, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoComponents
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]schema.Schema, len(names))
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("component %s: %w: unresolved reference", name, ErrUnsupported)
		}
		s, err := Convert(ref.Value)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

// Convert translates a single OpenAPI schema.
// Names in the OpenAPI required list that are not declared as properties are dropped.
func Convert(s *openapi3.Schema) (schema.Schema, error) {
	return convert(s, "#", make(map[*openapi3.Schema]bool))
}

func convert(s *openapi3.Schema, path string, visiting map[*openapi3.Schema]bool) (schema.Schema, error) {
	if s == nil {
		return schema.Schema{}, fmt.Errorf("%s: %w: empty schema", path, ErrUnsupported)
	}
	if visiting[s] {
		return schema.Schema{}, fmt.Errorf("%s: %w", path, ErrCycle)
	}
	visiting[s] = true
	defer delete(visiting, s)

	kind, err := kindOf(s, path)
	if err != nil {
		return schema.Schema{}, err
	}

	switch kind {
	case schema.KindArray:
		if s.Items == nil || s.Items.Value == nil {
			return schema.Schema{}, fmt.Errorf("%s: %w: array without items", path, ErrUnsupported)
		}
		items, err := convert(s.Items.Value, path+"/items", visiting)
		if err != nil {
			return schema.Schema{}, err
		}
		return schema.Array(items), nil

	case schema.KindObject:
		props := make(map[string]schema.Schema, len(s.Properties))
		for name, ref := range s.Properties {
			if ref == nil {
				return schema.Schema{}, fmt.Errorf("%s/properties/%s: %w: empty schema", path, name, ErrUnsupported)
			}
			child, err := convert(ref.Value, path+"/properties/"+name, visiting)
			if err != nil {
				return schema.Schema{}, err
			}
			props[name] = child
		}
		var keys []string
		for _, name := range s.Required {
			if _, ok := props[name]; ok {
				keys = append(keys, name)
			}
		}
		return schema.Object(props).WithRequiredKeys(keys...), nil

	default:
		return schema.Schema{Type: kind}, nil
	}
}

func kindOf(s *openapi3.Schema, path string) (schema.Kind, error) {
	if s.Type == nil {
		return "", fmt.Errorf("%s: %w: missing type", path, ErrUnsupported)
	}

	var types []string
	for _, t := range s.Type.Slice() {
		if t != "null" {
			types = append(types, t)
		}
	}
	if len(types) != 1 {
		return "", fmt.Errorf("%s: %w: type %v", path, ErrUnsupported, s.Type.Slice())
	}

	switch types[0] {
	case openapi3.TypeString:
		return schema.KindString, nil
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return schema.KindNumber, nil
	case openapi3.TypeBoolean:
		return schema.KindBoolean, nil
	case openapi3.TypeArray:
		return schema.KindArray, nil
	case openapi3.TypeObject:
		return schema.KindObject, nil
	default:
		return "", fmt.Errorf("%s: %w: type %q", path, ErrUnsupported, types[0])
	}
}
