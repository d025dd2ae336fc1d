package schema

// Kind is the discriminant that selects a Schema variant.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Kinds lists every supported discriminant.
var Kinds = []Kind{KindString, KindNumber, KindBoolean, KindArray, KindObject}

// Supported reports whether k names one of the five schema variants.
func (k Kind) Supported() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindArray, KindObject:
		return true
	default:
		return false
	}
}

func (k Kind) String() string { return string(k) }

// Schema describes the expected shape of a value.
//
// Type selects the variant. Items is only meaningful for arrays, Properties
// and RequiredKeys only for objects. A field is mandatory when its own
// Required flag is set or when its name is listed in the enclosing object's
// RequiredKeys.
//
// Schema values are treated as immutable: the builder methods below return
// copies and never write through the receiver's map or slice.
type Schema struct {
	Type         Kind              `json:"type" yaml:"type" mapstructure:"type"`
	Required     bool              `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	Items        *Schema           `json:"items,omitempty" yaml:"items,omitempty" mapstructure:"items"`
	Properties   map[string]Schema `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
	RequiredKeys []string          `json:"requiredKeys,omitempty" yaml:"requiredKeys,omitempty" mapstructure:"requiredKeys"`
}

// IsRequired reports whether the property named key must be present.
// It returns false for names that are not declared in Properties.
func (s Schema) IsRequired(key string) bool {
	prop, ok := s.Properties[key]
	if !ok {
		return false
	}
	if prop.Required {
		return true
	}
	for _, k := range s.RequiredKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the schema.
func (s Schema) Clone() Schema {
	out := s
	if s.Items != nil {
		items := s.Items.Clone()
		out.Items = &items
	}
	if s.Properties != nil {
		out.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Clone()
		}
	}
	if s.RequiredKeys != nil {
		out.RequiredKeys = append([]string(nil), s.RequiredKeys...)
	}
	return out
}

// Depth returns the number of nested levels in the schema tree.
// A primitive schema has depth 1.
func (s Schema) Depth() int {
	deepest := 0
	if s.Items != nil {
		deepest = s.Items.Depth()
	}
	for _, p := range s.Properties {
		if d := p.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
