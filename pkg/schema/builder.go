package schema

// String creates an optional string schema.
func String() Schema { return Schema{Type: KindString} }

// Number creates an optional number schema.
func Number() Schema { return Schema{Type: KindNumber} }

// Boolean creates an optional boolean schema.
func Boolean() Schema { return Schema{Type: KindBoolean} }

// Array creates an optional array schema whose elements must satisfy items.
func Array(items Schema) Schema {
	it := items.Clone()
	return Schema{Type: KindArray, Items: &it}
}

// Object creates an optional object schema with the given properties.
// The map is copied.
func Object(properties map[string]Schema) Schema {
	props := make(map[string]Schema, len(properties))
	for k, v := range properties {
		props[k] = v.Clone()
	}
	return Schema{Type: KindObject, Properties: props}
}

// Require returns a copy of s marked as required.
func (s Schema) Require() Schema {
	out := s.Clone()
	out.Required = true
	return out
}

// Optional returns a copy of s marked as optional.
func (s Schema) Optional() Schema {
	out := s.Clone()
	out.Required = false
	return out
}

// WithRequiredKeys returns a copy of s whose RequiredKeys holds the union of
// the existing keys and keys, without duplicates.
func (s Schema) WithRequiredKeys(keys ...string) Schema {
	out := s.Clone()
	seen := make(map[string]bool, len(out.RequiredKeys)+len(keys))
	merged := make([]string, 0, len(out.RequiredKeys)+len(keys))
	for _, k := range append(out.RequiredKeys, keys...) {
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, k)
	}
	out.RequiredKeys = merged
	return out
}
