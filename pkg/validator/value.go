package validator

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
)

var jsonNumberType = reflect.TypeOf(json.Number(""))

// resolve unwraps pointers and interfaces. It reports false for absent
// candidates: nil, nil pointers, nil maps and nil slices.
func resolve(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return reflect.Value{}, false
		}
	}
	return rv, true
}

func isString(rv reflect.Value) bool {
	return rv.Kind() == reflect.String && rv.Type() != jsonNumberType
}

func isNumber(rv reflect.Value) bool {
	if rv.Type() == jsonNumberType {
		f, err := rv.Interface().(json.Number).Float64()
		return err == nil && !math.IsNaN(f)
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(rv.Float())
	default:
		return false
	}
}

func isSequence(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// record returns a string-keyed map view of rv. Structs are flattened
// the way encoding/json encodes them: embedded fields are promoted and
// fields tagged "-" are dropped.
func record(rv reflect.Value) (reflect.Value, bool) {
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		return rv, true
	case reflect.Struct:
		raw, err := json.Marshal(rv.Interface())
		if err != nil {
			return reflect.Value{}, false
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var out map[string]any
		if err := dec.Decode(&out); err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(out), true
	default:
		return reflect.Value{}, false
	}
}

// field looks up name in a string-keyed map, returning nil when missing.
func field(m reflect.Value, name string) any {
	v := m.MapIndex(reflect.ValueOf(name).Convert(m.Type().Key()))
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// typeName reports the shape of a candidate in schema vocabulary.
func typeName(rv reflect.Value) string {
	switch {
	case isNumber(rv):
		return "number"
	case isString(rv):
		return "string"
	case rv.Kind() == reflect.Bool:
		return "boolean"
	case isSequence(rv):
		return "array"
	case rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct:
		return "object"
	default:
		return rv.Type().String()
	}
}
