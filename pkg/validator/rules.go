package validator

import (
	"fmt"
	"reflect"
	"strings"
)

// rule is the compiled form of one schema node.
type rule interface {
	name() string
	check(value any) *ValidationError
}

// shapeRule checks a present, dereferenced candidate.
type shapeRule interface {
	name() string
	checkShape(rv reflect.Value) *ValidationError
}

// presenceRule applies the required/optional policy before the shape check.
type presenceRule struct {
	required bool
	shape    shapeRule
}

func (r *presenceRule) name() string {
	if r.required {
		return r.shape.name() + "!"
	}
	return r.shape.name()
}

func (r *presenceRule) check(value any) *ValidationError {
	rv, ok := resolve(value)
	if !ok {
		if r.required {
			return &ValidationError{Reason: "required"}
		}
		return nil
	}
	return r.shape.checkShape(rv)
}

func mismatch(want string, rv reflect.Value) *ValidationError {
	return &ValidationError{
		Reason: fmt.Sprintf("expected %s, got %s", want, typeName(rv)),
		Value:  rv.Interface(),
	}
}

type stringRule struct{}

func (stringRule) name() string { return "string" }

func (r stringRule) checkShape(rv reflect.Value) *ValidationError {
	if !isString(rv) {
		return mismatch(r.name(), rv)
	}
	return nil
}

type numberRule struct{}

func (numberRule) name() string { return "number" }

func (r numberRule) checkShape(rv reflect.Value) *ValidationError {
	if !isNumber(rv) {
		return mismatch(r.name(), rv)
	}
	return nil
}

type booleanRule struct{}

func (booleanRule) name() string { return "boolean" }

func (r booleanRule) checkShape(rv reflect.Value) *ValidationError {
	if rv.Kind() != reflect.Bool {
		return mismatch(r.name(), rv)
	}
	return nil
}

// arrayRule validates sequences whose elements all satisfy items.
type arrayRule struct {
	items rule
}

func (r *arrayRule) name() string {
	return fmt.Sprintf("[%s]", r.items.name())
}

func (r *arrayRule) checkShape(rv reflect.Value) *ValidationError {
	if !isSequence(rv) {
		return mismatch("array", rv)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := r.items.check(rv.Index(i).Interface()); err != nil {
			return err.within(fmt.Sprintf("[%d]", i))
		}
	}
	return nil
}

type objectField struct {
	name string
	rule rule
}

// objectRule validates keyed records. Fields not declared here are ignored.
type objectRule struct {
	fields []objectField
}

func (r *objectRule) name() string {
	parts := make([]string, len(r.fields))
	for i, f := range r.fields {
		parts[i] = f.name + ":" + f.rule.name()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *objectRule) checkShape(rv reflect.Value) *ValidationError {
	m, ok := record(rv)
	if !ok {
		return mismatch("object", rv)
	}
	for _, f := range r.fields {
		if err := f.rule.check(field(m, f.name)); err != nil {
			return err.within("." + f.name)
		}
	}
	return nil
}
