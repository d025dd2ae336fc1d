package validator

import "github.com/aretw0/contour/pkg/schema"

// Validator is the executable form of a schema.
// It is immutable and safe for concurrent use.
type Validator struct {
	root rule
}

// Validate reports whether value conforms to the compiled schema.
func (v *Validator) Validate(value any) bool {
	return v.root.check(value) == nil
}

// Check is like Validate but returns the first failure as a *ValidationError.
func (v *Validator) Check(value any) error {
	if err := v.root.check(value); err != nil {
		return err.within("$")
	}
	return nil
}

// String describes the compiled rule tree, e.g. "{id:string!, tags:[string]}".
// Required nodes are suffixed with "!".
func (v *Validator) String() string {
	return v.root.name()
}

// Validate reports whether value conforms to v. A nil validator accepts nothing.
func Validate(v *Validator, value any) bool {
	if v == nil {
		return false
	}
	return v.Validate(value)
}

// ValidateBySchema compiles s and validates value against it.
// Definition errors are returned as-is and never reported as a failed verdict.
func ValidateBySchema(s schema.Schema, value any) (bool, error) {
	v, err := Compile(s)
	if err != nil {
		return false, err
	}
	return v.Validate(value), nil
}
