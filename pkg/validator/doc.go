// Package validator compiles schemas into validators and evaluates candidates.
//
// Compile walks a schema.Schema depth-first and builds one rule per node.
// Composite rules own the rules of their children, so a Validator keeps no
// reference to the schema it came from.
//
// Evaluation follows a fixed policy:
//
//   - presence is checked first: an absent candidate fails a required rule
//     and passes an optional one without further inspection;
//   - primitives must match their kind;
//   - arrays must be sequences and every element must pass the items rule;
//   - objects must be keyed records and every declared field must pass its
//     rule; undeclared fields are ignored.
//
// A field is mandatory when its own schema is required or its name appears
// in the enclosing object's RequiredKeys.
//
// In Go terms a candidate is absent when it is nil, a nil pointer, a nil map,
// a nil slice, or a key missing from its parent record. JSON null therefore
// behaves like a missing value.
package validator
