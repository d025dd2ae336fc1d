// Package schema defines the declarative description of nested data shapes.
//
// A Schema is a tagged union over five variants selected by its Type:
// string, number, boolean, array and object. Arrays describe their elements
// with Items; objects describe their fields with Properties and may list
// mandatory field names in RequiredKeys.
//
// Schemas carry no behavior. They are turned into executable validators by
// package validator, which is also where malformed schemas are reported.
//
// Schemas can be built programmatically:
//
//	user := schema.Object(map[string]schema.Schema{
//	    "id":   schema.String().Require(),
//	    "name": schema.String(),
//	    "tags": schema.Array(schema.String().Require()),
//	}).Require()
//
// or decoded from YAML and JSON documents:
//
//	type: object
//	required: true
//	properties:
//	  id:   {type: string}
//	  name: {type: string}
//	requiredKeys: [id]
package schema
