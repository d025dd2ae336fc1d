/*
Package contour validates dynamically shaped data against declarative schemas.

A schema (package schema) describes a nested shape built from strings,
numbers, booleans, arrays and objects. Package validator compiles a schema
into an immutable Validator and evaluates candidates to a boolean verdict.

# Concept

The core is pure: compiling and validating have no side effects and no shared
state. This package adds a Checker on top of it that keeps named schemas in a
SchemaStore (memory, filesystem or Redis), caches their compiled validators
and reports lifecycle events for logging and metrics. Adapters expose the
Checker over HTTP (pkg/adapters/http) and MCP (pkg/adapters/mcp), and the
contour CLI wires everything together.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/contour"
		"github.com/aretw0/contour/pkg/schema"
	)

	func main() {
		ctx := context.Background()
		checker := contour.New()

		user := schema.Object(map[string]schema.Schema{
			"id":   schema.String().Require(),
			"name": schema.String(),
		}).Require()

		if err := checker.Register(ctx, "user", user); err != nil {
			panic(err)
		}

		ok, _ := checker.Check(ctx, "user", map[string]any{"id": "abc"})
		fmt.Println(ok) // true
	}

Use the validator package directly when no naming or storage is needed.
*/
package contour
