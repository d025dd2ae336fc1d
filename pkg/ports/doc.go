/*
Package ports defines the driven ports (interfaces) used by the contour Checker.

# Key Interfaces

  - SchemaStore: persists named schemas (memory, filesystem or Redis).

RunSchemaStoreContract is exported so that every adapter runs the same suite.
*/
package ports
