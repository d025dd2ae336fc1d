package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `type: object
required: true
properties:
  id:
    type: string
  name:
    type: string
requiredKeys: [id]
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "user.yaml", userSchema)
	good := writeFile(t, dir, "good.json", `{"id": "u1", "extra": true}`)
	bad := writeFile(t, dir, "bad.json", `{"key1": "value1", "key2": "value2"}`)

	out, err := run(t, "", "validate", schemaPath, good)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = run(t, "", "validate", schemaPath, bad)
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, "invalid\n", out)

	out, err = run(t, "", "validate", "--explain", schemaPath, bad)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "value $.id: required")

	out, err = run(t, `{"id": "from-stdin"}`, "validate", schemaPath, "-")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestValidateCommand_DefinitionError(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "odd.yaml", "type: unknown\n")
	data := writeFile(t, dir, "data.json", `"x"`)

	_, err := run(t, "", "validate", schemaPath, data)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
	assert.Contains(t, err.Error(), `unsupported type "unknown"`)
}

func TestRegisterThenValidateByName(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	schemaPath := writeFile(t, dir, "user.yaml", userSchema)
	data := writeFile(t, dir, "data.yaml", "id: u1\n")

	out, err := run(t, "", "--dir", storeDir, "register", "user", schemaPath)
	require.NoError(t, err)
	assert.Equal(t, "registered user\n", out)

	out, err = run(t, "", "--dir", storeDir, "list")
	require.NoError(t, err)
	assert.Equal(t, "user\n", out)

	out, err = run(t, "", "--dir", storeDir, "validate", "user", data)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, err = run(t, "", "--dir", storeDir, "validate", "ghost", data)
	assert.ErrorContains(t, err, "neither a schema file nor a registered schema")
}

func TestRegisterRejectsMalformedSchema(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	schemaPath := writeFile(t, dir, "bad.yaml", "type: object\nproperties: {}\nrequiredKeys: [id]\n")

	_, err := run(t, "", "--dir", storeDir, "register", "bad", schemaPath)
	require.Error(t, err)

	out, err := run(t, "", "--dir", storeDir, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "prices.json", `{"type": "array", "items": {"type": "number"}}`)
	a := writeFile(t, dir, "a.json", `[1, 2, 3]`)
	b := writeFile(t, dir, "b.json", `[1, 2, "x"]`)
	c := writeFile(t, dir, "c.json", `[]`)

	out, err := run(t, "", "check", schemaPath, a, b, c)
	assert.ErrorIs(t, err, errRejected)
	assert.Contains(t, out, "PASS "+a)
	assert.Contains(t, out, "FAIL "+b+": value $[2]: expected number, got string")
	assert.Contains(t, out, "PASS "+c)
	assert.Contains(t, out, "2 passed, 1 failed")
}

func TestExplainCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "user.yaml", userSchema)

	out, err := run(t, "", "explain", schemaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "$.id")
	assert.Contains(t, out, "{id:string!, name:string}!")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "schemas")
	doc := writeFile(t, dir, "api.yaml", `
openapi: 3.0.3
info:
  title: Shop
  version: 1.0.0
paths: {}
components:
  schemas:
    Item:
      type: object
      required: [sku]
      properties:
        sku:
          type: string
        qty:
          type: integer
`)

	out, err := run(t, "", "import", doc, "--out", outDir)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 schemas\n", out)
	assert.FileExists(t, filepath.Join(outDir, "Item.yaml"))

	data := writeFile(t, dir, "item.json", `{"sku": "A1", "qty": 2}`)
	out, err = run(t, "", "--dir", outDir, "validate", "Item", data)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestUnknownStore(t *testing.T) {
	_, err := run(t, "", "--store", "etcd", "list")
	assert.ErrorContains(t, err, "unknown store")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "contour version "))
}

func TestExplainCommand_Mermaid(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "user.yaml", userSchema)
	data := writeFile(t, dir, "data.json", `{"id": 7}`)

	out, err := run(t, "", "explain", "--mermaid", "--data", data, schemaPath)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class n1 failed;")
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeFile(t, dir, "v1.yaml", userSchema)
	newPath := writeFile(t, dir, "v2.yaml", `type: object
required: true
properties:
  id:
    type: number
requiredKeys: [id]
`)

	out, err := run(t, "", "diff", oldPath, oldPath)
	require.NoError(t, err)
	assert.Equal(t, "no changes\n", out)

	out, err = run(t, "", "diff", oldPath, newPath)
	require.NoError(t, err)
	assert.Contains(t, out, "! $.id retyped (string -> number)")
	assert.Contains(t, out, "  $.name removed")

	_, err = run(t, "", "diff", "--fail-on-breaking", oldPath, newPath)
	assert.ErrorIs(t, err, errRejected)
}
