package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaYAML = `
tables:
  - name: users
    fields:
      - name: id
        type: int
        unique: true
      - name: email
        type: string
      - name: active
        type: bool
      - name: age
        type: int
      - name: nickname
        type: string
        nullable: true
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.yaml", testSchemaYAML)
	queryPath := writeTestFile(t, dir, "query.yaml", `
op: select
table: users
filter:
  field: active
  eq: true
sort: id
limit: 10
page: 2
`)

	t.Run("Text", func(t *testing.T) {
		out, err := runCommand(t, "build", "--schema", schemaPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, `SELECT * FROM "users" WHERE "active" = $1 ORDER BY "id" ASC LIMIT $2 OFFSET $3`)
		assert.Contains(t, out, "-- args: [true, 10, 10]")
	})

	t.Run("JSON", func(t *testing.T) {
		out, err := runCommand(t, "--format", "json", "build", "--schema", schemaPath, queryPath)
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("MySQLDialect", func(t *testing.T) {
		out, err := runCommand(t, "build", "--schema", schemaPath, "--dialect", "mysql", queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, "SELECT * FROM `users` WHERE `active` = ? ORDER BY `id` ASC LIMIT ? OFFSET ?")
	})

	t.Run("UnknownDialect", func(t *testing.T) {
		_, err := runCommand(t, "build", "--schema", schemaPath, "--dialect", "oracle", queryPath)
		require.Error(t, err)
	})

	t.Run("MissingQueryFile", func(t *testing.T) {
		_, err := runCommand(t, "build", "--schema", schemaPath, filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.yaml", testSchemaYAML)

	t.Run("Valid", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "ok.yaml", "table: users\nsort: id\nlimit: 5")
		out, err := runCommand(t, "validate", "--schema", schemaPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, "valid")
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "bad.yaml", "table: users\nfilter:\n  field: missing\n  eq: 1")
		out, err := runCommand(t, "validate", "--schema", schemaPath, queryPath)
		require.Error(t, err)
		assert.Contains(t, out, "invalid")
		assert.Contains(t, out, "missing")
	})

	t.Run("MaxDepthExceeded", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "deep.yaml", `
table: users
filter:
  and:
    - or:
        - {field: active, eq: true}
`)
		out, err := runCommand(t, "validate", "--schema", schemaPath, "--max-depth", "2", queryPath)
		require.Error(t, err)
		assert.Contains(t, out, "depth")

		_, err = runCommand(t, "validate", "--schema", schemaPath, queryPath)
		require.NoError(t, err)
	})

	t.Run("UnknownQueryKey", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "typo.yaml", "table: users\nsortt: id")
		_, err := runCommand(t, "validate", "--schema", schemaPath, queryPath)
		require.Error(t, err)
	})
}
