package cli

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func seedDatabase(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "app.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		email TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		age INTEGER NOT NULL,
		nickname TEXT
	)`)
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		_, err = db.Exec(`INSERT INTO users (id, email, active, age, nickname) VALUES (?, ?, ?, ?, ?)`,
			i, fmt.Sprintf("u%d@example.com", i), i%2 == 0, 20+i, nil)
		require.NoError(t, err)
	}
	return path
}

func TestExecCommand(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestFile(t, dir, "schema.yaml", testSchemaYAML)
	dbPath := seedDatabase(t, dir)

	t.Run("Select", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "select.yaml", `
table: users
columns: [id, email]
filter:
  field: active
  eq: true
sort: id
`)
		out, err := runCommand(t, "exec", "--schema", schemaPath, "--db", dbPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, `"id":2`)
		assert.Contains(t, out, `"id":4`)
		assert.NotContains(t, out, `"id":3`)
	})

	t.Run("KeysetPage", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "keyset.yaml", `
table: users
sort: id
limit: 2
keyset: true
`)
		out, err := runCommand(t, "exec", "--schema", schemaPath, "--db", dbPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, `"id":1`)
		assert.Contains(t, out, `"id":2`)
		assert.NotContains(t, out, `"id":3`)
		assert.Contains(t, out, "has next: true")
		assert.Contains(t, out, "total: 5")
		assert.Contains(t, out, "end cursor: ")
	})

	t.Run("Update", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "update.yaml", `
op: update
table: users
sets:
  - {column: nickname, value: smith}
filter:
  field: id
  eq: 1
`)
		out, err := runCommand(t, "exec", "--schema", schemaPath, "--db", dbPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, "rows affected: 1")
	})

	t.Run("DeleteReturning", func(t *testing.T) {
		queryPath := writeTestFile(t, dir, "delete.yaml", `
op: delete
table: users
filter:
  field: id
  eq: 5
returning: [id, email]
`)
		out, err := runCommand(t, "exec", "--schema", schemaPath, "--db", dbPath, queryPath)
		require.NoError(t, err)
		assert.Contains(t, out, `"id":5`)
	})
}
