package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekql/seekql"
	"github.com/seekql/seekql/schema"
	"github.com/seekql/seekql/schema/field"
)

func TestNewTable(t *testing.T) {
	users, err := schema.NewTable("users",
		field.UUID("id").Unique(),
		field.String("email"),
		field.String("nickname").Nillable(),
		field.Time("created_at"),
	)
	require.NoError(t, err)
	assert.Equal(t, "users", users.Name())
	assert.Len(t, users.Columns(), 4)
	assert.True(t, users.Has("email"))
	assert.False(t, users.Has("password"))

	fd, err := users.Column("nickname")
	require.NoError(t, err)
	assert.True(t, fd.Nillable)
	assert.Equal(t, field.TypeString, fd.Type)

	_, err = users.Column("password")
	assert.True(t, seekql.IsUnknownField(err))
}

func TestNewTableErrors(t *testing.T) {
	t.Run("InvalidTableName", func(t *testing.T) {
		_, err := schema.NewTable("users; drop table users")
		assert.True(t, seekql.IsInvalidIdentifier(err))
	})

	t.Run("InvalidColumnName", func(t *testing.T) {
		_, err := schema.NewTable("users", field.String(`email" OR 1=1`))
		assert.True(t, seekql.IsInvalidIdentifier(err))
	})

	t.Run("DuplicateColumn", func(t *testing.T) {
		_, err := schema.NewTable("users", field.String("email"), field.Int("email"))
		assert.ErrorContains(t, err, "duplicate column")
	})
}

func TestRegistry(t *testing.T) {
	users, err := schema.NewTable("users", field.UUID("id"))
	require.NoError(t, err)
	orders, err := schema.NewTable("orders", field.UUID("id"))
	require.NoError(t, err)

	r, err := schema.NewRegistry(users, orders)
	require.NoError(t, err)

	got, err := r.Table("orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name())

	_, err = r.Table("payments")
	assert.True(t, seekql.IsUnknownTable(err))

	_, err = schema.NewRegistry(users, users)
	assert.ErrorContains(t, err, "duplicate table")
}

func TestValidIdentifier(t *testing.T) {
	valid := []string{"users", "_private", "created_at", "a", "Order2", strings.Repeat("a", 63)}
	for _, s := range valid {
		assert.True(t, schema.ValidIdentifier(s), s)
	}

	invalid := []string{"", "1st", "user-name", "user name", `us"ers`, "naïve", strings.Repeat("a", 64)}
	for _, s := range invalid {
		assert.False(t, schema.ValidIdentifier(s), s)
	}
}

func TestLoad(t *testing.T) {
	doc := `
tables:
  - name: users
    fields:
      - name: id
        type: uuid
        unique: true
      - name: email
        type: string
      - name: nickname
        type: string
        nullable: true
      - name: status
        type: enum
        values: [active, pending]
      - name: created_at
        type: timestamp
`
	r, err := schema.Load(strings.NewReader(doc))
	require.NoError(t, err)

	users, err := r.Table("users")
	require.NoError(t, err)
	assert.Len(t, users.Columns(), 5)

	id, err := users.Column("id")
	require.NoError(t, err)
	assert.Equal(t, field.TypeUUID, id.Type)
	assert.True(t, id.Unique)

	status, err := users.Column("status")
	require.NoError(t, err)
	assert.Equal(t, field.TypeEnum, status.Type)
	assert.Equal(t, []string{"active", "pending"}, status.Enums)
}

func TestLoadErrors(t *testing.T) {
	t.Run("UnknownType", func(t *testing.T) {
		_, err := schema.Load(strings.NewReader(`
tables:
  - name: users
    fields:
      - name: id
        type: decimal
`))
		assert.ErrorContains(t, err, "unknown type")
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := schema.Load(strings.NewReader(`
tables:
  - name: users
    fields:
      - name: id
        type: uuid
        primary: true
`))
		assert.ErrorContains(t, err, "decoding yaml")
	})

	t.Run("InvalidIdentifier", func(t *testing.T) {
		_, err := schema.Load(strings.NewReader(`
tables:
  - name: "users; --"
    fields:
      - name: id
        type: uuid
`))
		assert.True(t, seekql.IsInvalidIdentifier(err))
	})
}
