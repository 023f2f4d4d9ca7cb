package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seekql/seekql/dialect"
	"github.com/seekql/seekql/dialect/sql"
	"github.com/seekql/seekql/schema"
	"github.com/seekql/seekql/schema/field"
)

func cliRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	users, err := schema.NewTable("users",
		field.Int("id").Unique(),
		field.Bool("active"),
		field.Int("age"),
		field.String("email"),
		field.String("nickname").Nillable(),
		field.Enum("status").Values("active", "pending", "disabled"),
	)
	require.NoError(t, err)
	reg, err := schema.NewRegistry(users)
	require.NoError(t, err)
	return reg
}

func decodeRequest(t *testing.T, doc string) *Request {
	t.Helper()
	req := &Request{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), req))
	return req
}

func renderRequest(t *testing.T, doc string) (*sql.Statement, error) {
	t.Helper()
	b, err := sql.NewBuilder(dialect.Postgres, cliRegistry(t))
	require.NoError(t, err)
	return decodeRequest(t, doc).Statement(b)
}

func TestRequestSelect(t *testing.T) {
	st, err := renderRequest(t, `
op: select
table: users
filter:
  field: active
  eq: true
sort: id
limit: 10
page: 2
`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "active" = $1 ORDER BY "id" ASC LIMIT $2 OFFSET $3`, st.SQL)
	assert.Equal(t, []any{true, int64(10), int64(10)}, st.Args)
}

func TestRequestFilterTree(t *testing.T) {
	st, err := renderRequest(t, `
table: users
columns: [id, email]
filter:
  and:
    - {field: age, gte: 18}
    - or:
        - {field: nickname, is_null: true}
        - {field: status, in: [active, pending]}
sort: -age,id
`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "email" FROM "users" WHERE ("age" >= $1 AND ("nickname" IS NULL OR "status" IN ($2, $3))) ORDER BY "age" DESC, "id" ASC`, st.SQL)
	assert.Equal(t, []any{int64(18), "active", "pending"}, st.Args)
}

func TestRequestNotAndPatterns(t *testing.T) {
	st, err := renderRequest(t, `
table: users
filter:
  not:
    field: email
    suffix: "@example.com"
`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE NOT ("email" LIKE $1 ESCAPE '\')`, st.SQL)
	assert.Equal(t, []any{"%@example.com"}, st.Args)
}

func TestRequestMutations(t *testing.T) {
	t.Run("Insert", func(t *testing.T) {
		st, err := renderRequest(t, `
op: insert
table: users
sets:
  - {column: email, value: a@b.example}
  - {column: active, value: true}
returning: [id]
`)
		require.NoError(t, err)
		assert.Equal(t, `INSERT INTO "users" ("email", "active") VALUES ($1, $2) RETURNING "id"`, st.SQL)
		assert.Equal(t, []any{"a@b.example", true}, st.Args)
	})

	t.Run("Update", func(t *testing.T) {
		st, err := renderRequest(t, `
op: update
table: users
sets:
  - {column: active, value: false}
filter:
  field: id
  eq: 7
`)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE "users" SET "active" = $1 WHERE "id" = $2`, st.SQL)
		assert.Equal(t, []any{false, int64(7)}, st.Args)
	})

	t.Run("Delete", func(t *testing.T) {
		st, err := renderRequest(t, `
op: delete
table: users
filter:
  field: status
  eq: disabled
`)
		require.NoError(t, err)
		assert.Equal(t, `DELETE FROM "users" WHERE "status" = $1`, st.SQL)
		assert.Equal(t, []any{"disabled"}, st.Args)
	})
}

func TestRequestScalarOperands(t *testing.T) {
	t.Run("ExplicitNullEquality", func(t *testing.T) {
		st, err := renderRequest(t, "table: users\nfilter:\n  field: nickname\n  eq: null")
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM "users" WHERE "nickname" IS NULL`, st.SQL)
		assert.Empty(t, st.Args)
	})

	t.Run("MixedScalarKinds", func(t *testing.T) {
		st, err := renderRequest(t, `
table: users
filter:
  and:
    - {field: active, eq: false}
    - {field: age, between: [21, 65]}
    - {field: email, neq: root@example.com}
`)
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM "users" WHERE ("active" = $1 AND "age" BETWEEN $2 AND $3 AND "email" <> $4)`, st.SQL)
		assert.Equal(t, []any{false, int64(21), int64(65), "root@example.com"}, st.Args)
	})
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "UnknownOp",
			doc:  "op: upsert\ntable: users",
			want: "unknown op",
		},
		{
			name: "LeafWithoutOperator",
			doc:  "table: users\nfilter:\n  field: active",
			want: "no operator",
		},
		{
			name: "TwoOperatorsOneNode",
			doc:  "table: users\nfilter:\n  field: age\n  gte: 1\n  lte: 9",
			want: "more than one operator",
		},
		{
			name: "BetweenArity",
			doc:  "table: users\nfilter:\n  field: age\n  between: [1]",
			want: "between takes",
		},
		{
			name: "GrouplessNode",
			doc:  "table: users\nfilter:\n  is_null: true",
			want: "needs a field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderRequest(t, tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRequestPagination(t *testing.T) {
	t.Run("LimitAlone", func(t *testing.T) {
		st, err := renderRequest(t, "table: users\nsort: id\nlimit: 5")
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM "users" ORDER BY "id" ASC LIMIT $1 OFFSET $2`, st.SQL)
		assert.Equal(t, []any{int64(5), int64(0)}, st.Args)
	})

	t.Run("KeysetFirstPage", func(t *testing.T) {
		st, err := renderRequest(t, "table: users\nsort: id\nlimit: 5\nkeyset: true")
		require.NoError(t, err)
		assert.Equal(t, `SELECT * FROM "users" ORDER BY "id" ASC LIMIT $1`, st.SQL)
		assert.Equal(t, []any{int64(6)}, st.Args)
	})
}
