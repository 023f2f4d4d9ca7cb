// Package sql renders statement specs into parameterized SQL for a
// chosen dialect.
//
// A Builder is bound to a dialect and a schema registry. Every
// identifier in a spec must resolve through the registry, every
// literal binds through a placeholder, and every build failure is
// reported before any SQL text exists.
//
//	reg, _ := schema.NewRegistry(users)
//	b, _ := sql.NewBuilder(dialect.Postgres, reg)
//
//	st, err := b.Select(sql.Query{
//	    Table:  "users",
//	    Filter: sql.EQ("active", true),
//	    Sort:   []sql.SortKey{{Field: "id"}},
//	    Page:   sql.PageLimit(2, 10),
//	})
//	// st.SQL:  SELECT * FROM "users" WHERE "active" = $1 ORDER BY "id" ASC LIMIT $2 OFFSET $3
//	// st.Args: [true, 10, 10]
//
// # Predicates
//
// Filters are explicit expression trees built from constructors:
//
//	sql.EQ("status", "active")
//	sql.And(sql.GTE("age", 18), sql.Or(sql.IsNull("deleted_at"), sql.In("role", "admin", "staff")))
//	sql.Contains("email", "@example.com")
//
// The prefix, suffix, and substring matchers escape LIKE wildcards in
// their operand; Like and ILike pass patterns through verbatim.
//
// # Pagination
//
// Three modes: none, LIMIT/OFFSET via PageLimit, and keyset via
// AfterCursor and BeforeCursor with opaque tokens from the cursor
// package. Keyset statements fetch one row beyond the limit; feed the
// fetched rows to cursor.Page to trim them and derive PageInfo.
//
// # Mutations
//
// Insert, Update, and Delete render single-statement mutations.
// Update and Delete refuse to build without a filter. RETURNING is
// available where the engine supports it and fails at build time
// elsewhere.
//
// # Statement caching
//
// With WithStatementCache, rendered SQL text is reused across calls
// that share a statement shape; arguments are always collected fresh.
package sql
