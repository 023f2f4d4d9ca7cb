// Package dialect abstracts the differences between supported SQL
// engines.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL database
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Adapter Interface
//
// An Adapter captures everything that varies between engines
// (identifier quoting, bind-placeholder style, case-insensitive LIKE,
// RETURNING support, NULLS FIRST/LAST support) so the query builder
// renders structurally identical SQL everywhere:
//
//	ad, err := dialect.New(dialect.Postgres)
//	ad.QuoteIdent("users") // "users"
//	ad.Placeholder(1)      // $1
//
// Capabilities an engine lacks surface as errors at build time, not at
// execution time: asking for RETURNING on MySQL fails when the
// statement is built.
package dialect
