package dialect

import "fmt"

// Dialect names.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// An Adapter answers the dialect-specific questions the query builder
// asks while rendering. Adapters are stateless and safe for concurrent
// use; everything that varies between engines is behind this interface
// so that the builder emits structurally identical SQL on every
// dialect.
type Adapter interface {
	// Name returns the dialect constant.
	Name() string

	// QuoteIdent quotes an already-validated identifier. Identifiers
	// pass the schema grammar before reaching the adapter, so no
	// escaping is ever required inside the quotes.
	QuoteIdent(name string) string

	// Placeholder returns the 1-based n-th bind placeholder:
	// $1 on Postgres, ?1 on SQLite, ? on MySQL.
	Placeholder(n int) string

	// LikeOperator returns the pattern-match operator. Postgres has a
	// native case-insensitive form; the others fall back to LIKE,
	// which on MySQL is case-insensitive under default collations
	// anyway.
	LikeOperator(caseInsensitive bool) string

	// SupportsReturning reports whether the engine accepts a
	// RETURNING clause on INSERT, UPDATE, and DELETE.
	SupportsReturning() bool

	// SupportsNullsOrdering reports whether ORDER BY accepts NULLS
	// FIRST / NULLS LAST. Where it does not, null placement is
	// emulated with an IS NULL prefix key.
	SupportsNullsOrdering() bool

	// NeedsLikeEscape reports whether an explicit ESCAPE '\' clause
	// accompanies patterns containing escaped wildcards. SQLite's
	// LIKE has no default escape character at all, and on Postgres
	// the explicit clause keeps the rendered predicate identical to
	// SQLite's. MySQL's default escape is already the backslash, and
	// its string literals treat backslash specially, so the clause is
	// omitted there.
	NeedsLikeEscape() bool
}

// New returns the Adapter for the named dialect.
func New(name string) (Adapter, error) {
	switch name {
	case Postgres:
		return postgres{}, nil
	case MySQL:
		return mysql{}, nil
	case SQLite:
		return sqlite{}, nil
	}
	return nil, fmt.Errorf("dialect: unsupported dialect %q", name)
}

type postgres struct{}

func (postgres) Name() string { return Postgres }

func (postgres) QuoteIdent(name string) string { return `"` + name + `"` }

func (postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgres) LikeOperator(caseInsensitive bool) string {
	if caseInsensitive {
		return "ILIKE"
	}
	return "LIKE"
}

func (postgres) SupportsReturning() bool     { return true }
func (postgres) SupportsNullsOrdering() bool { return true }
func (postgres) NeedsLikeEscape() bool       { return true }

type mysql struct{}

func (mysql) Name() string { return MySQL }

func (mysql) QuoteIdent(name string) string { return "`" + name + "`" }

func (mysql) Placeholder(int) string { return "?" }

func (mysql) LikeOperator(bool) string { return "LIKE" }

func (mysql) SupportsReturning() bool     { return false }
func (mysql) SupportsNullsOrdering() bool { return false }
func (mysql) NeedsLikeEscape() bool       { return false }

type sqlite struct{}

func (sqlite) Name() string { return SQLite }

func (sqlite) QuoteIdent(name string) string { return `"` + name + `"` }

func (sqlite) Placeholder(n int) string { return fmt.Sprintf("?%d", n) }

func (sqlite) LikeOperator(bool) string { return "LIKE" }

func (sqlite) SupportsReturning() bool     { return true }
func (sqlite) SupportsNullsOrdering() bool { return true }
func (sqlite) NeedsLikeEscape() bool       { return true }
