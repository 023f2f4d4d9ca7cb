package sql

import (
	"fmt"
	"strings"

	"github.com/seekql/seekql/cursor"
)

// An Order is a sort direction.
type Order uint8

// Sort directions.
const (
	Asc Order = iota
	Desc
)

// String returns the SQL keyword for the direction.
func (o Order) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// reverse flips the direction, used when a Before cursor walks the
// sort order backward.
func (o Order) reverse() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// Nulls states where NULL values sort relative to non-null ones.
type Nulls uint8

// Null placements. NullsDefault resolves to last on ascending keys and
// first on descending ones, which treats NULL as the largest value on
// every dialect.
const (
	NullsDefault Nulls = iota
	NullsFirst
	NullsLast
)

// A SortKey orders results by one column.
type SortKey struct {
	Field string
	Order Order
	Nulls Nulls
}

// ParseSortString parses a comma-separated sort expression in the
// common REST shape: a leading '-' selects descending order, an
// optional leading '+' ascending.
//
//	ParseSortString("name,-created_at")
func ParseSortString(s string) ([]SortKey, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		key := SortKey{}
		switch {
		case strings.HasPrefix(part, "-"):
			key.Order = Desc
			part = part[1:]
		case strings.HasPrefix(part, "+"):
			part = part[1:]
		}
		if part == "" {
			return nil, fmt.Errorf("sql: empty sort field in %q", s)
		}
		key.Field = part
		keys = append(keys, key)
	}
	return keys, nil
}

// pageKind discriminates pagination modes.
type pageKind uint8

const (
	pageNone pageKind = iota
	pageOffset
	pageCursor
)

// A Pagination selects one of three modes: none (the zero value),
// page/limit with OFFSET, or keyset with an opaque cursor token.
type Pagination struct {
	kind  pageKind
	page  int
	limit int
	token string
	dir   cursor.Direction
}

// PageLimit paginates with LIMIT and OFFSET. Pages are 1-based.
func PageLimit(page, limit int) Pagination {
	return Pagination{kind: pageOffset, page: page, limit: limit}
}

// AfterCursor paginates forward from a token. An empty token requests
// the first page.
func AfterCursor(limit int, token string) Pagination {
	return Pagination{kind: pageCursor, limit: limit, token: token, dir: cursor.After}
}

// BeforeCursor paginates backward from a token. An empty token
// requests the last page.
func BeforeCursor(limit int, token string) Pagination {
	return Pagination{kind: pageCursor, limit: limit, token: token, dir: cursor.Before}
}

// IsCursor reports whether the pagination is cursor-based.
func (p Pagination) IsCursor() bool { return p.kind == pageCursor }

// Limit returns the requested page size, 0 when unpaginated.
func (p Pagination) Limit() int { return p.limit }

// Direction returns the cursor travel direction.
func (p Pagination) Direction() cursor.Direction { return p.dir }

// A Statement is a rendered query: SQL text with bind placeholders and
// the arguments for them, in placeholder order.
type Statement struct {
	SQL  string
	Args []any
}

// An AggregateFunc names a SQL aggregate function.
type AggregateFunc uint8

// Aggregate functions.
const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// String returns the SQL keyword for the function.
func (f AggregateFunc) String() string {
	switch f {
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	}
	return "COUNT"
}

// An Aggregate selects a computed column. An empty Field is only valid
// for COUNT and counts rows. When grouped results feed a HAVING
// filter, leaves naming the Alias render the aggregate expression
// itself, which works on engines that refuse aliases there.
type Aggregate struct {
	Func     AggregateFunc
	Field    string
	Distinct bool
	Alias    string
}

// Count selects COUNT(*).
func Count() Aggregate { return Aggregate{Func: AggCount} }

// CountDistinct selects COUNT(DISTINCT field).
func CountDistinct(field string) Aggregate {
	return Aggregate{Func: AggCount, Field: field, Distinct: true}
}

// Sum selects SUM(field). The column must be numeric.
func Sum(field string) Aggregate { return Aggregate{Func: AggSum, Field: field} }

// Avg selects AVG(field). The column must be numeric.
func Avg(field string) Aggregate { return Aggregate{Func: AggAvg, Field: field} }

// Min selects MIN(field).
func Min(field string) Aggregate { return Aggregate{Func: AggMin, Field: field} }

// Max selects MAX(field).
func Max(field string) Aggregate { return Aggregate{Func: AggMax, Field: field} }

// As names the aggregate's output column.
func (a Aggregate) As(alias string) Aggregate {
	a.Alias = alias
	return a
}

// A Query specifies a SELECT. A nil Filter selects all rows; an empty
// Columns list with no Aggregates selects *. When Aggregates or
// GroupBy are set the query is grouped: every plain column and sort
// key must then appear in GroupBy, and cursor pagination is refused
// because grouped rows have no stable keyset.
type Query struct {
	Table      string
	Columns    []string
	Aggregates []Aggregate
	GroupBy    []string
	Filter     *Predicate
	Having     *Predicate
	Sort       []SortKey
	Page       Pagination
}

// An Assignment sets one column in an INSERT or UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// Set returns a column assignment.
func Set(column string, v any) Assignment {
	return Assignment{Column: column, Value: v}
}

// An Insert specifies an INSERT. Sets inserts a single row; Rows
// inserts several in one statement, and every row must assign the same
// columns in the same order. Exactly one of the two is set. Returning
// asks the engine to hand back the listed columns of the inserted
// rows; it fails at build time on dialects without RETURNING.
type Insert struct {
	Table     string
	Sets      []Assignment
	Rows      [][]Assignment
	Returning []string
}

// An Update specifies an UPDATE. A Filter is mandatory: unfiltered
// mutations are refused rather than applied to every row.
type Update struct {
	Table     string
	Sets      []Assignment
	Filter    *Predicate
	Returning []string
}

// A Delete specifies a DELETE. A Filter is mandatory.
type Delete struct {
	Table     string
	Filter    *Predicate
	Returning []string
}
