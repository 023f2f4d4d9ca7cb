package sql

import (
	"fmt"

	"github.com/seekql/seekql"
	"github.com/seekql/seekql/cursor"
	"github.com/seekql/seekql/schema"
)

// keysetPredicate turns a decoded cursor into the filter selecting
// rows strictly beyond the cursor row in travel direction. For sort
// keys (a, b, c) it is the standard lexicographic disjunction:
//
//	(a beyond ?) OR (a = ? AND b beyond ?) OR (a = ? AND b = ? AND c beyond ?)
//
// where "beyond" is > or < depending on the key's effective direction
// (Before travel flips every key). NULL handling follows the key's
// effective null placement: a NULL cursor value on a key whose NULLs
// sort last in travel direction has nothing beyond it, so that
// disjunct is dropped; on a key whose NULLs sort first, everything
// non-null lies beyond. A non-null cursor value on a nullable key with
// NULLs still ahead also accepts NULL in its strict comparison. If
// every disjunct drops, the predicate is a contradiction.
func keysetPredicate(tbl *schema.Table, sort []SortKey, cur cursor.Cursor) (*Predicate, error) {
	if len(cur.Names) != len(sort) {
		return nil, seekql.NewInvalidCursorError(
			fmt.Sprintf("token has %d sort keys, query has %d", len(cur.Names), len(sort)))
	}
	flip := cur.Direction == cursor.Before
	values := make([]any, len(sort))
	for i, k := range sort {
		if cur.Names[i] != k.Field {
			return nil, seekql.NewInvalidCursorError(
				fmt.Sprintf("token sort key %d is %q, query has %q", i, cur.Names[i], k.Field))
		}
		fd, err := tbl.Column(k.Field)
		if err != nil {
			return nil, err
		}
		if cur.Values[i] == nil {
			if !fd.Nillable {
				return nil, seekql.NewInvalidCursorError(
					fmt.Sprintf("null value for non-nullable column %q", k.Field))
			}
			continue
		}
		v, ok := fd.Type.Normalize(cur.Values[i])
		if !ok {
			return nil, seekql.NewInvalidCursorError(
				fmt.Sprintf("value for %q is not a %s", k.Field, fd.Type))
		}
		values[i] = v
	}

	var disjuncts []*Predicate
	for i, k := range sort {
		strict := strictBeyond(tbl, k, values[i], flip)
		if strict == nil {
			continue
		}
		parts := make([]*Predicate, 0, i+1)
		for j := 0; j < i; j++ {
			if values[j] == nil {
				parts = append(parts, IsNull(sort[j].Field))
			} else {
				parts = append(parts, EQ(sort[j].Field, values[j]))
			}
		}
		parts = append(parts, strict)
		if len(parts) == 1 {
			disjuncts = append(disjuncts, parts[0])
		} else {
			disjuncts = append(disjuncts, And(parts...))
		}
	}
	switch len(disjuncts) {
	case 0:
		return matchNothing(), nil
	case 1:
		return disjuncts[0], nil
	}
	return Or(disjuncts...), nil
}

// EncodeCursor builds a continuation token from the boundary row of a
// page. values holds the row's sort-key column values in sort order;
// travel direction decides which way the token walks from that row.
// Every sort key must resolve to a comparable column, and each value
// must be typeable for it, nil only on nullable columns.
func (b *Builder) EncodeCursor(table string, sort []SortKey, dir cursor.Direction, values []any) (string, error) {
	tbl, err := b.reg.Table(table)
	if err != nil {
		return "", err
	}
	v := &validator{tbl: tbl}
	if err := v.sort(sort); err != nil {
		return "", err
	}
	if len(values) != len(sort) {
		return "", fmt.Errorf("sql: cursor row has %d values, sort has %d keys", len(values), len(sort))
	}
	names := make([]string, len(sort))
	vals := make([]any, len(sort))
	for i, k := range sort {
		fd, err := tbl.Column(k.Field)
		if err != nil {
			return "", err
		}
		names[i] = k.Field
		if values[i] == nil {
			if !fd.Nillable {
				return "", seekql.NewTypeMismatchError(k.Field, fd.Type.String(), nil)
			}
			continue
		}
		n, ok := fd.Type.Normalize(values[i])
		if !ok {
			return "", seekql.NewTypeMismatchError(k.Field, fd.Type.String(), values[i])
		}
		vals[i] = n
	}
	return cursor.Encode(cursor.Cursor{Direction: dir, Names: names, Values: vals})
}

// strictBeyond builds the "strictly past the cursor value" comparison
// for one sort key, or nil when nothing can lie beyond it.
func strictBeyond(tbl *schema.Table, k SortKey, value any, flip bool) *Predicate {
	ord, nulls := effectiveKey(k, flip)
	if value == nil {
		if nulls == NullsLast {
			// NULLs terminate the travel order; nothing follows them.
			return nil
		}
		return NotNull(k.Field)
	}
	var base *Predicate
	if ord == Asc {
		base = GT(k.Field, value)
	} else {
		base = LT(k.Field, value)
	}
	if nulls == NullsLast {
		if fd, err := tbl.Column(k.Field); err == nil && fd.Nillable {
			return Or(base, IsNull(k.Field))
		}
	}
	return base
}
