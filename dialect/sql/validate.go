package sql

import (
	"fmt"
	"strings"
	"time"

	"github.com/seekql/seekql"
	"github.com/seekql/seekql/schema"
	"github.com/seekql/seekql/schema/field"
)

// validator checks a statement spec against one table before anything
// is rendered. All schema and type errors surface here; the render
// walk can then assume every node is well formed. When checking a
// HAVING filter, aliases carries the aggregate output descriptors and
// grouped restricts plain column references to the GROUP BY list.
type validator struct {
	tbl      *schema.Table
	maxDepth int // 0 disables the nesting limit
	aliases  map[string]*field.Descriptor
	grouped  map[string]struct{}
}

func (v *validator) columns(cols []string) error {
	for _, c := range cols {
		if !v.tbl.Has(c) {
			return seekql.NewUnknownFieldError(v.tbl.Name(), c)
		}
	}
	return nil
}

// column resolves a predicate field name: aggregate aliases first,
// then table columns, restricted to grouped ones inside HAVING.
func (v *validator) column(name string) (*field.Descriptor, error) {
	if fd, ok := v.aliases[name]; ok {
		return fd, nil
	}
	fd, err := v.tbl.Column(name)
	if err != nil {
		return nil, err
	}
	if v.grouped != nil {
		if _, ok := v.grouped[name]; !ok {
			return nil, fmt.Errorf("sql: having references ungrouped column %q", name)
		}
	}
	return fd, nil
}

func (v *validator) filter(p *Predicate) error {
	if p == nil {
		return nil
	}
	return v.node(p, 1)
}

func (v *validator) node(p *Predicate, depth int) error {
	if v.maxDepth > 0 && depth > v.maxDepth {
		return fmt.Errorf("sql: filter nesting depth exceeds maximum %d", v.maxDepth)
	}
	switch p.kind {
	case kindAnd, kindOr:
		if len(p.children) == 0 {
			op := "and"
			if p.kind == kindOr {
				op = "or"
			}
			return seekql.NewEmptyLogicalGroupError(op, 0)
		}
		for _, c := range p.children {
			if err := v.node(c, depth+1); err != nil {
				return err
			}
		}
	case kindNot:
		if len(p.children) != 1 {
			return seekql.NewEmptyLogicalGroupError("not", len(p.children))
		}
		return v.node(p.children[0], depth+1)
	case kindCmp:
		fd, err := v.column(p.field)
		if err != nil {
			return err
		}
		return v.literal(fd, p.value)
	case kindMatch:
		fd, err := v.column(p.field)
		if err != nil {
			return err
		}
		if fd.Type != field.TypeString {
			return seekql.NewTypeMismatchError(p.field, fd.Type.String(), p.value)
		}
	case kindIn:
		fd, err := v.column(p.field)
		if err != nil {
			return err
		}
		if len(p.values) == 0 {
			return seekql.NewEmptyLogicalGroupError("in", 0)
		}
		for _, val := range p.values {
			if err := v.literal(fd, val); err != nil {
				return err
			}
		}
	case kindBetween:
		fd, err := v.column(p.field)
		if err != nil {
			return err
		}
		low, err := v.normalized(fd, p.low)
		if err != nil {
			return err
		}
		high, err := v.normalized(fd, p.high)
		if err != nil {
			return err
		}
		if cmp, ok := compareValues(low, high); ok && cmp > 0 {
			return seekql.NewInvalidRangeError(p.field, p.low, p.high)
		}
	case kindNull:
		if _, err := v.column(p.field); err != nil {
			return err
		}
	case kindFalse:
	}
	return nil
}

// literal rejects nil and type-incompatible values. NULL comparisons
// go through IsNull and NotNull, never through literals.
func (v *validator) literal(fd *field.Descriptor, val any) error {
	_, err := v.normalized(fd, val)
	return err
}

func (v *validator) normalized(fd *field.Descriptor, val any) (any, error) {
	if val == nil {
		return nil, seekql.NewTypeMismatchError(fd.Name, fd.Type.String(), nil)
	}
	n, ok := fd.Type.Normalize(val)
	if !ok {
		return nil, seekql.NewTypeMismatchError(fd.Name, fd.Type.String(), val)
	}
	return n, nil
}

func (v *validator) sort(keys []SortKey) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		fd, err := v.tbl.Column(k.Field)
		if err != nil {
			return err
		}
		if !fd.Type.Comparable() {
			return fmt.Errorf("sql: cannot sort by %s column %q", fd.Type, k.Field)
		}
		if _, ok := seen[k.Field]; ok {
			return fmt.Errorf("sql: duplicate sort key %q", k.Field)
		}
		seen[k.Field] = struct{}{}
	}
	return nil
}

// grouping validates aggregates, GROUP BY, and HAVING as one unit. A
// grouped query selects only grouped columns and aggregates; its sort
// keys must be grouped too, and cursor pagination is refused because a
// grouped row has no keyset identity.
func (v *validator) grouping(q Query) error {
	if len(q.Aggregates) == 0 && len(q.GroupBy) == 0 {
		if q.Having != nil {
			return fmt.Errorf("sql: having requires aggregates or group by")
		}
		return nil
	}
	if len(q.Columns) == 0 && len(q.Aggregates) == 0 {
		return fmt.Errorf("sql: grouped query selects no columns")
	}
	if err := v.columns(q.GroupBy); err != nil {
		return err
	}
	grouped := make(map[string]struct{}, len(q.GroupBy))
	for _, c := range q.GroupBy {
		grouped[c] = struct{}{}
	}
	aliases := make(map[string]*field.Descriptor, len(q.Aggregates))
	for _, a := range q.Aggregates {
		if a.Field == "" {
			if a.Func != AggCount {
				return fmt.Errorf("sql: %s requires a column", a.Func)
			}
		} else {
			fd, err := v.tbl.Column(a.Field)
			if err != nil {
				return err
			}
			switch a.Func {
			case AggSum, AggAvg:
				if fd.Type != field.TypeInt && fd.Type != field.TypeFloat {
					return fmt.Errorf("sql: %s needs a numeric column, %q is %s", a.Func, a.Field, fd.Type)
				}
			case AggMin, AggMax:
				if !fd.Type.Comparable() {
					return fmt.Errorf("sql: cannot take %s of %s column %q", a.Func, fd.Type, a.Field)
				}
			}
		}
		if a.Alias == "" {
			continue
		}
		if v.tbl.Has(a.Alias) {
			return fmt.Errorf("sql: aggregate alias %q shadows a column", a.Alias)
		}
		if _, ok := aliases[a.Alias]; ok {
			return fmt.Errorf("sql: duplicate aggregate alias %q", a.Alias)
		}
		aliases[a.Alias] = aggDescriptor(a, v.tbl)
	}
	for _, c := range q.Columns {
		if _, ok := grouped[c]; !ok {
			return fmt.Errorf("sql: column %q is selected but not grouped", c)
		}
	}
	for _, k := range q.Sort {
		if _, ok := grouped[k.Field]; !ok {
			return fmt.Errorf("sql: sort key %q is not grouped", k.Field)
		}
	}
	if q.Page.IsCursor() {
		return fmt.Errorf("%w: cursor pagination cannot page grouped results", seekql.ErrInvalidPagination)
	}
	if q.Having != nil {
		hv := &validator{tbl: v.tbl, maxDepth: v.maxDepth, aliases: aliases, grouped: grouped}
		return hv.filter(q.Having)
	}
	return nil
}

// aggDescriptor types an aggregate's output: counts are integers,
// averages are floats, the rest keep their column's type.
func aggDescriptor(a Aggregate, tbl *schema.Table) *field.Descriptor {
	fd := &field.Descriptor{Name: a.Alias, Type: field.TypeInt}
	switch a.Func {
	case AggAvg:
		fd.Type = field.TypeFloat
	case AggSum, AggMin, AggMax:
		if cd, err := tbl.Column(a.Field); err == nil {
			fd.Type = cd.Type
		}
	}
	return fd
}

func (v *validator) pagination(p Pagination, sortLen, maxLimit int) error {
	switch p.kind {
	case pageNone:
		return nil
	case pageOffset:
		if p.page < 1 || p.limit < 1 {
			return fmt.Errorf("%w: page %d, limit %d", seekql.ErrInvalidPagination, p.page, p.limit)
		}
	case pageCursor:
		if p.limit < 1 {
			return fmt.Errorf("%w: limit %d", seekql.ErrInvalidPagination, p.limit)
		}
		if sortLen == 0 {
			return fmt.Errorf("%w: cursor pagination requires a sort order", seekql.ErrInvalidPagination)
		}
	}
	if maxLimit > 0 && p.limit > maxLimit {
		return seekql.NewPageSizeExceededError(p.limit, maxLimit)
	}
	return nil
}

func (v *validator) assignments(sets []Assignment) error {
	if len(sets) == 0 {
		return fmt.Errorf("sql: statement has no column assignments")
	}
	seen := make(map[string]struct{}, len(sets))
	for _, a := range sets {
		fd, err := v.tbl.Column(a.Column)
		if err != nil {
			return err
		}
		if _, ok := seen[a.Column]; ok {
			return fmt.Errorf("sql: duplicate assignment for column %q", a.Column)
		}
		seen[a.Column] = struct{}{}
		if a.Value == nil {
			if !fd.Nillable {
				return seekql.NewTypeMismatchError(a.Column, fd.Type.String(), nil)
			}
			continue
		}
		if _, ok := fd.Type.Normalize(a.Value); !ok {
			return seekql.NewTypeMismatchError(a.Column, fd.Type.String(), a.Value)
		}
	}
	return nil
}

// rows checks a multi-row insert: each row passes the single-row
// checks and assigns the same columns in the same order as the first.
func (v *validator) rows(rows [][]Assignment) error {
	if err := v.assignments(rows[0]); err != nil {
		return err
	}
	for _, row := range rows[1:] {
		if err := v.assignments(row); err != nil {
			return err
		}
		if len(row) != len(rows[0]) {
			return fmt.Errorf("sql: insert rows assign different columns")
		}
		for i := range row {
			if row[i].Column != rows[0][i].Column {
				return fmt.Errorf("sql: insert rows assign different columns")
			}
		}
	}
	return nil
}

// compareValues orders two normalized literals of the same kind. The
// boolean result is false when the pair has no static order.
func compareValues(a, b any) (int, bool) {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}
