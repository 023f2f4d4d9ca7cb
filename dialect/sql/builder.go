package sql

import (
	"errors"
	"strings"

	"github.com/seekql/seekql"
	"github.com/seekql/seekql/cursor"
	"github.com/seekql/seekql/dialect"
	"github.com/seekql/seekql/schema"
	"github.com/seekql/seekql/schema/field"
)

// DefaultMaxLimit bounds page sizes unless overridden.
const DefaultMaxLimit = 100

// A Builder renders statement specs into SQL for one dialect. It is
// immutable after construction and safe for concurrent use.
type Builder struct {
	reg      *schema.Registry
	ad       dialect.Adapter
	cache    seekql.StatementCache
	maxLimit int
	maxDepth int
}

// An Option configures a Builder.
type Option func(*Builder)

// WithStatementCache caches rendered SQL text by statement shape.
// Bound arguments are collected per call and never cached.
func WithStatementCache(c seekql.StatementCache) Option {
	return func(b *Builder) { b.cache = c }
}

// WithMaxLimit overrides the page-size ceiling. Zero disables it.
func WithMaxLimit(n int) Option {
	return func(b *Builder) { b.maxLimit = n }
}

// WithMaxFilterDepth bounds filter nesting. Zero, the default, leaves
// it unbounded.
func WithMaxFilterDepth(n int) Option {
	return func(b *Builder) { b.maxDepth = n }
}

// NewBuilder returns a Builder rendering for the named dialect.
func NewBuilder(dialectName string, reg *schema.Registry, opts ...Option) (*Builder, error) {
	ad, err := dialect.New(dialectName)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		reg:      reg,
		ad:       ad,
		cache:    nopStatementCache{},
		maxLimit: DefaultMaxLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() string { return b.ad.Name() }

type nopStatementCache struct{}

func (nopStatementCache) Get(string) (string, bool) { return "", false }
func (nopStatementCache) Add(string, string)        {}

// writer accumulates SQL text and bind arguments during one render
// walk. When sb is nil the walk only collects arguments, replaying the
// placeholder order of a cached statement. aggs maps aggregate aliases
// to their expressions while a HAVING filter renders.
type writer struct {
	sb   *strings.Builder
	ad   dialect.Adapter
	tbl  *schema.Table
	aggs map[string]Aggregate
	args []any
	n    int
}

func (w *writer) raw(s string) {
	if w.sb != nil {
		w.sb.WriteString(s)
	}
}

func (w *writer) ident(name string) {
	if w.sb != nil {
		w.sb.WriteString(w.ad.QuoteIdent(name))
	}
}

func (w *writer) bind(v any) {
	w.n++
	w.args = append(w.args, v)
	if w.sb != nil {
		w.sb.WriteString(w.ad.Placeholder(w.n))
	}
}

// returning emits the RETURNING clause. Callers validate both the
// column list and the dialect capability before the emit walk.
func (w *writer) returning(cols []string) {
	if len(cols) == 0 {
		return
	}
	w.raw(" RETURNING ")
	for i, c := range cols {
		if i > 0 {
			w.raw(", ")
		}
		w.ident(c)
	}
}

// column emits a predicate field reference. Aggregate aliases render
// their expression since engines disagree about aliases in HAVING.
func (w *writer) column(name string) {
	if a, ok := w.aggs[name]; ok {
		w.aggExpr(a)
		return
	}
	w.ident(name)
}

func (w *writer) aggExpr(a Aggregate) {
	w.raw(a.Func.String())
	w.raw("(")
	if a.Distinct {
		w.raw("DISTINCT ")
	}
	if a.Field == "" {
		w.raw("*")
	} else {
		w.ident(a.Field)
	}
	w.raw(")")
}

// bindField normalizes v for the named column before binding.
func (w *writer) bindField(name string, v any) {
	if v != nil {
		if fd := w.fieldDesc(name); fd != nil {
			if n, ok := fd.Type.Normalize(v); ok {
				v = n
			}
		}
	}
	w.bind(v)
}

func (w *writer) fieldDesc(name string) *field.Descriptor {
	if a, ok := w.aggs[name]; ok {
		return aggDescriptor(a, w.tbl)
	}
	fd, err := w.tbl.Column(name)
	if err != nil {
		return nil
	}
	return fd
}

// Select renders a SELECT statement. With cursor pagination the
// statement fetches one row beyond the limit so the caller can detect
// further pages; see cursor.Page.
func (b *Builder) Select(q Query) (*Statement, error) {
	tbl, err := b.reg.Table(q.Table)
	if err != nil {
		return nil, err
	}
	v := &validator{tbl: tbl, maxDepth: b.maxDepth}
	if err := v.columns(q.Columns); err != nil {
		return nil, err
	}
	if err := v.filter(q.Filter); err != nil {
		return nil, err
	}
	if err := v.sort(q.Sort); err != nil {
		return nil, err
	}
	if err := v.pagination(q.Page, len(q.Sort), b.maxLimit); err != nil {
		return nil, err
	}
	if err := v.grouping(q); err != nil {
		return nil, err
	}

	filter := q.Filter
	flip := false
	if q.Page.IsCursor() {
		flip = q.Page.dir == cursor.Before
		if q.Page.token != "" {
			cur, err := cursor.Decode(q.Page.token)
			if err != nil {
				return nil, err
			}
			if cur.Direction != q.Page.dir {
				return nil, seekql.NewInvalidCursorError("token direction does not match request")
			}
			ks, err := keysetPredicate(tbl, q.Sort, cur)
			if err != nil {
				return nil, err
			}
			if filter != nil {
				filter = And(filter, ks)
			} else {
				filter = ks
			}
		}
	}

	key := b.selectKey(q, filter)
	return b.render(tbl, key, func(w *writer) error {
		w.raw("SELECT ")
		if len(q.Columns) == 0 && len(q.Aggregates) == 0 {
			w.raw("*")
		} else {
			for i, c := range q.Columns {
				if i > 0 {
					w.raw(", ")
				}
				w.ident(c)
			}
			for i, a := range q.Aggregates {
				if i > 0 || len(q.Columns) > 0 {
					w.raw(", ")
				}
				w.aggExpr(a)
				if a.Alias != "" {
					w.raw(" AS ")
					w.ident(a.Alias)
				}
			}
		}
		w.raw(" FROM ")
		w.ident(q.Table)
		if filter != nil {
			w.raw(" WHERE ")
			if err := w.pred(filter); err != nil {
				return err
			}
		}
		if len(q.GroupBy) > 0 {
			w.raw(" GROUP BY ")
			for i, c := range q.GroupBy {
				if i > 0 {
					w.raw(", ")
				}
				w.ident(c)
			}
		}
		if q.Having != nil {
			w.aggs = aliasMap(q.Aggregates)
			w.raw(" HAVING ")
			if err := w.pred(q.Having); err != nil {
				return err
			}
			w.aggs = nil
		}
		if len(q.Sort) > 0 {
			w.orderBy(q.Sort, flip)
		}
		switch q.Page.kind {
		case pageOffset:
			w.raw(" LIMIT ")
			w.bind(int64(q.Page.limit))
			w.raw(" OFFSET ")
			w.bind(int64(q.Page.page-1) * int64(q.Page.limit))
		case pageCursor:
			w.raw(" LIMIT ")
			w.bind(int64(q.Page.limit) + 1)
		}
		return nil
	})
}

// aliasMap indexes aliased aggregates for HAVING rendering.
func aliasMap(aggs []Aggregate) map[string]Aggregate {
	m := make(map[string]Aggregate, len(aggs))
	for _, a := range aggs {
		if a.Alias != "" {
			m[a.Alias] = a
		}
	}
	return m
}

// Count renders a COUNT(*) of the rows the query's filter matches,
// ignoring columns, sort, and pagination. Run alongside Select it
// fills cursor.PageInfo.Total.
func (b *Builder) Count(q Query) (*Statement, error) {
	tbl, err := b.reg.Table(q.Table)
	if err != nil {
		return nil, err
	}
	v := &validator{tbl: tbl, maxDepth: b.maxDepth}
	if err := v.filter(q.Filter); err != nil {
		return nil, err
	}

	key := b.countKey(q)
	return b.render(tbl, key, func(w *writer) error {
		w.raw("SELECT COUNT(*) FROM ")
		w.ident(q.Table)
		if q.Filter != nil {
			w.raw(" WHERE ")
			return w.pred(q.Filter)
		}
		return nil
	})
}

// Insert renders an INSERT statement, single or multi-row.
func (b *Builder) Insert(ins Insert) (*Statement, error) {
	tbl, err := b.reg.Table(ins.Table)
	if err != nil {
		return nil, err
	}
	rows := ins.Rows
	v := &validator{tbl: tbl}
	if len(rows) > 0 {
		if len(ins.Sets) > 0 {
			return nil, errors.New("sql: insert sets both Sets and Rows")
		}
		if err := v.rows(rows); err != nil {
			return nil, err
		}
	} else {
		if err := v.assignments(ins.Sets); err != nil {
			return nil, err
		}
		rows = [][]Assignment{ins.Sets}
	}
	if err := b.returning(v, ins.Returning); err != nil {
		return nil, err
	}

	key := b.insertKey(ins, rows)
	return b.render(tbl, key, func(w *writer) error {
		w.raw("INSERT INTO ")
		w.ident(ins.Table)
		w.raw(" (")
		for i, a := range rows[0] {
			if i > 0 {
				w.raw(", ")
			}
			w.ident(a.Column)
		}
		w.raw(") VALUES ")
		for ri, row := range rows {
			if ri > 0 {
				w.raw(", ")
			}
			w.raw("(")
			for i, a := range row {
				if i > 0 {
					w.raw(", ")
				}
				w.bindField(a.Column, a.Value)
			}
			w.raw(")")
		}
		w.returning(ins.Returning)
		return nil
	})
}

// Update renders an UPDATE statement. A filter is mandatory.
func (b *Builder) Update(u Update) (*Statement, error) {
	tbl, err := b.reg.Table(u.Table)
	if err != nil {
		return nil, err
	}
	if u.Filter == nil {
		return nil, seekql.ErrMissingFilter
	}
	v := &validator{tbl: tbl, maxDepth: b.maxDepth}
	if err := v.assignments(u.Sets); err != nil {
		return nil, err
	}
	if err := v.filter(u.Filter); err != nil {
		return nil, err
	}
	if err := b.returning(v, u.Returning); err != nil {
		return nil, err
	}

	key := b.updateKey(u)
	return b.render(tbl, key, func(w *writer) error {
		w.raw("UPDATE ")
		w.ident(u.Table)
		w.raw(" SET ")
		for i, a := range u.Sets {
			if i > 0 {
				w.raw(", ")
			}
			w.ident(a.Column)
			w.raw(" = ")
			w.bindField(a.Column, a.Value)
		}
		w.raw(" WHERE ")
		if err := w.pred(u.Filter); err != nil {
			return err
		}
		w.returning(u.Returning)
		return nil
	})
}

// Delete renders a DELETE statement. A filter is mandatory.
func (b *Builder) Delete(d Delete) (*Statement, error) {
	tbl, err := b.reg.Table(d.Table)
	if err != nil {
		return nil, err
	}
	if d.Filter == nil {
		return nil, seekql.ErrMissingFilter
	}
	v := &validator{tbl: tbl, maxDepth: b.maxDepth}
	if err := v.filter(d.Filter); err != nil {
		return nil, err
	}
	if err := b.returning(v, d.Returning); err != nil {
		return nil, err
	}

	key := b.deleteKey(d)
	return b.render(tbl, key, func(w *writer) error {
		w.raw("DELETE FROM ")
		w.ident(d.Table)
		w.raw(" WHERE ")
		if err := w.pred(d.Filter); err != nil {
			return err
		}
		w.returning(d.Returning)
		return nil
	})
}

func (b *Builder) returning(v *validator, cols []string) error {
	if len(cols) == 0 {
		return nil
	}
	if !b.ad.SupportsReturning() {
		return seekql.NewUnsupportedDialectFeatureError(b.ad.Name(), "RETURNING")
	}
	return v.columns(cols)
}

// render runs the emit walk, consulting the statement cache. On a
// cache hit the same walk runs without a string builder, collecting
// arguments in the placeholder order the cached text expects.
func (b *Builder) render(tbl *schema.Table, key string, emit func(*writer) error) (*Statement, error) {
	if sql, ok := b.cache.Get(key); ok {
		w := &writer{ad: b.ad, tbl: tbl}
		if err := emit(w); err != nil {
			return nil, err
		}
		return &Statement{SQL: sql, Args: w.args}, nil
	}
	w := &writer{sb: &strings.Builder{}, ad: b.ad, tbl: tbl}
	if err := emit(w); err != nil {
		return nil, err
	}
	st := &Statement{SQL: w.sb.String(), Args: w.args}
	b.cache.Add(key, st.SQL)
	return st, nil
}

// pred renders a validated predicate node.
func (w *writer) pred(p *Predicate) error {
	switch p.kind {
	case kindAnd, kindOr:
		op := " AND "
		if p.kind == kindOr {
			op = " OR "
		}
		w.raw("(")
		for i, c := range p.children {
			if i > 0 {
				w.raw(op)
			}
			if err := w.pred(c); err != nil {
				return err
			}
		}
		w.raw(")")
	case kindNot:
		w.raw("NOT (")
		if err := w.pred(p.children[0]); err != nil {
			return err
		}
		w.raw(")")
	case kindCmp:
		w.column(p.field)
		w.raw(" ")
		w.raw(p.op.String())
		w.raw(" ")
		w.bindField(p.field, p.value)
	case kindMatch:
		w.match(p)
	case kindIn:
		w.column(p.field)
		if p.negate {
			w.raw(" NOT IN (")
		} else {
			w.raw(" IN (")
		}
		for i, val := range p.values {
			if i > 0 {
				w.raw(", ")
			}
			w.bindField(p.field, val)
		}
		w.raw(")")
	case kindBetween:
		w.column(p.field)
		w.raw(" BETWEEN ")
		w.bindField(p.field, p.low)
		w.raw(" AND ")
		w.bindField(p.field, p.high)
	case kindNull:
		w.column(p.field)
		if p.negate {
			w.raw(" IS NOT NULL")
		} else {
			w.raw(" IS NULL")
		}
	case kindFalse:
		w.raw("1 = 0")
	}
	return nil
}

func (w *writer) match(p *Predicate) {
	pattern := p.value.(string)
	escaped := false
	switch p.match {
	case MatchPrefix:
		pattern = escapeLike(pattern) + "%"
		escaped = true
	case MatchSuffix:
		pattern = "%" + escapeLike(pattern)
		escaped = true
	case MatchSubstring:
		pattern = "%" + escapeLike(pattern) + "%"
		escaped = true
	}
	w.ident(p.field)
	w.raw(" ")
	w.raw(w.ad.LikeOperator(p.match == MatchILike))
	w.raw(" ")
	w.bind(pattern)
	if escaped && w.ad.NeedsLikeEscape() {
		w.raw(` ESCAPE '\'`)
	}
}

// escapeLike escapes LIKE wildcards in a literal so HasPrefix,
// HasSuffix, and Contains match the operand verbatim.
func escapeLike(s string) string {
	if !strings.ContainsAny(s, `%_\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// orderBy renders the ORDER BY clause. flip reverses every key for
// backward cursor travel; null placement follows the key's effective
// direction. Dialects without native NULLS FIRST/LAST get an IS NULL
// prefix key when the desired placement differs from the engine's
// natural one.
func (w *writer) orderBy(keys []SortKey, flip bool) {
	w.raw(" ORDER BY ")
	first := true
	item := func() {
		if !first {
			w.raw(", ")
		}
		first = false
	}
	for _, k := range keys {
		ord, nulls := effectiveKey(k, flip)
		fd, err := w.tbl.Column(k.Field)
		nillable := err == nil && fd.Nillable
		if nillable {
			if w.ad.SupportsNullsOrdering() {
				item()
				w.ident(k.Field)
				w.raw(" ")
				w.raw(ord.String())
				if nulls == NullsFirst {
					w.raw(" NULLS FIRST")
				} else {
					w.raw(" NULLS LAST")
				}
				continue
			}
			// MySQL sorts NULL as the smallest value: first on ASC,
			// last on DESC. Emit a prefix key only when that differs
			// from the desired placement.
			natural := NullsLast
			if ord == Asc {
				natural = NullsFirst
			}
			if nulls != natural {
				item()
				w.ident(k.Field)
				if nulls == NullsFirst {
					w.raw(" IS NULL DESC")
				} else {
					w.raw(" IS NULL ASC")
				}
			}
		}
		item()
		w.ident(k.Field)
		w.raw(" ")
		w.raw(ord.String())
	}
}

// effectiveKey resolves a sort key's rendered direction and null
// placement, applying the backward-travel flip and the default
// placement rule (NULL sorts as the largest value).
func effectiveKey(k SortKey, flip bool) (Order, Nulls) {
	ord := k.Order
	nulls := k.Nulls
	if flip {
		ord = ord.reverse()
		switch nulls {
		case NullsFirst:
			nulls = NullsLast
		case NullsLast:
			nulls = NullsFirst
		}
	}
	if nulls == NullsDefault {
		if ord == Asc {
			nulls = NullsLast
		} else {
			nulls = NullsFirst
		}
	}
	return ord, nulls
}
