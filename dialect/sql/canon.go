package sql

import (
	"strconv"
	"strings"
)

// Cache keys canonicalize everything that shapes the rendered SQL:
// dialect, operation, table, column list, filter structure including
// IN arity, sort keys with direction and null placement, and the
// pagination mode. Two specs with the same key always render the same
// text, which is what lets a cache hit skip emission and replay only
// the argument walk.

func (b *Builder) selectKey(q Query, filter *Predicate) string {
	var sb strings.Builder
	sb.WriteString(b.ad.Name())
	sb.WriteString("|sel|")
	sb.WriteString(q.Table)
	sb.WriteString("|c:")
	sb.WriteString(strings.Join(q.Columns, ","))
	sb.WriteString("|a:")
	for i, a := range q.Aggregates {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Func.String())
		sb.WriteByte('(')
		if a.Distinct {
			sb.WriteByte('!')
		}
		sb.WriteString(a.Field)
		sb.WriteByte(')')
		sb.WriteString(a.Alias)
	}
	sb.WriteString("|g:")
	sb.WriteString(strings.Join(q.GroupBy, ","))
	sb.WriteString("|h:")
	predShape(&sb, q.Having)
	sb.WriteString("|f:")
	predShape(&sb, filter)
	sb.WriteString("|s:")
	for i, k := range q.Sort {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k.Field)
		sb.WriteByte('.')
		sb.WriteByte("ad"[k.Order])
		sb.WriteByte("dfl"[k.Nulls])
	}
	sb.WriteString("|p:")
	switch q.Page.kind {
	case pageOffset:
		sb.WriteByte('o')
	case pageCursor:
		sb.WriteByte('c')
		sb.WriteByte('.')
		sb.WriteByte("ab"[q.Page.dir])
	}
	return sb.String()
}

func (b *Builder) insertKey(ins Insert, rows [][]Assignment) string {
	var sb strings.Builder
	sb.WriteString(b.ad.Name())
	sb.WriteString("|ins|")
	sb.WriteString(ins.Table)
	sb.WriteString("|c:")
	for i, a := range rows[0] {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Column)
	}
	sb.WriteString("|n:")
	sb.WriteString(strconv.Itoa(len(rows)))
	sb.WriteString("|r:")
	sb.WriteString(strings.Join(ins.Returning, ","))
	return sb.String()
}

func (b *Builder) countKey(q Query) string {
	var sb strings.Builder
	sb.WriteString(b.ad.Name())
	sb.WriteString("|cnt|")
	sb.WriteString(q.Table)
	sb.WriteString("|f:")
	predShape(&sb, q.Filter)
	return sb.String()
}

func (b *Builder) updateKey(u Update) string {
	var sb strings.Builder
	sb.WriteString(b.ad.Name())
	sb.WriteString("|upd|")
	sb.WriteString(u.Table)
	sb.WriteString("|c:")
	for i, a := range u.Sets {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Column)
	}
	sb.WriteString("|f:")
	predShape(&sb, u.Filter)
	sb.WriteString("|r:")
	sb.WriteString(strings.Join(u.Returning, ","))
	return sb.String()
}

func (b *Builder) deleteKey(d Delete) string {
	var sb strings.Builder
	sb.WriteString(b.ad.Name())
	sb.WriteString("|del|")
	sb.WriteString(d.Table)
	sb.WriteString("|f:")
	predShape(&sb, d.Filter)
	sb.WriteString("|r:")
	sb.WriteString(strings.Join(d.Returning, ","))
	return sb.String()
}

// predShape writes a predicate tree's structure, excluding bound
// values but including everything that alters rendered text.
func predShape(sb *strings.Builder, p *Predicate) {
	if p == nil {
		return
	}
	switch p.kind {
	case kindAnd, kindOr:
		if p.kind == kindAnd {
			sb.WriteString("and(")
		} else {
			sb.WriteString("or(")
		}
		for i, c := range p.children {
			if i > 0 {
				sb.WriteByte(',')
			}
			predShape(sb, c)
		}
		sb.WriteByte(')')
	case kindNot:
		sb.WriteString("not(")
		for _, c := range p.children {
			predShape(sb, c)
		}
		sb.WriteByte(')')
	case kindCmp:
		sb.WriteString("cmp(")
		sb.WriteString(p.field)
		sb.WriteByte(',')
		sb.WriteString(p.op.String())
		sb.WriteByte(')')
	case kindMatch:
		sb.WriteString("match(")
		sb.WriteString(p.field)
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(int(p.match)))
		sb.WriteByte(')')
	case kindIn:
		sb.WriteString("in(")
		sb.WriteString(p.field)
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(len(p.values)))
		if p.negate {
			sb.WriteString(",not")
		}
		sb.WriteByte(')')
	case kindBetween:
		sb.WriteString("btw(")
		sb.WriteString(p.field)
		sb.WriteByte(')')
	case kindNull:
		sb.WriteString("null(")
		sb.WriteString(p.field)
		if p.negate {
			sb.WriteString(",not")
		}
		sb.WriteByte(')')
	case kindFalse:
		sb.WriteString("false")
	}
}
