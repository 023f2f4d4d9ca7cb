package sql

// A kind discriminates predicate tree nodes.
type kind uint8

const (
	kindAnd kind = iota
	kindOr
	kindNot
	kindCmp
	kindMatch
	kindIn
	kindBetween
	kindNull
	kindFalse
)

// An Op is a comparison operator.
type Op uint8

// Comparison operators.
const (
	OpEQ Op = iota
	OpNEQ
	OpGT
	OpGTE
	OpLT
	OpLTE
)

var opText = [...]string{
	OpEQ:  "=",
	OpNEQ: "<>",
	OpGT:  ">",
	OpGTE: ">=",
	OpLT:  "<",
	OpLTE: "<=",
}

// String returns the SQL text of the operator.
func (o Op) String() string { return opText[o] }

// A MatchOp is a pattern-match operator.
type MatchOp uint8

// Pattern-match operators. Like and ILike pass the pattern through
// verbatim; the prefix, suffix, and substring forms escape wildcard
// characters in the operand before wrapping it in %.
const (
	MatchLike MatchOp = iota
	MatchILike
	MatchPrefix
	MatchSuffix
	MatchSubstring
)

// A Predicate is a node in a filter expression tree. Trees are built
// with the package-level constructors, validated against a schema
// table, and rendered by the dialect-bound builder. A Predicate is
// inert data: it holds no SQL text and no dialect knowledge.
type Predicate struct {
	kind     kind
	children []*Predicate

	field     string
	op        Op
	match     MatchOp
	negate    bool // kindIn, kindNull
	value     any
	values    []any
	low, high any
}

// And groups predicates with the AND operator.
func And(predicates ...*Predicate) *Predicate {
	return &Predicate{kind: kindAnd, children: predicates}
}

// Or groups predicates with the OR operator.
func Or(predicates ...*Predicate) *Predicate {
	return &Predicate{kind: kindOr, children: predicates}
}

// Not negates a predicate.
func Not(p *Predicate) *Predicate {
	children := []*Predicate{}
	if p != nil {
		children = append(children, p)
	}
	return &Predicate{kind: kindNot, children: children}
}

func cmp(field string, op Op, v any) *Predicate {
	return &Predicate{kind: kindCmp, field: field, op: op, value: v}
}

// EQ returns a field = value predicate. A nil value lowers to IS NULL,
// since = NULL matches no row on any dialect.
func EQ(field string, v any) *Predicate {
	if v == nil {
		return IsNull(field)
	}
	return cmp(field, OpEQ, v)
}

// NEQ returns a field <> value predicate. A nil value lowers to
// IS NOT NULL.
func NEQ(field string, v any) *Predicate {
	if v == nil {
		return NotNull(field)
	}
	return cmp(field, OpNEQ, v)
}

// GT returns a field > value predicate.
func GT(field string, v any) *Predicate { return cmp(field, OpGT, v) }

// GTE returns a field >= value predicate.
func GTE(field string, v any) *Predicate { return cmp(field, OpGTE, v) }

// LT returns a field < value predicate.
func LT(field string, v any) *Predicate { return cmp(field, OpLT, v) }

// LTE returns a field <= value predicate.
func LTE(field string, v any) *Predicate { return cmp(field, OpLTE, v) }

// Like returns a pattern-match predicate. The pattern is passed to the
// engine verbatim, wildcards included.
func Like(field, pattern string) *Predicate {
	return &Predicate{kind: kindMatch, field: field, match: MatchLike, value: pattern}
}

// ILike returns a case-insensitive pattern-match predicate. Dialects
// without a native operator fall back to LIKE.
func ILike(field, pattern string) *Predicate {
	return &Predicate{kind: kindMatch, field: field, match: MatchILike, value: pattern}
}

// HasPrefix returns a predicate matching values that start with the
// given literal. Wildcard characters in the literal are escaped.
func HasPrefix(field, prefix string) *Predicate {
	return &Predicate{kind: kindMatch, field: field, match: MatchPrefix, value: prefix}
}

// HasSuffix returns a predicate matching values that end with the
// given literal.
func HasSuffix(field, suffix string) *Predicate {
	return &Predicate{kind: kindMatch, field: field, match: MatchSuffix, value: suffix}
}

// Contains returns a predicate matching values that contain the given
// literal.
func Contains(field, substr string) *Predicate {
	return &Predicate{kind: kindMatch, field: field, match: MatchSubstring, value: substr}
}

// In returns a membership predicate. Each value binds through its own
// placeholder, so the rendered arity follows the value count.
func In(field string, vs ...any) *Predicate {
	return &Predicate{kind: kindIn, field: field, values: vs}
}

// NotIn returns a negated membership predicate.
func NotIn(field string, vs ...any) *Predicate {
	return &Predicate{kind: kindIn, field: field, values: vs, negate: true}
}

// Between returns a low <= field <= high predicate.
func Between(field string, low, high any) *Predicate {
	return &Predicate{kind: kindBetween, field: field, low: low, high: high}
}

// IsNull returns a field IS NULL predicate.
func IsNull(field string) *Predicate {
	return &Predicate{kind: kindNull, field: field}
}

// NotNull returns a field IS NOT NULL predicate.
func NotNull(field string) *Predicate {
	return &Predicate{kind: kindNull, field: field, negate: true}
}

// matchNothing renders as a contradiction. Keyset predicates degrade
// to it when the cursor row is the last row in travel direction.
func matchNothing() *Predicate {
	return &Predicate{kind: kindFalse}
}
