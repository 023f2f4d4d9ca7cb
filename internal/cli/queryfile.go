package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seekql/seekql/dialect/sql"
)

// A Request is the YAML document describing one statement. Exactly one
// op is rendered per file.
//
//	op: select
//	table: users
//	columns: [id, email]
//	filter:
//	  and:
//	    - {field: active, eq: true}
//	    - or:
//	        - {field: nickname, is_null: true}
//	        - {field: status, in: [active, pending]}
//	sort: -created_at,id
//	limit: 10
//	after: <token>
type Request struct {
	Op      string      `yaml:"op"`
	Table   string      `yaml:"table"`
	Columns []string    `yaml:"columns"`
	Filter  *filterNode `yaml:"filter"`
	Sort    string      `yaml:"sort"`

	// Pagination. Page selects offset mode, Keyset or a token selects
	// cursor mode. An empty token with Keyset asks for the first page.
	Limit  int    `yaml:"limit"`
	Page   int    `yaml:"page"`
	Keyset bool   `yaml:"keyset"`
	After  string `yaml:"after"`
	Before string `yaml:"before"`

	// Mutations.
	Sets      []requestSet `yaml:"sets"`
	Returning []string     `yaml:"returning"`
}

type requestSet struct {
	Column string    `yaml:"column"`
	Value  yaml.Node `yaml:"value"`
}

// filterNode is the YAML shape of one predicate tree node. A node is
// either a group (and/or/not) or a leaf naming a field and exactly one
// operator. Scalar operands stay yaml.Node values so an absent key
// (zero node) can be told apart from an explicit null.
type filterNode struct {
	And []*filterNode `yaml:"and"`
	Or  []*filterNode `yaml:"or"`
	Not *filterNode   `yaml:"not"`

	Field    string      `yaml:"field"`
	EQ       yaml.Node   `yaml:"eq"`
	NEQ      yaml.Node   `yaml:"neq"`
	GT       yaml.Node   `yaml:"gt"`
	GTE      yaml.Node   `yaml:"gte"`
	LT       yaml.Node   `yaml:"lt"`
	LTE      yaml.Node   `yaml:"lte"`
	Like     *string     `yaml:"like"`
	ILike    *string     `yaml:"ilike"`
	Prefix   *string     `yaml:"prefix"`
	Suffix   *string     `yaml:"suffix"`
	Contains *string     `yaml:"contains"`
	In       []yaml.Node `yaml:"in"`
	NotIn    []yaml.Node `yaml:"not_in"`
	Between  []yaml.Node `yaml:"between"`
	IsNull   bool        `yaml:"is_null"`
	NotNull  bool        `yaml:"not_null"`
}

// LoadRequest reads and decodes a query file. Unknown keys are
// rejected so typos surface as errors instead of silently changing
// the query.
func LoadRequest(path string) (*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	req := &Request{}
	if err := dec.Decode(req); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return req, nil
}

// Statement renders the request through the given builder.
func (r *Request) Statement(b *sql.Builder) (*sql.Statement, error) {
	switch r.Op {
	case "", "select":
		q, err := r.query()
		if err != nil {
			return nil, err
		}
		return b.Select(q)
	case "insert":
		sets, err := r.assignments()
		if err != nil {
			return nil, err
		}
		return b.Insert(sql.Insert{Table: r.Table, Sets: sets, Returning: r.Returning})
	case "update":
		sets, err := r.assignments()
		if err != nil {
			return nil, err
		}
		filter, err := r.predicate()
		if err != nil {
			return nil, err
		}
		return b.Update(sql.Update{Table: r.Table, Sets: sets, Filter: filter, Returning: r.Returning})
	case "delete":
		filter, err := r.predicate()
		if err != nil {
			return nil, err
		}
		return b.Delete(sql.Delete{Table: r.Table, Filter: filter, Returning: r.Returning})
	default:
		return nil, fmt.Errorf("unknown op %q: want select, insert, update or delete", r.Op)
	}
}

func (r *Request) query() (sql.Query, error) {
	q := sql.Query{Table: r.Table, Columns: r.Columns}
	filter, err := r.predicate()
	if err != nil {
		return q, err
	}
	q.Filter = filter
	if q.Sort, err = sql.ParseSortString(r.Sort); err != nil {
		return q, err
	}
	q.Page = r.pagination()
	return q, nil
}

func (r *Request) pagination() sql.Pagination {
	switch {
	case r.Before != "":
		return sql.BeforeCursor(r.Limit, r.Before)
	case r.After != "" || r.Keyset:
		return sql.AfterCursor(r.Limit, r.After)
	case r.Page > 0:
		return sql.PageLimit(r.Page, r.Limit)
	case r.Limit > 0:
		return sql.PageLimit(1, r.Limit)
	}
	return sql.Pagination{}
}

func (r *Request) predicate() (*sql.Predicate, error) {
	return toPredicate(r.Filter)
}

func (r *Request) assignments() ([]sql.Assignment, error) {
	sets := make([]sql.Assignment, 0, len(r.Sets))
	for _, s := range r.Sets {
		v, err := scalar(s.Value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s.Column, err)
		}
		sets = append(sets, sql.Set(s.Column, v))
	}
	return sets, nil
}

func toPredicate(n *filterNode) (*sql.Predicate, error) {
	if n == nil {
		return nil, nil
	}
	switch {
	case n.And != nil:
		children, err := toPredicates(n.And)
		if err != nil {
			return nil, err
		}
		return sql.And(children...), nil
	case n.Or != nil:
		children, err := toPredicates(n.Or)
		if err != nil {
			return nil, err
		}
		return sql.Or(children...), nil
	case n.Not != nil:
		child, err := toPredicate(n.Not)
		if err != nil {
			return nil, err
		}
		return sql.Not(child), nil
	}
	return toLeaf(n)
}

func toPredicates(nodes []*filterNode) ([]*sql.Predicate, error) {
	out := make([]*sql.Predicate, 0, len(nodes))
	for _, n := range nodes {
		p, err := toPredicate(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func toLeaf(n *filterNode) (*sql.Predicate, error) {
	if n.Field == "" {
		return nil, fmt.Errorf("filter node needs a field or a group key (and, or, not)")
	}
	var build *sql.Predicate
	set := func(p *sql.Predicate) error {
		if build != nil {
			return fmt.Errorf("field %q: more than one operator in a single filter node", n.Field)
		}
		build = p
		return nil
	}

	for _, op := range []struct {
		node yaml.Node
		make func(string, any) *sql.Predicate
	}{
		{n.EQ, sql.EQ},
		{n.NEQ, sql.NEQ},
		{n.GT, sql.GT},
		{n.GTE, sql.GTE},
		{n.LT, sql.LT},
		{n.LTE, sql.LTE},
	} {
		if op.node.IsZero() {
			continue
		}
		v, err := scalar(op.node)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", n.Field, err)
		}
		if err := set(op.make(n.Field, v)); err != nil {
			return nil, err
		}
	}

	for _, op := range []struct {
		pattern *string
		make    func(string, string) *sql.Predicate
	}{
		{n.Like, sql.Like},
		{n.ILike, sql.ILike},
		{n.Prefix, sql.HasPrefix},
		{n.Suffix, sql.HasSuffix},
		{n.Contains, sql.Contains},
	} {
		if op.pattern == nil {
			continue
		}
		if err := set(op.make(n.Field, *op.pattern)); err != nil {
			return nil, err
		}
	}

	if n.In != nil {
		vs, err := scalars(n.In)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", n.Field, err)
		}
		if err := set(sql.In(n.Field, vs...)); err != nil {
			return nil, err
		}
	}
	if n.NotIn != nil {
		vs, err := scalars(n.NotIn)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", n.Field, err)
		}
		if err := set(sql.NotIn(n.Field, vs...)); err != nil {
			return nil, err
		}
	}
	if n.Between != nil {
		if len(n.Between) != 2 {
			return nil, fmt.Errorf("field %q: between takes [low, high], got %d values", n.Field, len(n.Between))
		}
		vs, err := scalars(n.Between)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", n.Field, err)
		}
		if err := set(sql.Between(n.Field, vs[0], vs[1])); err != nil {
			return nil, err
		}
	}
	if n.IsNull {
		if err := set(sql.IsNull(n.Field)); err != nil {
			return nil, err
		}
	}
	if n.NotNull {
		if err := set(sql.NotNull(n.Field)); err != nil {
			return nil, err
		}
	}

	if build == nil {
		return nil, fmt.Errorf("field %q: no operator given", n.Field)
	}
	return build, nil
}

func scalar(n yaml.Node) (any, error) {
	if n.IsZero() {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func scalars(nodes []yaml.Node) ([]any, error) {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		v, err := scalar(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
