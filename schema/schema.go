package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seekql/seekql"
	"github.com/seekql/seekql/schema/field"
)

// MaxIdentifierLen caps table and column names at the limit shared by
// the supported engines (Postgres truncates beyond 63 bytes).
const MaxIdentifierLen = 63

// Field is the interface implemented by the builders in schema/field.
type Field interface {
	Descriptor() *field.Descriptor
}

// A Table is an immutable column allow-list. Every identifier the
// query builder emits must resolve through a Table; nothing from user
// input is ever spliced into SQL text directly.
type Table struct {
	name    string
	columns []*field.Descriptor
	index   map[string]*field.Descriptor
}

// NewTable builds a table from field builders. It fails on invalid
// identifiers and duplicate column names.
func NewTable(name string, fields ...Field) (*Table, error) {
	if !ValidIdentifier(name) {
		return nil, seekql.NewInvalidIdentifierError(name, "table")
	}
	t := &Table{
		name:  name,
		index: make(map[string]*field.Descriptor, len(fields)),
	}
	for _, f := range fields {
		fd := f.Descriptor()
		if !ValidIdentifier(fd.Name) {
			return nil, seekql.NewInvalidIdentifierError(fd.Name, "column")
		}
		if _, ok := t.index[fd.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate column %q on table %q", fd.Name, name)
		}
		if !fd.Type.Valid() {
			return nil, fmt.Errorf("schema: column %q on table %q has no type", fd.Name, name)
		}
		t.columns = append(t.columns, fd)
		t.index[fd.Name] = fd
	}
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the table's columns in declaration order.
func (t *Table) Columns() []*field.Descriptor { return t.columns }

// Column returns the named column, or an UnknownFieldError.
func (t *Table) Column(name string) (*field.Descriptor, error) {
	fd, ok := t.index[name]
	if !ok {
		return nil, seekql.NewUnknownFieldError(t.name, name)
	}
	return fd, nil
}

// Has reports whether the table declares the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// A Registry holds the tables queries may target.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds a registry from tables. Table names must be unique.
func NewRegistry(tables ...*Table) (*Registry, error) {
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, ok := r.tables[t.name]; ok {
			return nil, fmt.Errorf("schema: duplicate table %q", t.name)
		}
		r.tables[t.name] = t
	}
	return r, nil
}

// Table returns the named table, or an UnknownTableError.
func (r *Registry) Table(name string) (*Table, error) {
	t, ok := r.tables[name]
	if !ok {
		return nil, seekql.NewUnknownTableError(name)
	}
	return t, nil
}

// ValidIdentifier reports whether s satisfies the identifier grammar:
// an ASCII letter or underscore followed by letters, digits, or
// underscores, at most MaxIdentifierLen bytes. Quote characters can
// never appear, so quoted identifiers need no escaping.
func ValidIdentifier(s string) bool {
	if len(s) == 0 || len(s) > MaxIdentifierLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

type yamlSchema struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Nullable bool     `yaml:"nullable"`
	Unique   bool     `yaml:"unique"`
	Comment  string   `yaml:"comment"`
	Values   []string `yaml:"values"`
}

// Load reads a YAML schema document and returns its registry.
//
//	tables:
//	  - name: users
//	    fields:
//	      - name: id
//	        type: uuid
//	        unique: true
//	      - name: nickname
//	        type: string
//	        nullable: true
func Load(r io.Reader) (*Registry, error) {
	var doc yamlSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema: decoding yaml: %w", err)
	}
	tables := make([]*Table, 0, len(doc.Tables))
	for _, yt := range doc.Tables {
		fields := make([]Field, 0, len(yt.Fields))
		for _, yf := range yt.Fields {
			ft, err := field.ParseType(yf.Type)
			if err != nil {
				return nil, fmt.Errorf("schema: table %q column %q: %w", yt.Name, yf.Name, err)
			}
			fields = append(fields, &yamlFieldBuilder{desc: &field.Descriptor{
				Name:     yf.Name,
				Type:     ft,
				Nillable: yf.Nullable,
				Unique:   yf.Unique,
				Comment:  yf.Comment,
				Enums:    yf.Values,
			}})
		}
		t, err := NewTable(yt.Name, fields...)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewRegistry(tables...)
}

// LoadFile reads a YAML schema document from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	defer f.Close()
	return Load(f)
}

type yamlFieldBuilder struct {
	desc *field.Descriptor
}

func (b *yamlFieldBuilder) Descriptor() *field.Descriptor { return b.desc }
