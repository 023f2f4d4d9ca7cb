package field

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// A Type represents a column's declared type. It decides which Go
// values are assignable to the column and how bound values are
// normalized before they reach the driver.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeTime
	TypeUUID
	TypeBytes
	TypeJSON
	TypeEnum
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeTime:    "time",
	TypeUUID:    "uuid",
	TypeBytes:   "bytes",
	TypeJSON:    "json",
	TypeEnum:    "enum",
}

// String returns the string representation of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// Valid reports if the given type is a valid field type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Comparable reports whether values of the type have a total order,
// which cursor pagination requires of every sort key.
func (t Type) Comparable() bool {
	switch t {
	case TypeBool, TypeInt, TypeFloat, TypeString, TypeTime, TypeUUID, TypeEnum:
		return true
	default:
		return false
	}
}

// Normalize converts a Go value into the canonical representation
// bound to the driver for a column of this type: integers widen to
// int64, float32 widens to float64, and UUIDs bind as their string
// form. The boolean result reports assignability; nil is assignable
// to every type and normalizes to nil.
func (t Type) Normalize(v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch t {
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, true
		}
	case TypeInt:
		return normalizeInt(v)
	case TypeFloat:
		switch f := v.(type) {
		case float64:
			return f, true
		case float32:
			return float64(f), true
		}
		if i, ok := normalizeInt(v); ok {
			return float64(i.(int64)), true
		}
	case TypeString, TypeEnum:
		if s, ok := v.(string); ok {
			return s, true
		}
	case TypeTime:
		if ts, ok := v.(time.Time); ok {
			return ts, true
		}
	case TypeUUID:
		switch id := v.(type) {
		case uuid.UUID:
			return id.String(), true
		case string:
			if _, err := uuid.Parse(id); err == nil {
				return id, true
			}
		}
	case TypeBytes:
		if b, ok := v.([]byte); ok {
			return b, true
		}
	case TypeJSON:
		return v, true
	}
	return nil, false
}

func normalizeInt(v any) (any, bool) {
	switch i := v.(type) {
	case int:
		return int64(i), true
	case int8:
		return int64(i), true
	case int16:
		return int64(i), true
	case int32:
		return int64(i), true
	case int64:
		return i, true
	case uint:
		return int64(i), true
	case uint8:
		return int64(i), true
	case uint16:
		return int64(i), true
	case uint32:
		return int64(i), true
	}
	return nil, false
}

// A Descriptor for field configuration.
type Descriptor struct {
	Name     string   // Column name.
	Type     Type     // Declared type.
	Nillable bool     // Nullable in the database.
	Unique   bool     // Unique constraint hint for cursor tiebreaks.
	Comment  string   // Column comment.
	Enums    []string // Permitted values for enum fields.
}

// descriptorBuilder is embedded by all field builders.
type descriptorBuilder struct {
	desc *Descriptor
}

// Nillable marks the column as nullable. Nullable sort keys interact
// with NULLS FIRST / NULLS LAST placement during keyset pagination.
func (b *descriptorBuilder) Nillable() *descriptorBuilder {
	b.desc.Nillable = true
	return b
}

// Unique marks the column as unique, making it eligible as the
// trailing tiebreak key of a cursor sort.
func (b *descriptorBuilder) Unique() *descriptorBuilder {
	b.desc.Unique = true
	return b
}

// Comment sets the column comment.
func (b *descriptorBuilder) Comment(c string) *descriptorBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the built field descriptor.
func (b *descriptorBuilder) Descriptor() *Descriptor {
	return b.desc
}

func newBuilder(name string, t Type) *descriptorBuilder {
	return &descriptorBuilder{desc: &Descriptor{Name: name, Type: t}}
}

// Bool returns a new boolean field.
func Bool(name string) *descriptorBuilder {
	return newBuilder(name, TypeBool)
}

// Int returns a new integer field. All Go integer kinds bind as int64.
func Int(name string) *descriptorBuilder {
	return newBuilder(name, TypeInt)
}

// Float returns a new float field.
func Float(name string) *descriptorBuilder {
	return newBuilder(name, TypeFloat)
}

// String returns a new string field.
func String(name string) *descriptorBuilder {
	return newBuilder(name, TypeString)
}

// Time returns a new time field.
func Time(name string) *descriptorBuilder {
	return newBuilder(name, TypeTime)
}

// UUID returns a new UUID field. Values bind in canonical string form.
func UUID(name string) *descriptorBuilder {
	return newBuilder(name, TypeUUID)
}

// Bytes returns a new binary field.
func Bytes(name string) *descriptorBuilder {
	return newBuilder(name, TypeBytes)
}

// JSON returns a new JSON field. JSON columns accept any value and
// cannot serve as sort keys.
func JSON(name string) *descriptorBuilder {
	return newBuilder(name, TypeJSON)
}

// Enum returns a new enum field.
func Enum(name string) *enumBuilder {
	return &enumBuilder{descriptorBuilder{desc: &Descriptor{Name: name, Type: TypeEnum}}}
}

type enumBuilder struct {
	descriptorBuilder
}

// Values adds the permitted enum values.
func (b *enumBuilder) Values(values ...string) *enumBuilder {
	b.desc.Enums = append(b.desc.Enums, values...)
	return b
}

// Nillable marks the column as nullable.
func (b *enumBuilder) Nillable() *enumBuilder {
	b.desc.Nillable = true
	return b
}

// ParseType returns the Type named by s, as used in schema files.
// "timestamp" and "datetime" are accepted aliases for the time type,
// and "integer"/"boolean" for their short forms.
func ParseType(s string) (Type, error) {
	switch s {
	case "bool", "boolean":
		return TypeBool, nil
	case "int", "integer":
		return TypeInt, nil
	case "float", "double":
		return TypeFloat, nil
	case "string", "text":
		return TypeString, nil
	case "time", "timestamp", "datetime":
		return TypeTime, nil
	case "uuid":
		return TypeUUID, nil
	case "bytes", "blob":
		return TypeBytes, nil
	case "json":
		return TypeJSON, nil
	case "enum":
		return TypeEnum, nil
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}
