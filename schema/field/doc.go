// Package field provides fluent builders for declaring table columns.
//
// Column names follow database conventions (snake_case):
//
//	field.Int("user_id")
//	field.String("email")
//
// # Field Types
//
// The package supports the value types the query builder can bind:
//
//	field.Bool("is_active")
//	field.Int("count")
//	field.Float("price")
//	field.String("name")
//	field.Time("created_at")
//	field.UUID("id")
//	field.Bytes("data")
//	field.JSON("metadata")
//	field.Enum("status").Values("pending", "active", "inactive")
//
// # Field Options
//
//	field.String("nickname").
//	    Nillable().            // Nullable in DB
//	    Comment("display name")
//
//	field.UUID("id").Unique() // Eligible cursor tiebreak
//
// # Value Normalization
//
// Each type knows which Go values are assignable to it and how they
// are canonicalized before binding: integer kinds widen to int64,
// float32 widens to float64, and UUIDs bind as canonical strings.
// nil is assignable to every type.
package field
