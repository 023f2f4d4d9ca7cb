// Package schema defines the table registry queries are validated
// against.
//
// A Table is a closed allow-list of columns; the query builder refuses
// any identifier that does not resolve through it. Tables are built
// either in code with the fluent builders from [field]:
//
//	users, err := schema.NewTable("users",
//	    field.UUID("id").Unique(),
//	    field.String("email"),
//	    field.String("nickname").Nillable(),
//	    field.Time("created_at"),
//	)
//
// or loaded from a YAML document with [Load]:
//
//	tables:
//	  - name: users
//	    fields:
//	      - name: id
//	        type: uuid
//	        unique: true
//	      - name: email
//	        type: string
//	      - name: nickname
//	        type: string
//	        nullable: true
//	      - name: created_at
//	        type: timestamp
//
// Identifiers follow a strict grammar (leading letter or underscore,
// then letters, digits, underscores, 63 bytes max), so quoted names
// never require escaping on any supported dialect.
package schema
