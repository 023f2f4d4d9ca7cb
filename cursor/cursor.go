package cursor

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/seekql/seekql"
)

// Wire format limits. Tokens arrive from untrusted clients, so both
// the encoded size and the field count are capped before decoding.
const (
	// Version is the wire-format version embedded in every token.
	Version = 1

	// MaxTokenLen caps the encoded token size in bytes.
	MaxTokenLen = 4096

	// MaxFields caps the number of sort-key values a token may carry.
	MaxFields = 16
)

// A Direction states which side of the cursor row a page request
// wants: After travels forward in sort order, Before backward.
type Direction uint8

// Cursor directions.
const (
	After Direction = iota
	Before
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Before {
		return "before"
	}
	return "after"
}

// A Cursor is the decoded form of a continuation token: the sort-key
// column names and the cursor row's values for them, in sort order.
// Values follow the builder's bind normalization (int64, float64,
// string, bool, time.Time, []byte, or nil).
type Cursor struct {
	Direction Direction
	Names     []string
	Values    []any
}

// envelope is the msgpack wire form.
type envelope struct {
	Version   uint8    `msgpack:"v"`
	Direction uint8    `msgpack:"d"`
	Names     []string `msgpack:"n"`
	Values    []any    `msgpack:"x"`
}

var encoding = base64.RawURLEncoding

// Encode serializes a cursor into an opaque URL-safe token.
func Encode(c Cursor) (string, error) {
	if len(c.Names) == 0 {
		return "", fmt.Errorf("cursor: no sort keys")
	}
	if len(c.Names) > MaxFields {
		return "", fmt.Errorf("cursor: %d sort keys exceed maximum %d", len(c.Names), MaxFields)
	}
	if len(c.Names) != len(c.Values) {
		return "", fmt.Errorf("cursor: %d names but %d values", len(c.Names), len(c.Values))
	}
	raw, err := msgpack.Marshal(envelope{
		Version:   Version,
		Direction: uint8(c.Direction),
		Names:     c.Names,
		Values:    c.Values,
	})
	if err != nil {
		return "", fmt.Errorf("cursor: encoding: %w", err)
	}
	token := encoding.EncodeToString(raw)
	if len(token) > MaxTokenLen {
		return "", fmt.Errorf("cursor: token length %d exceeds maximum %d", len(token), MaxTokenLen)
	}
	return token, nil
}

// Decode parses a token back into a cursor. Failures are reported as
// InvalidCursor errors; the reason never echoes token contents.
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, seekql.NewInvalidCursorError("empty token")
	}
	if len(token) > MaxTokenLen {
		return Cursor{}, seekql.NewInvalidCursorError("token too long")
	}
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return Cursor{}, seekql.NewInvalidCursorError("token is not valid base64")
	}
	var env envelope
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&env); err != nil {
		return Cursor{}, seekql.NewInvalidCursorError("malformed payload")
	}
	if env.Version != Version {
		return Cursor{}, seekql.NewInvalidCursorError(fmt.Sprintf("unsupported version %d", env.Version))
	}
	if env.Direction > uint8(Before) {
		return Cursor{}, seekql.NewInvalidCursorError("unknown direction")
	}
	if len(env.Names) == 0 || len(env.Names) > MaxFields {
		return Cursor{}, seekql.NewInvalidCursorError("bad sort-key count")
	}
	if len(env.Names) != len(env.Values) {
		return Cursor{}, seekql.NewInvalidCursorError("name and value counts differ")
	}
	return Cursor{
		Direction: Direction(env.Direction),
		Names:     env.Names,
		Values:    env.Values,
	}, nil
}
