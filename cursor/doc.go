// Package cursor implements opaque continuation tokens for keyset
// pagination.
//
// A token is the URL-safe base64 encoding of a msgpack envelope
// carrying a wire version, a travel direction, the sort-key column
// names, and the cursor row's values for those columns. Tokens are
// opaque to clients but not encrypted; they never contain anything the
// client has not already seen in the rows themselves.
//
// Tokens arrive from untrusted input, so decoding enforces hard caps
// on token length and field count and reports every failure as an
// InvalidCursor error without echoing token contents.
package cursor
