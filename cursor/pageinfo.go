package cursor

// PageInfo describes a delivered page's position in the overall result
// set, in the shape connection-style APIs expect. Total is nil unless
// the caller ran a companion count query and filled it in.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	HasPrevPage bool   `json:"hasPrevPage"`
	StartCursor string `json:"startCursor,omitempty"`
	EndCursor   string `json:"endCursor,omitempty"`
	Total       *int64 `json:"total,omitempty"`
}

// Page post-processes rows fetched for a cursor-paginated query. The
// statement is built to fetch one row beyond the requested limit; the
// surplus row, if present, proves another page exists and is trimmed.
// Rows from a Before query arrive in reverse sort order and are
// flipped back into a fresh slice; the caller's slice is never
// modified.
//
// key extracts a row's sort-key values in sort order, matching names;
// hadCursor states whether the request carried a token (a first or
// last page request does not).
func Page[T any](rows []T, limit int, dir Direction, hadCursor bool, names []string, key func(T) []any) ([]T, PageInfo, error) {
	more := len(rows) > limit
	if more {
		rows = rows[:limit]
	}
	if dir == Before {
		flipped := make([]T, len(rows))
		for i, r := range rows {
			flipped[len(rows)-1-i] = r
		}
		rows = flipped
	}

	info := PageInfo{}
	switch dir {
	case After:
		info.HasNextPage = more
		info.HasPrevPage = hadCursor
	case Before:
		info.HasPrevPage = more
		info.HasNextPage = hadCursor
	}
	if len(rows) == 0 {
		return rows, info, nil
	}

	start, err := Encode(Cursor{Direction: Before, Names: names, Values: key(rows[0])})
	if err != nil {
		return nil, PageInfo{}, err
	}
	end, err := Encode(Cursor{Direction: After, Names: names, Values: key(rows[len(rows)-1])})
	if err != nil {
		return nil, PageInfo{}, err
	}
	info.StartCursor = start
	info.EndCursor = end
	return rows, info, nil
}
