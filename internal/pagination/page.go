package pagination

import "github.com/missionpool/backend/internal/apperr"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the validated pagination inputs for a list call.
type Params struct {
	Limit  int
	Order  Order
	Cursor *Cursor
}

// ValidateLimit checks 1 <= limit <= MaxLimit. A zero limit selects the
// default; anything else out of range is a validation failure.
func ValidateLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, apperr.New(apperr.Validation, "limit must be between 1 and %d", MaxLimit)
	}
	return limit, nil
}

// Page is the envelope returned for paginated list calls.
type Page[T any] struct {
	Data       []T     `json:"data"`
	NextCursor *string `json:"next_cursor"`
}

// TrimPage implements the limit+1 protocol: the repository fetches one row
// past the limit; if it arrived, the surplus row is dropped and the next
// cursor is taken from the last row kept. cursorOf extracts a row's keyset
// position.
func TrimPage[T any](rows []T, limit int, cursorOf func(T) Cursor) Page[T] {
	if len(rows) <= limit {
		return Page[T]{Data: rows}
	}
	kept := rows[:limit]
	token := Encode(cursorOf(kept[limit-1]))
	return Page[T]{Data: kept, NextCursor: &token}
}
