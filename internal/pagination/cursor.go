// Package pagination implements keyset pagination: opaque cursors, the four
// supported sort orders, and the strict "past this position" predicates used
// by the list queries. Keyset paging is immune to the offset drift that
// concurrent inserts cause.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/missionpool/backend/internal/apperr"
)

// Cursor is the position a page resumes from: the sort value of the last
// row already returned plus its id as tiebreak. The tiebreak is kept as a
// string so the same codec serves bigint and uuid keyed collections.
type Cursor struct {
	SortValue time.Time `json:"s"`
	Tiebreak  string    `json:"t"`
}

// Encode serializes the cursor to a transport-safe opaque token.
func Encode(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode is the exact inverse of Encode. It fails with a validation error
// when the token is not decodable or the decoded value is not
// cursor-shaped.
func Decode(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, apperr.New(apperr.Validation, "invalid cursor")
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, apperr.New(apperr.Validation, "invalid cursor")
	}
	if c.SortValue.IsZero() || c.Tiebreak == "" {
		return Cursor{}, apperr.New(apperr.Validation, "invalid cursor")
	}
	return c, nil
}
