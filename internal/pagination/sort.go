package pagination

import "github.com/missionpool/backend/internal/apperr"

// Order is one of the four supported sort orders. The creation timestamp
// and the row id are always paired; whichever is primary, the other breaks
// ties in the same direction so row order is total.
type Order string

const (
	OrderCreatedDesc Order = "created_at_desc"
	OrderCreatedAsc  Order = "created_at_asc"
	OrderIDDesc      Order = "id_desc"
	OrderIDAsc       Order = "id_asc"
)

// DefaultOrder is used when no sort parameter is supplied.
const DefaultOrder = OrderCreatedDesc

// ParseOrder validates a sort parameter against the fixed enumeration.
// An empty value selects the default.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return DefaultOrder, nil
	}
	switch Order(s) {
	case OrderCreatedDesc, OrderCreatedAsc, OrderIDDesc, OrderIDAsc:
		return Order(s), nil
	}
	return "", apperr.New(apperr.Validation, "invalid sort %q", s)
}
