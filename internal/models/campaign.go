package models

import "time"

// Campaign funding statuses. PENDING→FUNDED is driven by processor
// confirmation (poll or webhook); REFUNDED is a separate path.
const (
	FundingPending  = "PENDING"
	FundingFunded   = "FUNDED"
	FundingRefunded = "REFUNDED"
)

// MinimumAmount is the floor for campaign budgets and mission payouts,
// in minor currency units.
const MinimumAmount = 100

// Campaign is a funded pool of missions owned by a sponsoring account.
type Campaign struct {
	ID               int64     `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	Title            string    `json:"title"`
	BudgetAmount     int64     `json:"budget_amount"`
	Currency         string    `json:"currency"`
	PaymentIntentRef *string   `json:"payment_intent_ref,omitempty"`
	FundingStatus    string    `json:"funding_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
