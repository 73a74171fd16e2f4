package models

import "time"

// Account is the internal identity record. Created on first successful
// identity sync; roles only ever grow; rows are never deleted.
type Account struct {
	ID               int64      `json:"id"`
	ExternalIdentity *string    `json:"external_identity,omitempty"`
	Roles            RoleSet    `json:"roles"`
	PayoutAccountRef *string    `json:"payout_account_ref,omitempty"`
	OnboardedAt      *time.Time `json:"onboarded_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
