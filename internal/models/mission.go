package models

import (
	"time"

	"github.com/google/uuid"
)

// Mission lifecycle states. OPEN is initial; PAID and REJECTED are terminal.
const (
	MissionOpen      = "OPEN"
	MissionAccepted  = "ACCEPTED"
	MissionSubmitted = "SUBMITTED"
	MissionVerified  = "VERIFIED"
	MissionPaid      = "PAID"
	MissionRejected  = "REJECTED"
)

// ValidMissionState reports whether s is a member of the fixed state set.
func ValidMissionState(s string) bool {
	switch s {
	case MissionOpen, MissionAccepted, MissionSubmitted, MissionVerified, MissionPaid, MissionRejected:
		return true
	}
	return false
}

// Mission is one unit of assignable, payable work within a campaign.
// State and assignee are mutated only through validated transitions.
type Mission struct {
	ID           uuid.UUID `json:"id"`
	CampaignID   int64     `json:"campaign_id"`
	AssigneeID   *int64    `json:"assignee_id,omitempty"`
	PayoutAmount int64     `json:"payout_amount"`
	State        string    `json:"state"`
	// TransferRef records the processor transfer before the PAID write so a
	// crash between the two leaves a reconcilable row.
	TransferRef *string   `json:"transfer_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
