// Package settlement orchestrates the funding-confirmation and payout
// steps. The Coordinator is the only component that moves money.
package settlement

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/identity"
	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/payments"
	"github.com/missionpool/backend/internal/workflow"
)

// CampaignStore is the campaign repository subset the coordinator needs.
type CampaignStore interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	SetPaymentIntentRef(ctx context.Context, id int64, ref string) error
	MarkFunded(ctx context.Context, id int64) error
}

// MissionStore is the mission repository subset the coordinator needs.
type MissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	UpdateState(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	SetTransferRef(ctx context.Context, id uuid.UUID, ref string) error
}

// AccountStore resolves assignee payout accounts.
type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

// PayoutReceipt is returned on a successful payout.
type PayoutReceipt struct {
	MissionID   uuid.UUID `json:"mission_id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	TransferRef string    `json:"transfer_ref"`
}

// Coordinator composes state-machine validation with the external payment
// processor.
type Coordinator struct {
	gate      *identity.Gate
	campaigns CampaignStore
	missions  MissionStore
	accounts  AccountStore
	processor payments.Processor
	logger    *slog.Logger
}

func NewCoordinator(gate *identity.Gate, campaigns CampaignStore, missions MissionStore, accounts AccountStore, processor payments.Processor, logger *slog.Logger) *Coordinator {
	return &Coordinator{gate: gate, campaigns: campaigns, missions: missions, accounts: accounts, processor: processor, logger: logger}
}

// CreateCampaign persists a PENDING campaign and opens a payment intent at
// the processor for its budget.
func (c *Coordinator) CreateCampaign(ctx context.Context, credential, title string, budgetAmount int64, currency string) (*models.Campaign, error) {
	_, acc, err := c.gate.RequireRole(ctx, credential, models.RoleSponsor)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, apperr.New(apperr.Validation, "title is required")
	}
	if budgetAmount < models.MinimumAmount {
		return nil, apperr.New(apperr.Validation, "budget_amount must be at least %d minor units", models.MinimumAmount)
	}
	if len(currency) != 3 {
		return nil, apperr.New(apperr.Validation, "currency must be a 3-letter code")
	}
	campaign := &models.Campaign{
		OwnerID:       acc.ID,
		Title:         title,
		BudgetAmount:  budgetAmount,
		Currency:      currency,
		FundingStatus: models.FundingPending,
	}
	if err := c.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	intent, err := c.processor.CreatePaymentIntent(ctx, budgetAmount, currency, map[string]string{
		"campaign_id": strconv.FormatInt(campaign.ID, 10),
	})
	if err != nil {
		// The PENDING row stays; funding can never confirm without an
		// intent, so surface the processor failure to the sponsor.
		return nil, err
	}
	if err := c.campaigns.SetPaymentIntentRef(ctx, campaign.ID, intent.Ref); err != nil {
		return nil, err
	}
	campaign.PaymentIntentRef = &intent.Ref
	c.logger.Info("campaign created", "campaign_id", campaign.ID, "payment_intent", intent.Ref)
	return campaign, nil
}

// ConfirmFunding polls the processor for the campaign's payment intent and
// flips the campaign to FUNDED once the intent succeeded. While payment is
// still outstanding it fails FundingPending, carrying the processor status
// so the sponsor can complete payment out of band.
func (c *Coordinator) ConfirmFunding(ctx context.Context, credential string, campaignID int64) (*models.Campaign, error) {
	_, acc, err := c.gate.RequireRole(ctx, credential, models.RoleSponsor)
	if err != nil {
		return nil, err
	}
	campaign, err := c.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.New(apperr.NotFound, "campaign not found")
	}
	if campaign.OwnerID != acc.ID {
		return nil, apperr.New(apperr.Forbidden, "caller does not own campaign")
	}
	if campaign.FundingStatus == models.FundingFunded {
		return campaign, nil
	}
	if campaign.PaymentIntentRef == nil {
		return nil, apperr.New(apperr.Configuration, "campaign has no payment intent")
	}
	intent, err := c.processor.GetPaymentIntent(ctx, *campaign.PaymentIntentRef)
	if err != nil {
		return nil, err
	}
	if intent.Status != payments.IntentSucceeded {
		return nil, apperr.New(apperr.FundingPending, "campaign funding not confirmed").
			WithMeta(map[string]any{
				"payment_intent_ref": intent.Ref,
				"status":             intent.Status,
			})
	}
	if err := c.campaigns.MarkFunded(ctx, campaignID); err != nil {
		return nil, err
	}
	campaign.FundingStatus = models.FundingFunded
	c.logger.Info("campaign funded", "campaign_id", campaignID)
	return campaign, nil
}

// Payout executes VERIFIED → PAID. Every precondition — role, ownership,
// funding, transition legality, payout onboarding — is checked before the
// processor is invoked, and the terminal state write is the last action so
// a crash after the transfer leaves a re-checkable mission.
func (c *Coordinator) Payout(ctx context.Context, credential string, missionID uuid.UUID) (*PayoutReceipt, error) {
	_, acc, err := c.gate.RequireRole(ctx, credential, models.RoleSponsor)
	if err != nil {
		return nil, err
	}
	mission, err := c.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, apperr.New(apperr.NotFound, "mission not found")
	}
	campaign, err := c.campaigns.GetByID(ctx, mission.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.New(apperr.NotFound, "campaign not found")
	}
	if campaign.OwnerID != acc.ID {
		return nil, apperr.New(apperr.Forbidden, "caller does not own the parent campaign")
	}
	if campaign.FundingStatus != models.FundingFunded {
		return nil, apperr.New(apperr.FundingRequired, "campaign is not funded")
	}
	if err := workflow.AssertTransition(mission.State, models.MissionPaid); err != nil {
		return nil, err
	}
	if mission.AssigneeID == nil {
		return nil, apperr.New(apperr.PayoutAccountMissing, "mission has no assignee")
	}
	assignee, err := c.accounts.GetByID(ctx, *mission.AssigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil || assignee.PayoutAccountRef == nil {
		return nil, apperr.New(apperr.PayoutAccountMissing, "assignee has not completed payout onboarding")
	}

	transferRef := ""
	if mission.TransferRef != nil {
		// A previous attempt already created the transfer but crashed before
		// the PAID write. Skip the processor and finish the state change.
		transferRef = *mission.TransferRef
		c.logger.Warn("reusing recorded transfer for payout retry", "mission_id", missionID, "transfer_ref", transferRef)
	} else {
		transfer, err := c.processor.CreateTransfer(ctx, payments.TransferParams{
			Amount:         mission.PayoutAmount,
			Currency:       campaign.Currency,
			Destination:    *assignee.PayoutAccountRef,
			IdempotencyKey: missionID.String(),
			Metadata:       map[string]string{"mission_id": missionID.String()},
		})
		if err != nil {
			// Mission state is left unchanged; the caller may retry.
			return nil, err
		}
		transferRef = transfer.Ref
		if err := c.missions.SetTransferRef(ctx, missionID, transferRef); err != nil {
			return nil, err
		}
	}

	ok, err := c.missions.UpdateState(ctx, missionID, models.MissionVerified, models.MissionPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.InvalidTransition, "mission is no longer VERIFIED")
	}
	c.logger.Info("mission paid", "mission_id", missionID, "transfer_ref", transferRef, "amount", mission.PayoutAmount)
	return &PayoutReceipt{
		MissionID:   missionID,
		Amount:      mission.PayoutAmount,
		Currency:    campaign.Currency,
		TransferRef: transferRef,
	}, nil
}
