// Package payments wraps the external payment processor. The service only
// ever creates payment intents (campaign funding), reads their status, and
// creates transfers (mission payouts); everything else is the processor's
// business.
package payments

import "context"

// Payment intent statuses the service cares about. Any other status is
// treated as "not yet succeeded".
const (
	IntentSucceeded = "succeeded"
)

// PaymentIntent is the processor's funding record for a campaign.
type PaymentIntent struct {
	Ref      string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Transfer is the processor's record of money moved to a payout account.
type Transfer struct {
	Ref      string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// TransferParams describe a payout transfer. IdempotencyKey makes retries
// safe on the processor side; the mission id is the natural key.
type TransferParams struct {
	Amount         int64
	Currency       string
	Destination    string
	IdempotencyKey string
	Metadata       map[string]string
}

// Processor is the opaque external payment collaborator.
type Processor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, ref string) (PaymentIntent, error)
	CreateTransfer(ctx context.Context, params TransferParams) (Transfer, error)
}
