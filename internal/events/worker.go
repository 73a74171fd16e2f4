// Package events processes payment-processor webhook events asynchronously.
// The webhook handler only verifies and enqueues; this worker applies the
// effects, so re-deliveries and bursts never block the HTTP edge.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/riverqueue/river"
)

// ProcessorEventArgs is the queued form of one webhook event.
type ProcessorEventArgs struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

func (ProcessorEventArgs) Kind() string { return "processor_event" }

// CampaignFunder applies funding confirmations. MarkFundedByIntentRef must
// be idempotent: processors re-deliver events.
type CampaignFunder interface {
	MarkFundedByIntentRef(ctx context.Context, intentRef string) error
}

// ProcessorEventWorker handles queued processor events.
type ProcessorEventWorker struct {
	river.WorkerDefaults[ProcessorEventArgs]
	campaigns CampaignFunder
	logger    *slog.Logger
}

func NewProcessorEventWorker(campaigns CampaignFunder, logger *slog.Logger) *ProcessorEventWorker {
	return &ProcessorEventWorker{campaigns: campaigns, logger: logger}
}

// eventObject is the shared shape of the payloads this worker reads.
type eventObject struct {
	ID string `json:"id"`
}

func (w *ProcessorEventWorker) Work(ctx context.Context, job *river.Job[ProcessorEventArgs]) error {
	args := job.Args
	switch {
	case args.Type == "payment_intent.succeeded":
		var obj eventObject
		if err := json.Unmarshal(args.Data, &obj); err != nil || obj.ID == "" {
			w.logger.Error("malformed payment_intent event", "event_id", args.EventID)
			return nil // malformed payloads never become processable
		}
		if err := w.campaigns.MarkFundedByIntentRef(ctx, obj.ID); err != nil {
			return fmt.Errorf("mark campaign funded: %w", err)
		}
		w.logger.Info("campaign funding confirmed via webhook", "event_id", args.EventID, "payment_intent", obj.ID)
		return nil

	case strings.HasPrefix(args.Type, "transfer."):
		var obj eventObject
		_ = json.Unmarshal(args.Data, &obj)
		w.logger.Info("transfer lifecycle event", "event_id", args.EventID, "type", args.Type, "transfer_ref", obj.ID)
		return nil

	default:
		w.logger.Debug("ignoring processor event", "event_id", args.EventID, "type", args.Type)
		return nil
	}
}
