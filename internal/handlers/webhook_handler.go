package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/events"
)

const maxWebhookBody = 256 << 10

// SignatureVerifier checks a webhook payload against its signature header.
// The scheme belongs to the processor; implementations are swappable.
type SignatureVerifier interface {
	Verify(payload []byte, signature string) error
}

// HMACVerifier implements the processor's hex-encoded HMAC-SHA256 scheme.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	want := hex.EncodeToString(mac.Sum(nil))
	if signature == "" || !hmac.Equal([]byte(want), []byte(signature)) {
		return apperr.New(apperr.Unauthenticated, "invalid webhook signature")
	}
	return nil
}

// EnqueueEventFunc enqueues a processor event for asynchronous handling.
// main wires it to the River client.
type EnqueueEventFunc func(ctx context.Context, args events.ProcessorEventArgs) error

// WebhookHandler receives processor notifications. It verifies, enqueues,
// and acknowledges; all effects are applied by the events worker.
type WebhookHandler struct {
	Verifier SignatureVerifier
	Enqueue  EnqueueEventFunc
	Logger   *slog.Logger
}

type processorEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Receive handles POST /v1/webhooks/processor.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "failed to read body"))
		return
	}
	if err := h.Verifier.Verify(payload, r.Header.Get("Processor-Signature")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var evt processorEvent
	if err := json.Unmarshal(payload, &evt); err != nil || evt.ID == "" || evt.Type == "" {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "malformed event"))
		return
	}
	if err := h.Enqueue(r.Context(), events.ProcessorEventArgs{
		EventID: evt.ID,
		Type:    evt.Type,
		Data:    evt.Data.Object,
	}); err != nil {
		h.Logger.Error("enqueue processor event", "event_id", evt.ID, "error", err)
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"received": true})
}
