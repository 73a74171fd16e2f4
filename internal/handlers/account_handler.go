package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/identity"
	"github.com/missionpool/backend/internal/models"
)

// AccountStore is the account repository subset the handler needs.
type AccountStore interface {
	SyncByExternalIdentity(ctx context.Context, ref string, roles models.RoleSet) (*models.Account, error)
	SetPayoutAccount(ctx context.Context, id int64, payoutRef string) error
}

// AccountHandler serves the caller's own account surface.
type AccountHandler struct {
	Gate     *identity.Gate
	Accounts AccountStore
	Logger   *slog.Logger
}

type payoutAccountRequest struct {
	PayoutAccountRef string `json:"payout_account_ref"`
}

// SetPayoutAccount handles POST /v1/account/payout-account: records the
// external payout-account reference so the caller becomes payable.
func (h *AccountHandler) SetPayoutAccount(w http.ResponseWriter, r *http.Request) {
	ident, err := h.Gate.ResolveIdentity(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	var req payoutAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid JSON"))
		return
	}
	if req.PayoutAccountRef == "" {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "payout_account_ref is required"))
		return
	}
	acc, err := h.Accounts.SyncByExternalIdentity(r.Context(), ident.Ref, ident.Roles)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := h.Accounts.SetPayoutAccount(r.Context(), acc.ID, req.PayoutAccountRef); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	acc.PayoutAccountRef = &req.PayoutAccountRef
	writeJSON(w, http.StatusOK, acc)
}
