package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
	"github.com/missionpool/backend/internal/settlement"
)

// CampaignLister is the campaign repository subset the handler lists with.
type CampaignLister interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[*models.Campaign], error)
	ListAll(ctx context.Context) ([]*models.Campaign, error)
}

// CampaignHandler serves /v1/campaigns.
type CampaignHandler struct {
	Coordinator *settlement.Coordinator
	Campaigns   CampaignLister
	Logger      *slog.Logger
}

type createCampaignRequest struct {
	Title        string `json:"title"`
	BudgetAmount int64  `json:"budget_amount"`
	Currency     string `json:"currency"`
}

// Create handles POST /v1/campaigns.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid JSON"))
		return
	}
	campaign, err := h.Coordinator.CreateCampaign(r.Context(), bearerToken(r), req.Title, req.BudgetAmount, req.Currency)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

// List handles GET /v1/campaigns. With pagination params it answers the
// {data, next_cursor} envelope; without any it answers the legacy bare
// array of the full collection.
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	params, paginated, err := parsePageParams(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if !paginated {
		list, err := h.Campaigns.ListAll(r.Context())
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		if list == nil {
			list = []*models.Campaign{}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	page, err := h.Campaigns.List(r.Context(), params)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if page.Data == nil {
		page.Data = []*models.Campaign{}
	}
	writeJSON(w, http.StatusOK, page)
}

// ConfirmFunding handles POST /v1/campaigns/{id}/confirm-funding.
func (h *CampaignHandler) ConfirmFunding(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid campaign id"))
		return
	}
	campaign, err := h.Coordinator.ConfirmFunding(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
