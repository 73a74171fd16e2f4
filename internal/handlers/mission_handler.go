package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
	"github.com/missionpool/backend/internal/repository"
	"github.com/missionpool/backend/internal/settlement"
	"github.com/missionpool/backend/internal/workflow"
)

// MissionReader is the mission repository subset the handler reads with.
type MissionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	List(ctx context.Context, filter repository.MissionFilter, params pagination.Params) (pagination.Page[*models.Mission], error)
	ListAll(ctx context.Context, filter repository.MissionFilter) ([]*models.Mission, error)
}

// SubmissionReader resolves the current deliverable for a mission.
type SubmissionReader interface {
	GetByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Submission, error)
}

// MissionHandler serves /v1/missions and the mission routes nested under
// /v1/campaigns.
type MissionHandler struct {
	Workflow    *workflow.Service
	Coordinator *settlement.Coordinator
	Missions    MissionReader
	Submissions SubmissionReader
	Logger      *slog.Logger
}

type createMissionRequest struct {
	PayoutAmount int64 `json:"payout_amount"`
}

// Create handles POST /v1/campaigns/{id}/missions.
func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid campaign id"))
		return
	}
	var req createMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid JSON"))
		return
	}
	mission, err := h.Workflow.CreateMission(r.Context(), bearerToken(r), campaignID, req.PayoutAmount)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, mission)
}

// List handles GET /v1/missions with optional state and campaign_id
// filters, in the same dual-mode shape as campaign listing.
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := missionFilterFromQuery(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	params, paginated, err := parsePageParams(r)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if !paginated {
		list, err := h.Missions.ListAll(r.Context(), filter)
		if err != nil {
			writeError(w, h.Logger, err)
			return
		}
		if list == nil {
			list = []*models.Mission{}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	page, err := h.Missions.List(r.Context(), filter, params)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if page.Data == nil {
		page.Data = []*models.Mission{}
	}
	writeJSON(w, http.StatusOK, page)
}

func missionFilterFromQuery(r *http.Request) (repository.MissionFilter, error) {
	var filter repository.MissionFilter
	q := r.URL.Query()
	if state := q.Get("state"); state != "" {
		if !models.ValidMissionState(state) {
			return filter, apperr.New(apperr.Validation, "invalid state %q", state)
		}
		filter.State = state
	}
	if raw := q.Get("campaign_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, apperr.New(apperr.Validation, "invalid campaign_id")
		}
		filter.CampaignID = &id
	}
	return filter, nil
}

type missionDetail struct {
	*models.Mission
	Submission *models.Submission `json:"submission,omitempty"`
}

// Get handles GET /v1/missions/{id}: the mission plus its current
// deliverable, if one was submitted.
func (h *MissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := missionID(w, r, h.Logger)
	if !ok {
		return
	}
	mission, err := h.Missions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if mission == nil {
		writeError(w, h.Logger, apperr.New(apperr.NotFound, "mission not found"))
		return
	}
	submission, err := h.Submissions.GetByMissionID(r.Context(), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, missionDetail{Mission: mission, Submission: submission})
}

// Accept handles POST /v1/missions/{id}/accept.
func (h *MissionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Workflow.Accept)
}

type submitRequest struct {
	ContentURL string `json:"content_url"`
}

// Submit handles POST /v1/missions/{id}/submit.
func (h *MissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := missionID(w, r, h.Logger)
	if !ok {
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, apperr.New(apperr.Validation, "invalid JSON"))
		return
	}
	mission, err := h.Workflow.Submit(r.Context(), bearerToken(r), id, req.ContentURL)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

// Verify handles POST /v1/missions/{id}/verify.
func (h *MissionHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Workflow.Verify)
}

// Reject handles POST /v1/missions/{id}/reject.
func (h *MissionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Workflow.Reject)
}

// Payout handles POST /v1/missions/{id}/payout.
func (h *MissionHandler) Payout(w http.ResponseWriter, r *http.Request) {
	id, ok := missionID(w, r, h.Logger)
	if !ok {
		return
	}
	receipt, err := h.Coordinator.Payout(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *MissionHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string, uuid.UUID) (*models.Mission, error)) {
	id, ok := missionID(w, r, h.Logger)
	if !ok {
		return
	}
	mission, err := op(r.Context(), bearerToken(r), id)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func missionID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, logger, apperr.New(apperr.Validation, "invalid mission id"))
		return uuid.Nil, false
	}
	return id, true
}
