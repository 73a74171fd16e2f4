package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
	"github.com/missionpool/backend/internal/repository"
)

type mockMissionLister struct {
	missions  []*models.Mission
	listCalls int
	allCalls  int
	gotFilter repository.MissionFilter
}

func (m *mockMissionLister) GetByID(_ context.Context, id uuid.UUID) (*models.Mission, error) {
	for _, mission := range m.missions {
		if mission.ID == id {
			return mission, nil
		}
	}
	return nil, nil
}

func (m *mockMissionLister) List(_ context.Context, filter repository.MissionFilter, _ pagination.Params) (pagination.Page[*models.Mission], error) {
	m.listCalls++
	m.gotFilter = filter
	return pagination.Page[*models.Mission]{Data: m.missions}, nil
}

func (m *mockMissionLister) ListAll(_ context.Context, filter repository.MissionFilter) ([]*models.Mission, error) {
	m.allCalls++
	m.gotFilter = filter
	return m.missions, nil
}

func listMissions(t *testing.T, lister *mockMissionLister, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := &MissionHandler{Missions: lister, Logger: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	return rec
}

func TestListMissions_StateFilter(t *testing.T) {
	lister := &mockMissionLister{}
	rec := listMissions(t, lister, "/v1/missions?state=OPEN")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if lister.gotFilter.State != models.MissionOpen {
		t.Errorf("filter state: got %q, want OPEN", lister.gotFilter.State)
	}
}

func TestListMissions_CampaignFilter(t *testing.T) {
	lister := &mockMissionLister{}
	rec := listMissions(t, lister, "/v1/missions?campaign_id=7&limit=10")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if lister.gotFilter.CampaignID == nil || *lister.gotFilter.CampaignID != 7 {
		t.Errorf("filter campaign id: got %v, want 7", lister.gotFilter.CampaignID)
	}
	if lister.listCalls != 1 || lister.allCalls != 0 {
		t.Error("limit param should select the paginated path")
	}
}

func TestListMissions_InvalidFilters(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"unknown state", "/v1/missions?state=SHIPPED"},
		{"lowercase state", "/v1/missions?state=open"},
		{"campaign id not integer", "/v1/missions?campaign_id=seven"},
	}
	for _, tc := range cases {
		lister := &mockMissionLister{}
		rec := listMissions(t, lister, tc.target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
		if lister.listCalls != 0 || lister.allCalls != 0 {
			t.Errorf("%s: store must not be touched", tc.name)
		}
	}
}

type mockSubmissionReader struct {
	submissions map[uuid.UUID]*models.Submission
}

func (m *mockSubmissionReader) GetByMissionID(_ context.Context, missionID uuid.UUID) (*models.Submission, error) {
	return m.submissions[missionID], nil
}

func TestGetMission(t *testing.T) {
	mission := &models.Mission{ID: uuid.New(), CampaignID: 1, PayoutAmount: 5000, State: models.MissionSubmitted}
	h := &MissionHandler{
		Missions: &mockMissionLister{missions: []*models.Mission{mission}},
		Submissions: &mockSubmissionReader{submissions: map[uuid.UUID]*models.Submission{
			mission.ID: {ID: 1, MissionID: mission.ID, ContentURL: "https://example.com/work"},
		}},
		Logger: slog.Default(),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/missions/"+mission.ID.String(), nil)
	req.SetPathValue("id", mission.ID.String())
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detail struct {
		ID         string `json:"id"`
		State      string `json:"state"`
		Submission *struct {
			ContentURL string `json:"content_url"`
		} `json:"submission"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.ID != mission.ID.String() || detail.State != models.MissionSubmitted {
		t.Errorf("detail: got %+v", detail)
	}
	if detail.Submission == nil || detail.Submission.ContentURL != "https://example.com/work" {
		t.Error("detail should carry the current deliverable")
	}
}

func TestGetMission_NotFound(t *testing.T) {
	h := &MissionHandler{
		Missions:    &mockMissionLister{},
		Submissions: &mockSubmissionReader{},
		Logger:      slog.Default(),
	}

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/v1/missions/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMissionAction_InvalidID(t *testing.T) {
	h := &MissionHandler{Logger: slog.Default()}

	req := httptest.NewRequest(http.MethodPost, "/v1/missions/not-a-uuid/accept", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Accept(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
