package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockCampaignLister struct {
	campaigns []*models.Campaign
	next      *string
	listCalls int
	allCalls  int
	gotParams pagination.Params
}

func (m *mockCampaignLister) List(_ context.Context, params pagination.Params) (pagination.Page[*models.Campaign], error) {
	m.listCalls++
	m.gotParams = params
	return pagination.Page[*models.Campaign]{Data: m.campaigns, NextCursor: m.next}, nil
}

func (m *mockCampaignLister) ListAll(_ context.Context) ([]*models.Campaign, error) {
	m.allCalls++
	return m.campaigns, nil
}

func sampleCampaigns(n int) []*models.Campaign {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*models.Campaign, n)
	for i := range out {
		out[i] = &models.Campaign{
			ID:            int64(n - i),
			OwnerID:       1,
			Title:         "Campaign",
			BudgetAmount:  50000,
			Currency:      "USD",
			FundingStatus: models.FundingPending,
			CreatedAt:     base.Add(time.Duration(n-i) * time.Hour),
		}
	}
	return out
}

func listCampaigns(t *testing.T, lister *mockCampaignLister, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := &CampaignHandler{Campaigns: lister, Logger: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	return rec
}

// ---------------------------------------------------------------------------
// GET /v1/campaigns
// ---------------------------------------------------------------------------

// Without any pagination parameter the response is the legacy bare array.
func TestListCampaigns_BareArray(t *testing.T) {
	lister := &mockCampaignLister{campaigns: sampleCampaigns(3)}
	rec := listCampaigns(t, lister, "/v1/campaigns")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &arr); err != nil {
		t.Fatalf("response should be a bare array: %v", err)
	}
	if len(arr) != 3 {
		t.Errorf("array length: got %d, want 3", len(arr))
	}
	if lister.allCalls != 1 || lister.listCalls != 0 {
		t.Errorf("store calls: all=%d list=%d, want all=1 list=0", lister.allCalls, lister.listCalls)
	}
}

func TestListCampaigns_BareArrayEmpty(t *testing.T) {
	rec := listCampaigns(t, &mockCampaignLister{}, "/v1/campaigns")

	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("empty collection must encode as []: got %q", body)
	}
}

// Any pagination parameter switches to the {data, next_cursor} envelope.
func TestListCampaigns_Envelope(t *testing.T) {
	token := pagination.Encode(pagination.Cursor{SortValue: time.Now(), Tiebreak: "2"})
	lister := &mockCampaignLister{campaigns: sampleCampaigns(2), next: &token}
	rec := listCampaigns(t, lister, "/v1/campaigns?limit=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data       []json.RawMessage `json:"data"`
		NextCursor *string           `json:"next_cursor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Errorf("data length: got %d, want 2", len(envelope.Data))
	}
	if envelope.NextCursor == nil || *envelope.NextCursor != token {
		t.Error("envelope should carry the next cursor")
	}
	if lister.gotParams.Limit != 2 {
		t.Errorf("limit passed to store: got %d, want 2", lister.gotParams.Limit)
	}
	if lister.gotParams.Order != pagination.DefaultOrder {
		t.Errorf("order passed to store: got %s, want default", lister.gotParams.Order)
	}
}

func TestListCampaigns_EnvelopeEmptyData(t *testing.T) {
	rec := listCampaigns(t, &mockCampaignLister{}, "/v1/campaigns?limit=5")

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if string(envelope["data"]) != "[]" {
		t.Errorf("empty page must encode data as []: got %s", envelope["data"])
	}
	if string(envelope["next_cursor"]) != "null" {
		t.Errorf("last page must encode next_cursor as null: got %s", envelope["next_cursor"])
	}
}

// Invalid pagination parameters fail before the store is touched.
func TestListCampaigns_InvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		target string
	}{
		{"limit too large", "/v1/campaigns?limit=200"},
		{"limit negative", "/v1/campaigns?limit=-1"},
		{"limit not integer", "/v1/campaigns?limit=ten"},
		{"unknown sort", "/v1/campaigns?sort=priority_desc"},
		{"garbage cursor", "/v1/campaigns?cursor=!!!"},
	}
	for _, tc := range cases {
		lister := &mockCampaignLister{campaigns: sampleCampaigns(1)}
		rec := listCampaigns(t, lister, tc.target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d: %s", tc.name, rec.Code, rec.Body.String())
		}
		if lister.listCalls != 0 || lister.allCalls != 0 {
			t.Errorf("%s: store must not be touched on invalid params", tc.name)
		}
	}
}
