package main

import (
	"log/slog"
	"net/http"

	"github.com/missionpool/backend/internal/handlers"
	"github.com/missionpool/backend/internal/identity"
	"github.com/missionpool/backend/internal/repository"
	"github.com/missionpool/backend/internal/settlement"
	"github.com/missionpool/backend/internal/workflow"
)

// RouteDeps bundles what the route table needs; everything is constructed
// once in main and passed down.
type RouteDeps struct {
	Gate           *identity.Gate
	Workflow       *workflow.Service
	Coordinator    *settlement.Coordinator
	AccountRepo    *repository.AccountRepo
	CampaignRepo   *repository.CampaignRepo
	MissionRepo    *repository.MissionRepo
	SubmissionRepo *repository.SubmissionRepo
	WebhookSecret  string
	EnqueueEvent   handlers.EnqueueEventFunc
	Logger         *slog.Logger
}

// RegisterRoutes adds the /v1 API endpoints to the mux.
func RegisterRoutes(mux *http.ServeMux, deps RouteDeps) {
	campaignHandler := &handlers.CampaignHandler{
		Coordinator: deps.Coordinator,
		Campaigns:   deps.CampaignRepo,
		Logger:      deps.Logger,
	}
	missionHandler := &handlers.MissionHandler{
		Workflow:    deps.Workflow,
		Coordinator: deps.Coordinator,
		Missions:    deps.MissionRepo,
		Submissions: deps.SubmissionRepo,
		Logger:      deps.Logger,
	}
	accountHandler := &handlers.AccountHandler{
		Gate:     deps.Gate,
		Accounts: deps.AccountRepo,
		Logger:   deps.Logger,
	}
	webhookHandler := &handlers.WebhookHandler{
		Verifier: handlers.NewHMACVerifier(deps.WebhookSecret),
		Enqueue:  deps.EnqueueEvent,
		Logger:   deps.Logger,
	}

	mux.HandleFunc("POST /v1/campaigns", campaignHandler.Create)
	mux.HandleFunc("GET /v1/campaigns", campaignHandler.List)
	mux.HandleFunc("POST /v1/campaigns/{id}/confirm-funding", campaignHandler.ConfirmFunding)
	mux.HandleFunc("POST /v1/campaigns/{id}/missions", missionHandler.Create)

	mux.HandleFunc("GET /v1/missions", missionHandler.List)
	mux.HandleFunc("GET /v1/missions/{id}", missionHandler.Get)
	mux.HandleFunc("POST /v1/missions/{id}/accept", missionHandler.Accept)
	mux.HandleFunc("POST /v1/missions/{id}/submit", missionHandler.Submit)
	mux.HandleFunc("POST /v1/missions/{id}/verify", missionHandler.Verify)
	mux.HandleFunc("POST /v1/missions/{id}/reject", missionHandler.Reject)
	mux.HandleFunc("POST /v1/missions/{id}/payout", missionHandler.Payout)

	mux.HandleFunc("POST /v1/account/payout-account", accountHandler.SetPayoutAccount)
	mux.HandleFunc("POST /v1/webhooks/processor", webhookHandler.Receive)
}
