package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/identity"
	"github.com/missionpool/backend/internal/models"
)

// MissionStore is the mission repository subset the workflow needs.
type MissionStore interface {
	Create(ctx context.Context, m *models.Mission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	AcceptIfOpen(ctx context.Context, id uuid.UUID, assigneeID int64) (bool, error)
	UpdateState(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
}

// CampaignStore resolves parent campaigns for ownership checks.
type CampaignStore interface {
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
}

// SubmissionStore upserts the single deliverable per mission.
type SubmissionStore interface {
	Upsert(ctx context.Context, missionID uuid.UUID, contentURL string) (*models.Submission, error)
}

// Service validates and executes mission lifecycle transitions. Each edge
// checks role, ownership, and table membership strictly before writing.
type Service struct {
	gate        *identity.Gate
	missions    MissionStore
	campaigns   CampaignStore
	submissions SubmissionStore
	logger      *slog.Logger
}

func NewService(gate *identity.Gate, missions MissionStore, campaigns CampaignStore, submissions SubmissionStore, logger *slog.Logger) *Service {
	return &Service{gate: gate, missions: missions, campaigns: campaigns, submissions: submissions, logger: logger}
}

// CreateMission adds a mission to a campaign the caller owns.
func (s *Service) CreateMission(ctx context.Context, credential string, campaignID int64, payoutAmount int64) (*models.Mission, error) {
	_, acc, err := s.gate.RequireRole(ctx, credential, models.RoleSponsor)
	if err != nil {
		return nil, err
	}
	if payoutAmount < models.MinimumAmount {
		return nil, apperr.New(apperr.Validation, "payout_amount must be at least %d minor units", models.MinimumAmount)
	}
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.New(apperr.NotFound, "campaign not found")
	}
	if campaign.OwnerID != acc.ID {
		return nil, apperr.New(apperr.Forbidden, "caller does not own campaign")
	}
	m := &models.Mission{
		ID:           uuid.New(),
		CampaignID:   campaignID,
		PayoutAmount: payoutAmount,
		State:        models.MissionOpen,
	}
	if err := s.missions.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("mission created", "mission_id", m.ID, "campaign_id", campaignID)
	return m, nil
}

// Accept executes OPEN → ACCEPTED, binding the caller as assignee in the
// same conditional write. A lost race surfaces as InvalidTransition: by the
// time the write ran, the mission was no longer OPEN.
func (s *Service) Accept(ctx context.Context, credential string, missionID uuid.UUID) (*models.Mission, error) {
	_, acc, err := s.gate.RequireRole(ctx, credential, models.RoleAssignee)
	if err != nil {
		return nil, err
	}
	m, err := s.loadMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if err := AssertTransition(m.State, models.MissionAccepted); err != nil {
		return nil, err
	}
	ok, err := s.missions.AcceptIfOpen(ctx, missionID, acc.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the accept race: the state check passed on the read but the
		// conditional write found the mission no longer OPEN.
		return nil, apperr.New(apperr.InvalidTransition, "mission is no longer OPEN").
			WithMeta(map[string]any{"from": models.MissionOpen, "to": models.MissionAccepted})
	}
	m.State = models.MissionAccepted
	m.AssigneeID = &acc.ID
	s.logger.Info("mission accepted", "mission_id", missionID, "assignee_id", acc.ID)
	return m, nil
}

// Submit executes ACCEPTED → SUBMITTED and upserts the deliverable. A
// mission already SUBMITTED accepts a resubmission: the content reference
// is overwritten in place and the state is untouched.
func (s *Service) Submit(ctx context.Context, credential string, missionID uuid.UUID, contentURL string) (*models.Mission, error) {
	_, acc, err := s.gate.RequireRole(ctx, credential, models.RoleAssignee)
	if err != nil {
		return nil, err
	}
	if contentURL == "" {
		return nil, apperr.New(apperr.Validation, "content_url is required")
	}
	m, err := s.loadMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.AssigneeID == nil || *m.AssigneeID != acc.ID {
		return nil, apperr.New(apperr.OwnershipMismatch, "caller is not the mission assignee")
	}
	resubmit := m.State == models.MissionSubmitted
	if !resubmit {
		if err := AssertTransition(m.State, models.MissionSubmitted); err != nil {
			return nil, err
		}
	}
	if _, err := s.submissions.Upsert(ctx, missionID, contentURL); err != nil {
		return nil, err
	}
	if !resubmit {
		ok, err := s.missions.UpdateState(ctx, missionID, models.MissionAccepted, models.MissionSubmitted)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.New(apperr.InvalidTransition, "mission is no longer ACCEPTED")
		}
		m.State = models.MissionSubmitted
	}
	s.logger.Info("mission submitted", "mission_id", missionID, "resubmit", resubmit)
	return m, nil
}

// Verify executes SUBMITTED → VERIFIED; the caller must own the parent
// campaign.
func (s *Service) Verify(ctx context.Context, credential string, missionID uuid.UUID) (*models.Mission, error) {
	return s.review(ctx, credential, missionID, models.MissionVerified)
}

// Reject executes SUBMITTED → REJECTED; the caller must own the parent
// campaign. REJECTED is terminal.
func (s *Service) Reject(ctx context.Context, credential string, missionID uuid.UUID) (*models.Mission, error) {
	return s.review(ctx, credential, missionID, models.MissionRejected)
}

func (s *Service) review(ctx context.Context, credential string, missionID uuid.UUID, target string) (*models.Mission, error) {
	_, acc, err := s.gate.RequireRole(ctx, credential, models.RoleSponsor)
	if err != nil {
		return nil, err
	}
	m, err := s.loadMission(ctx, missionID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetByID(ctx, m.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.New(apperr.NotFound, "campaign not found")
	}
	if campaign.OwnerID != acc.ID {
		return nil, apperr.New(apperr.OwnershipMismatch, "caller does not own the parent campaign")
	}
	if err := AssertTransition(m.State, target); err != nil {
		return nil, err
	}
	ok, err := s.missions.UpdateState(ctx, missionID, models.MissionSubmitted, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.InvalidTransition, "mission is no longer SUBMITTED")
	}
	m.State = target
	s.logger.Info("mission reviewed", "mission_id", missionID, "state", target)
	return m, nil
}

func (s *Service) loadMission(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	m, err := s.missions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.New(apperr.NotFound, "mission not found")
	}
	return m, nil
}
