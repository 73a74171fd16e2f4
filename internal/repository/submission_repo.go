package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missionpool/backend/internal/models"
)

type SubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// Upsert inserts the submission for a mission or overwrites the content
// reference in place. mission_id is unique, so a mission never accumulates
// history: only the latest deliverable is kept.
func (r *SubmissionRepo) Upsert(ctx context.Context, missionID uuid.UUID, contentURL string) (*models.Submission, error) {
	var s models.Submission
	err := r.pool.QueryRow(ctx, `
		INSERT INTO submissions (mission_id, content_url)
		VALUES ($1, $2)
		ON CONFLICT (mission_id) DO UPDATE
		SET content_url = EXCLUDED.content_url, updated_at = now()
		RETURNING id, mission_id, content_url, created_at, updated_at
	`, missionID, contentURL).Scan(&s.ID, &s.MissionID, &s.ContentURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByMissionID returns (nil, nil) when the mission has no submission.
func (r *SubmissionRepo) GetByMissionID(ctx context.Context, missionID uuid.UUID) (*models.Submission, error) {
	var s models.Submission
	err := r.pool.QueryRow(ctx, `
		SELECT id, mission_id, content_url, created_at, updated_at
		FROM submissions WHERE mission_id = $1
	`, missionID).Scan(&s.ID, &s.MissionID, &s.ContentURL, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
