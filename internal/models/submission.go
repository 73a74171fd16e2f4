package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the single current deliverable for a mission. At most one
// row exists per mission; resubmission overwrites the content reference.
type Submission struct {
	ID         int64     `json:"id"`
	MissionID  uuid.UUID `json:"mission_id"`
	ContentURL string    `json:"content_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
