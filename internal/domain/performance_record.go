package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors for PerformanceRecord
var (
	ErrEmptyRecordUserID     = errors.New("performance record user ID cannot be empty")
	ErrEmptyRecordQuestionID = errors.New("performance record question ID cannot be empty")
	ErrEmptyReviewedAt       = errors.New("performance record reviewed at cannot be zero")
)

// PerformanceRecord is an append-only log entry written once per processed
// review.
type PerformanceRecord struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Quality    Quality   `json:"quality"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// NewPerformanceRecord creates a record with a fresh ID.
func NewPerformanceRecord(
	userID, questionID uuid.UUID,
	quality Quality,
	reviewedAt time.Time,
) (*PerformanceRecord, error) {
	rec := &PerformanceRecord{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		Quality:    quality,
		ReviewedAt: reviewedAt.UTC(),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the PerformanceRecord has valid data.
func (r *PerformanceRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}
	if r.QuestionID == uuid.Nil {
		return ErrEmptyRecordQuestionID
	}
	if !r.Quality.IsValid() {
		return ErrInvalidQuality
	}
	if r.ReviewedAt.IsZero() {
		return ErrEmptyReviewedAt
	}
	return nil
}
