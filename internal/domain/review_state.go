package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults for questions that have never been reviewed.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// MaxIntervalDays is the interval at which growth saturates, roughly 2,700
// years. It keeps next review dates inside the four-digit-year calendar that
// JSON timestamps and SQL datetime columns can represent.
const MaxIntervalDays = 1_000_000

// MaxNextReviewAt is the latest storable next review date.
var MaxNextReviewAt = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Validation errors for ReviewState
var (
	ErrEmptyQuestionID   = errors.New("review state question ID cannot be empty")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")
	ErrInvalidRepetition = errors.New("repetition count must be greater than or equal to 0")
	ErrIntervalTooLarge  = errors.New("interval exceeds the maximum of 1000000 days")
	ErrNextReviewTooLate = errors.New("next review date is after 9999-12-31")
)

// ReviewState is the scheduling state of a single question. State is keyed
// by question, not by (user, question).
type ReviewState struct {
	QuestionID      uuid.UUID  `json:"question_id"`
	QuizID          uuid.UUID  `json:"quiz_id"`
	EaseFactor      float64    `json:"ease_factor"`
	Interval        int        `json:"interval"` // days until next review
	RepetitionCount int        `json:"repetition_count"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"` // nil means never scheduled
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewReviewState returns the default state of an unseen question.
func NewReviewState(questionID, quizID uuid.UUID) *ReviewState {
	return &ReviewState{
		QuestionID:      questionID,
		QuizID:          quizID,
		EaseFactor:      DefaultEaseFactor,
		Interval:        0,
		RepetitionCount: 0,
	}
}

// Validate checks the ReviewState invariants.
func (s *ReviewState) Validate() error {
	if s.QuestionID == uuid.Nil {
		return ErrEmptyQuestionID
	}
	if s.EaseFactor < MinEaseFactor || math.IsNaN(s.EaseFactor) {
		return ErrInvalidEaseFactor
	}
	if s.Interval < 0 {
		return ErrInvalidInterval
	}
	if s.Interval > MaxIntervalDays {
		return ErrIntervalTooLarge
	}
	if s.RepetitionCount < 0 {
		return ErrInvalidRepetition
	}
	if s.NextReviewAt != nil && s.NextReviewAt.After(MaxNextReviewAt) {
		return ErrNextReviewTooLate
	}
	return nil
}

// Normalize fills unset fields with defaults and clamps out-of-range values
// so the scheduler always receives a fully populated state. Storage calls it
// once when a row is read.
func (s *ReviewState) Normalize() {
	switch {
	case s.EaseFactor == 0 || math.IsNaN(s.EaseFactor):
		s.EaseFactor = DefaultEaseFactor
	case s.EaseFactor < MinEaseFactor:
		s.EaseFactor = MinEaseFactor
	}
	switch {
	case s.Interval < 0:
		s.Interval = 0
	case s.Interval > MaxIntervalDays:
		s.Interval = MaxIntervalDays
	}
	if s.RepetitionCount < 0 {
		s.RepetitionCount = 0
	}
	if s.NextReviewAt != nil {
		t := s.NextReviewAt.UTC()
		s.NextReviewAt = &t
	}
}

// IsScheduled reports whether the question has a next review date.
func (s *ReviewState) IsScheduled() bool {
	return s.NextReviewAt != nil
}

// Clone returns a deep copy of s.
func (s *ReviewState) Clone() *ReviewState {
	c := *s
	if s.NextReviewAt != nil {
		t := *s.NextReviewAt
		c.NextReviewAt = &t
	}
	return &c
}
