package domain

import (
	"github.com/google/uuid"
)

// ReviewEvent is a single review submitted by a caller. It is transient and
// is converted into one ReviewState mutation and one PerformanceRecord.
type ReviewEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	QuestionID uuid.UUID `json:"question_id"`
	Quality    string    `json:"quality"`

	// set by ParseReviewEvent when the raw identifier was present but malformed
	malformedUserID     bool
	malformedQuestionID bool
}

// ParseReviewEvent builds an event from raw identifiers. An identifier that
// does not parse is left as uuid.Nil and reported by Validate as malformed
// rather than missing.
func ParseReviewEvent(userID, questionID, quality string) ReviewEvent {
	e := ReviewEvent{Quality: quality}
	e.UserID, e.malformedUserID = parseRawID(userID)
	e.QuestionID, e.malformedQuestionID = parseRawID(questionID)
	return e
}

func parseRawID(raw string) (uuid.UUID, bool) {
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, true
	}
	return id, false
}

// Validate checks identifiers and the quality label and returns the parsed
// rating.
func (e ReviewEvent) Validate() (Quality, error) {
	if err := validateEventID("user_id", e.UserID, e.malformedUserID); err != nil {
		return 0, err
	}
	if err := validateEventID("question_id", e.QuestionID, e.malformedQuestionID); err != nil {
		return 0, err
	}
	return ParseQuality(e.Quality)
}

func validateEventID(field string, id uuid.UUID, malformed bool) error {
	switch {
	case malformed:
		return NewValidationError(field, "must be a UUID", ErrInvalidID)
	case id == uuid.Nil:
		return NewValidationError(field, "is required", ErrInvalidID)
	}
	return nil
}
