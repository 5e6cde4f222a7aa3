package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/domain/dueset"
	"github.com/phrazzld/scry-scheduler/internal/domain/performance"
)

// Service processes reviews and answers read queries over review state and
// the performance log.
type Service interface {
	// ProcessBatch applies every event independently and returns one outcome
	// per event, in input order. A failing event never aborts its siblings.
	//
	// Events that target the same question are applied sequentially in input
	// order; events on distinct questions run concurrently up to the
	// configured limit.
	//
	// The only batch-level error is ErrInvalidBatch for an empty or oversize
	// batch. Per-item failures are reported through ReviewOutcome.
	ProcessBatch(ctx context.Context, events []domain.ReviewEvent) (*BatchResult, error)

	// SubmitReview applies a single event and returns the new state.
	//
	// Error Handling:
	//   - domain.ErrValidation for a missing identifier or unknown quality label
	//   - ErrQuestionNotFound when the question does not exist
	//   - ErrPersistence when the state or the performance record could not be written
	SubmitReview(ctx context.Context, event domain.ReviewEvent) (*domain.ReviewState, error)

	// Due returns the states in the given view, optionally restricted to a
	// quiz. A nil quizID means every quiz.
	Due(ctx context.Context, view dueset.View, quizID uuid.UUID) ([]domain.ReviewState, error)

	// DueSummary counts the due, overdue and due-today views.
	DueSummary(ctx context.Context, quizID uuid.UUID) (dueset.Summary, error)

	// UserStats aggregates every record of a user.
	UserStats(ctx context.Context, userID uuid.UUID) (performance.Stats, error)

	// QuestionStats aggregates every record of a question.
	// Returns ErrQuestionNotFound when the question does not exist.
	QuestionStats(ctx context.Context, questionID uuid.UUID) (performance.Stats, error)

	// QuizStats aggregates every record of a quiz and reports coverage.
	QuizStats(ctx context.Context, quizID uuid.UUID) (performance.QuizStats, error)
}

// Clock returns the current time. It is injected so tests can pin "now".
type Clock func() time.Time

// Common error types for the review service
var (
	// ErrInvalidBatch indicates an empty batch or one larger than the configured maximum.
	ErrInvalidBatch = errors.New("invalid batch")

	// ErrQuestionNotFound indicates the reviewed question does not exist.
	ErrQuestionNotFound = errors.New("not found")

	// ErrPersistence indicates a storage failure while saving a review.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidView indicates an unknown due view name.
	ErrInvalidView = errors.New("invalid view")
)

// ErrorKind classifies a failed outcome.
type ErrorKind string

// Outcome error kinds.
const (
	ErrorKindNone        ErrorKind = ""
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindNotFound    ErrorKind = "not_found"
	ErrorKindPersistence ErrorKind = "persistence"
)

// ReviewOutcome reports the result of one event of a batch.
type ReviewOutcome struct {
	Index        int        `json:"index"`
	QuestionID   uuid.UUID  `json:"question_id"`
	Success      bool       `json:"success"`
	NewInterval  int        `json:"new_interval,omitempty"`
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`
	ErrorKind    ErrorKind  `json:"error_kind,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// BatchResult holds the outcomes of a batch in input order.
type BatchResult struct {
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Outcomes   []ReviewOutcome `json:"outcomes"`
}

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review", "process_batch")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
