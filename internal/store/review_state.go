package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// ReviewStateStore defines the interface for review state persistence.
// Version: 1.0
type ReviewStateStore interface {
	// Get retrieves the review state of a question.
	// A known question that has never been reviewed yields a default state
	// (ease 2.5, interval 0, no next review). Every returned state has been
	// normalized.
	// Returns ErrQuestionNotFound if the question does not exist.
	// NOTE: This method does NOT lock the row; use GetForUpdate before a save.
	Get(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate is Get with a row-level lock on the question, held until
	// the surrounding transaction ends. It must be called on a store bound to
	// a transaction with WithTx.
	GetForUpdate(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error)

	// Save overwrites the review state keyed by its question ID.
	// Saving the same state twice has the same effect as saving it once.
	// Returns ErrInvalidEntity if the state fails validation and
	// ErrQuestionNotFound if the question does not exist.
	Save(ctx context.Context, state *domain.ReviewState) error

	// List returns the review state of every known question.
	List(ctx context.Context) ([]domain.ReviewState, error)

	// CountByQuiz returns the number of questions in a quiz.
	CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}
