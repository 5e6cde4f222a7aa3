package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// PerformanceRecordStore defines the interface for the append-only
// performance log. There is no update or delete path.
// Version: 1.0
type PerformanceRecordStore interface {
	// Append writes a new record.
	// Returns ErrInvalidEntity if the record fails validation and
	// ErrDuplicate if a record with the same ID already exists.
	Append(ctx context.Context, record *domain.PerformanceRecord) error

	// ListByUser returns all records of a user ordered by review time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PerformanceRecord, error)

	// ListByQuestion returns all records of a question ordered by review time.
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.PerformanceRecord, error)

	// ListByQuiz returns all records of the questions in a quiz ordered by review time.
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]domain.PerformanceRecord, error)

	// WithTx returns a new PerformanceRecordStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) PerformanceRecordStore
}
