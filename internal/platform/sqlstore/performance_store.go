package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/store"
)

const selectRecordSQL = `
	SELECT pr.id, pr.user_id, pr.question_id, pr.quality, pr.reviewed_at
	FROM performance_records pr`

// SQLPerformanceStore implements the store.PerformanceRecordStore interface
// on top of database/sql. Records are only ever inserted.
type SQLPerformanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPerformanceStore creates a new SQL implementation of the PerformanceRecordStore interface.
// If logger is nil, a default logger will be used.
func NewPerformanceStore(db store.DBTX, logger *slog.Logger) *SQLPerformanceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLPerformanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "performance_store")),
	}
}

// Ensure SQLPerformanceStore implements store.PerformanceRecordStore interface
var _ store.PerformanceRecordStore = (*SQLPerformanceStore)(nil)

// Append implements store.PerformanceRecordStore.Append.
func (s *SQLPerformanceStore) Append(ctx context.Context, record *domain.PerformanceRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if record == nil {
		return fmt.Errorf("%w: nil performance record", store.ErrInvalidEntity)
	}
	if err := record.Validate(); err != nil {
		log.Warn("refusing to append invalid performance record",
			slog.String("record_id", record.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO performance_records (id, user_id, question_id, quality, reviewed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID,
		record.UserID,
		record.QuestionID,
		int(record.Quality),
		record.ReviewedAt.UTC(),
	)
	if err != nil {
		mapped := MapError(err)
		if IsForeignKeyViolation(err) {
			mapped = fmt.Errorf("%w: %v", store.ErrQuestionNotFound, err)
		}
		log.Error("failed to append performance record",
			slog.String("record_id", record.ID.String()),
			slog.String("question_id", record.QuestionID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("performance_record", "append", "insert failed", mapped)
	}

	log.Debug("performance record appended",
		slog.String("record_id", record.ID.String()),
		slog.String("question_id", record.QuestionID.String()))
	return nil
}

// ListByUser implements store.PerformanceRecordStore.ListByUser.
func (s *SQLPerformanceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PerformanceRecord, error) {
	return s.list(ctx, "list_by_user",
		selectRecordSQL+` WHERE pr.user_id = $1 ORDER BY pr.reviewed_at, pr.id`, userID)
}

// ListByQuestion implements store.PerformanceRecordStore.ListByQuestion.
func (s *SQLPerformanceStore) ListByQuestion(
	ctx context.Context,
	questionID uuid.UUID,
) ([]domain.PerformanceRecord, error) {
	return s.list(ctx, "list_by_question",
		selectRecordSQL+` WHERE pr.question_id = $1 ORDER BY pr.reviewed_at, pr.id`, questionID)
}

// ListByQuiz implements store.PerformanceRecordStore.ListByQuiz.
func (s *SQLPerformanceStore) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]domain.PerformanceRecord, error) {
	return s.list(ctx, "list_by_quiz",
		selectRecordSQL+`
		JOIN questions q ON q.id = pr.question_id
		WHERE q.quiz_id = $1
		ORDER BY pr.reviewed_at, pr.id`, quizID)
}

// WithTx implements store.PerformanceRecordStore.WithTx.
func (s *SQLPerformanceStore) WithTx(tx *sql.Tx) store.PerformanceRecordStore {
	return &SQLPerformanceStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *SQLPerformanceStore) list(
	ctx context.Context,
	operation, query string,
	id uuid.UUID,
) ([]domain.PerformanceRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		log.Error("failed to query performance records",
			slog.String("operation", operation),
			slog.String("id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("performance_record", operation, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := []domain.PerformanceRecord{}
	for rows.Next() {
		var (
			rec     domain.PerformanceRecord
			quality int
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.QuestionID, &quality, &rec.ReviewedAt); err != nil {
			return nil, store.NewStoreError("performance_record", operation, "scan failed", err)
		}
		rec.Quality = domain.Quality(quality)
		rec.ReviewedAt = rec.ReviewedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, store.NewStoreError("performance_record", operation, "iteration failed", MapError(err))
	}

	return records, nil
}
