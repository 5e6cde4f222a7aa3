package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/store"
)

const selectReviewStateSQL = `
	SELECT q.id, q.quiz_id, rs.ease_factor, rs.interval_days, rs.repetition_count,
		rs.next_review_at, rs.updated_at
	FROM questions q
	LEFT JOIN review_states rs ON rs.question_id = q.id`

const upsertReviewStateSQL = `
	INSERT INTO review_states (question_id, ease_factor, interval_days, repetition_count,
		next_review_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (question_id) DO UPDATE SET
		ease_factor = excluded.ease_factor,
		interval_days = excluded.interval_days,
		repetition_count = excluded.repetition_count,
		next_review_at = excluded.next_review_at,
		updated_at = excluded.updated_at`

// lockClauses is the row-lock suffix GetForUpdate appends per driver.
// Only the questions side of the outer join can be locked on PostgreSQL.
// SQLite runs on one connection, so its transactions are already serialized.
var lockClauses = map[string]string{
	DriverPostgres: ` FOR UPDATE OF q`,
	DriverSQLite:   ``,
}

// SQLReviewStateStore implements the store.ReviewStateStore interface
// on top of database/sql.
type SQLReviewStateStore struct {
	db         store.DBTX
	lockClause string
	logger     *slog.Logger
}

// NewReviewStateStore creates a new SQL implementation of the ReviewStateStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller,
// and the driver it was opened with. If logger is nil, a default logger will be used.
func NewReviewStateStore(db store.DBTX, driver string, logger *slog.Logger) *SQLReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	lockClause, ok := lockClauses[driver]
	if !ok {
		panic(fmt.Sprintf("unsupported database driver %q", driver))
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLReviewStateStore{
		db:         db,
		lockClause: lockClause,
		logger:     logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure SQLReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*SQLReviewStateStore)(nil)

// Get implements store.ReviewStateStore.Get.
func (s *SQLReviewStateStore) Get(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error) {
	return s.get(ctx, questionID, "")
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate.
func (s *SQLReviewStateStore) GetForUpdate(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error) {
	return s.get(ctx, questionID, s.lockClause)
}

func (s *SQLReviewStateStore) get(ctx context.Context, questionID uuid.UUID, suffix string) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, selectReviewStateSQL+` WHERE q.id = $1`+suffix, questionID)
	state, err := scanReviewState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.String("question_id", questionID.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get review state",
			slog.String("question_id", questionID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("review_state", "get", "query failed", MapError(err))
	}

	return state, nil
}

// Save implements store.ReviewStateStore.Save as an upsert keyed by question id.
func (s *SQLReviewStateStore) Save(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if state == nil {
		return fmt.Errorf("%w: nil review state", store.ErrInvalidEntity)
	}

	if err := state.Validate(); err != nil {
		log.Warn("refusing to save invalid review state",
			slog.String("question_id", state.QuestionID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, upsertReviewStateSQL,
		state.QuestionID,
		state.EaseFactor,
		state.Interval,
		state.RepetitionCount,
		nullTime(state.NextReviewAt),
		updatedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("cannot save state of unknown question",
				slog.String("question_id", state.QuestionID.String()))
			return store.ErrQuestionNotFound
		}
		log.Error("failed to save review state",
			slog.String("question_id", state.QuestionID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("review_state", "save", "upsert failed", MapError(err))
	}

	log.Debug("review state saved",
		slog.String("question_id", state.QuestionID.String()),
		slog.Int("interval", state.Interval))
	return nil
}

// List implements store.ReviewStateStore.List.
func (s *SQLReviewStateStore) List(ctx context.Context) ([]domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectReviewStateSQL+` ORDER BY q.id`)
	if err != nil {
		log.Error("failed to list review states", slog.String("error", err.Error()))
		return nil, store.NewStoreError("review_state", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	states := []domain.ReviewState{}
	for rows.Next() {
		state, err := scanReviewState(rows)
		if err != nil {
			return nil, store.NewStoreError("review_state", "list", "scan failed", err)
		}
		states = append(states, *state)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_state", "list", "iteration failed", MapError(err))
	}

	return states, nil
}

// CountByQuiz implements store.ReviewStateStore.CountByQuiz.
func (s *SQLReviewStateStore) CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE quiz_id = $1`, quizID).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count quiz questions",
			slog.String("quiz_id", quizID.String()),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("review_state", "count", "query failed", MapError(err))
	}
	return n, nil
}

// WithTx implements store.ReviewStateStore.WithTx.
func (s *SQLReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &SQLReviewStateStore{
		db:         tx,
		lockClause: s.lockClause,
		logger:     s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReviewState reads one joined row. Missing review_states columns mean
// the question was never reviewed; Normalize fills in the defaults.
func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var (
		state      domain.ReviewState
		ease       sql.NullFloat64
		interval   sql.NullInt64
		reps       sql.NullInt64
		nextReview sql.NullTime
		updatedAt  sql.NullTime
	)

	if err := row.Scan(
		&state.QuestionID,
		&state.QuizID,
		&ease,
		&interval,
		&reps,
		&nextReview,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if ease.Valid {
		state.EaseFactor = ease.Float64
	}
	state.Interval = int(interval.Int64)
	state.RepetitionCount = int(reps.Int64)
	if nextReview.Valid {
		t := nextReview.Time
		state.NextReviewAt = &t
	}
	if updatedAt.Valid {
		state.UpdatedAt = updatedAt.Time.UTC()
	}

	state.Normalize()
	return &state, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
