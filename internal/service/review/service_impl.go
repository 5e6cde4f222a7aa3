package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/domain/srs"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/store"
)

// Default batch limits used when Options leaves them unset.
const (
	DefaultConcurrency  = 8
	DefaultMaxBatchSize = 100
)

// Options tunes the review service.
type Options struct {
	// Concurrency bounds the number of batch lanes running at once.
	Concurrency int
	// MaxBatchSize is the largest batch accepted by ProcessBatch.
	MaxBatchSize int
	// Clock supplies "now"; defaults to time.Now.
	Clock Clock
}

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	states    store.ReviewStateStore
	records   store.PerformanceRecordStore
	tx        store.Transactor
	scheduler srs.Service
	clock     Clock
	limit     int
	maxBatch  int
	logger    *slog.Logger
}

// NewService creates a new review Service.
func NewService(
	states store.ReviewStateStore,
	records store.PerformanceRecordStore,
	tx store.Transactor,
	scheduler srs.Service,
	opts Options,
	logger *slog.Logger,
) Service {
	if states == nil {
		panic("states cannot be nil")
	}
	if records == nil {
		panic("records cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &serviceImpl{
		states:    states,
		records:   records,
		tx:        tx,
		scheduler: scheduler,
		clock:     opts.Clock,
		limit:     opts.Concurrency,
		maxBatch:  opts.MaxBatchSize,
		logger:    logger.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	event domain.ReviewEvent,
) (*domain.ReviewState, error) {
	next, err := s.apply(ctx, event)
	if err != nil {
		return nil, NewServiceError("submit_review", failureMessage(err), err)
	}
	return next, nil
}

// apply validates one event, then reads, reschedules and writes inside a
// single transaction. The state save and the record append commit together.
// The read locks the question so concurrent reviews of it cannot both start
// from the same repetition count.
func (s *serviceImpl) apply(ctx context.Context, event domain.ReviewEvent) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", event.UserID.String()),
		slog.String("question_id", event.QuestionID.String()),
	)

	quality, err := event.Validate()
	if err != nil {
		log.Warn("rejected review event",
			slog.String("quality", event.Quality),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.clock().UTC()
	var next *domain.ReviewState

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		states := s.states.WithTx(tx)
		records := s.records.WithTx(tx)

		current, err := states.GetForUpdate(ctx, event.QuestionID)
		if err != nil {
			if errors.Is(err, store.ErrQuestionNotFound) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("%w: get state: %v", ErrPersistence, err)
		}

		next, err = s.scheduler.ApplyReview(current, quality, now)
		if err != nil {
			return fmt.Errorf("%w: schedule: %v", ErrPersistence, err)
		}

		if err := states.Save(ctx, next); err != nil {
			if errors.Is(err, store.ErrQuestionNotFound) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("%w: save state: %v", ErrPersistence, err)
		}

		record, err := domain.NewPerformanceRecord(event.UserID, event.QuestionID, quality, now)
		if err != nil {
			return fmt.Errorf("%w: build record: %v", ErrPersistence, err)
		}
		if err := records.Append(ctx, record); err != nil {
			return fmt.Errorf("%w: append record: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionNotFound):
			log.Warn("review for unknown question")
			return nil, ErrQuestionNotFound
		case errors.Is(err, ErrPersistence):
			log.Error("failed to persist review", slog.String("error", err.Error()))
			return nil, err
		default:
			// Begin or commit failures from the transactor.
			log.Error("review transaction failed", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	log.Debug("review applied",
		slog.String("quality", quality.String()),
		slog.Float64("ease_factor", next.EaseFactor),
		slog.Int("interval", next.Interval),
		slog.Int("repetition_count", next.RepetitionCount))
	return next, nil
}

// classify maps an apply error to its outcome kind.
func classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, domain.ErrValidation):
		return ErrorKindValidation
	case errors.Is(err, ErrQuestionNotFound):
		return ErrorKindNotFound
	default:
		return ErrorKindPersistence
	}
}

func failureMessage(err error) string {
	switch classify(err) {
	case ErrorKindValidation:
		return "invalid review event"
	case ErrorKindNotFound:
		return "question not found"
	default:
		return "failed to persist review"
	}
}
