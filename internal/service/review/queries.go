package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/domain/dueset"
	"github.com/phrazzld/scry-scheduler/internal/domain/performance"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/store"
)

// Due implements Service.Due.
func (s *serviceImpl) Due(
	ctx context.Context,
	view dueset.View,
	quizID uuid.UUID,
) ([]domain.ReviewState, error) {
	if !view.IsValid() {
		return nil, NewServiceError("due", "unknown view "+string(view),
			domain.NewValidationError("view", "must be one of due, overdue, today", ErrInvalidView))
	}

	states, err := s.snapshot(ctx, "due", quizID)
	if err != nil {
		return nil, err
	}
	return dueset.Select(view, states, s.clock()), nil
}

// DueSummary implements Service.DueSummary.
func (s *serviceImpl) DueSummary(ctx context.Context, quizID uuid.UUID) (dueset.Summary, error) {
	states, err := s.snapshot(ctx, "due_summary", quizID)
	if err != nil {
		return dueset.Summary{}, err
	}
	return dueset.Summarize(states, s.clock()), nil
}

// UserStats implements Service.UserStats.
func (s *serviceImpl) UserStats(ctx context.Context, userID uuid.UUID) (performance.Stats, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		s.logQueryError(ctx, "user_stats", err)
		return performance.Stats{}, NewServiceError("user_stats", "failed to load records", err)
	}
	return performance.ForUser(records), nil
}

// QuestionStats implements Service.QuestionStats.
func (s *serviceImpl) QuestionStats(ctx context.Context, questionID uuid.UUID) (performance.Stats, error) {
	if _, err := s.states.Get(ctx, questionID); err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return performance.Stats{}, NewServiceError("question_stats", "question not found",
				ErrQuestionNotFound)
		}
		s.logQueryError(ctx, "question_stats", err)
		return performance.Stats{}, NewServiceError("question_stats", "failed to load question", err)
	}

	records, err := s.records.ListByQuestion(ctx, questionID)
	if err != nil {
		s.logQueryError(ctx, "question_stats", err)
		return performance.Stats{}, NewServiceError("question_stats", "failed to load records", err)
	}
	return performance.ForQuestion(records), nil
}

// QuizStats implements Service.QuizStats.
func (s *serviceImpl) QuizStats(ctx context.Context, quizID uuid.UUID) (performance.QuizStats, error) {
	total, err := s.states.CountByQuiz(ctx, quizID)
	if err != nil {
		s.logQueryError(ctx, "quiz_stats", err)
		return performance.QuizStats{}, NewServiceError("quiz_stats", "failed to count questions", err)
	}

	records, err := s.records.ListByQuiz(ctx, quizID)
	if err != nil {
		s.logQueryError(ctx, "quiz_stats", err)
		return performance.QuizStats{}, NewServiceError("quiz_stats", "failed to load records", err)
	}
	return performance.ForQuiz(records, total), nil
}

// snapshot lists every state, restricted to quizID unless it is uuid.Nil.
func (s *serviceImpl) snapshot(ctx context.Context, operation string, quizID uuid.UUID) ([]domain.ReviewState, error) {
	states, err := s.states.List(ctx)
	if err != nil {
		s.logQueryError(ctx, operation, err)
		return nil, NewServiceError(operation, "failed to load review states", err)
	}
	return dueset.InQuiz(states, quizID), nil
}

func (s *serviceImpl) logQueryError(ctx context.Context, operation string, err error) {
	logger.FromContextOrDefault(ctx, s.logger).Error("review query failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()))
}
