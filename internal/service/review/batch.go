package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// ProcessBatch implements Service.ProcessBatch.
func (s *serviceImpl) ProcessBatch(
	ctx context.Context,
	events []domain.ReviewEvent,
) (*BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(events) == 0 {
		return nil, NewServiceError("process_batch", "batch is empty", ErrInvalidBatch)
	}
	if len(events) > s.maxBatch {
		log.Warn("rejected oversize batch",
			slog.Int("size", len(events)),
			slog.Int("max", s.maxBatch))
		return nil, NewServiceError("process_batch",
			fmt.Sprintf("batch of %d exceeds maximum of %d", len(events), s.maxBatch),
			ErrInvalidBatch)
	}

	outcomes := make([]ReviewOutcome, len(events))

	// Each lane owns a disjoint set of indices, so outcomes needs no lock.
	var g errgroup.Group
	g.SetLimit(s.limit)
	for _, lane := range lanes(events) {
		g.Go(func() error {
			for _, i := range lane {
				outcomes[i] = s.outcome(ctx, i, events[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Total: len(events), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	log.Info("batch processed",
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed))
	return result, nil
}

func (s *serviceImpl) outcome(ctx context.Context, index int, event domain.ReviewEvent) ReviewOutcome {
	out := ReviewOutcome{Index: index, QuestionID: event.QuestionID}

	next, err := s.apply(ctx, event)
	if err != nil {
		out.ErrorKind = classify(err)
		out.Error = err.Error()
		return out
	}

	out.Success = true
	out.NewInterval = next.Interval
	out.NextReviewAt = next.NextReviewAt
	return out
}

// lanes groups event indices by question, in order of first appearance.
// Indices within a lane keep input order.
func lanes(events []domain.ReviewEvent) [][]int {
	byQuestion := make(map[uuid.UUID]int, len(events))
	var out [][]int
	for i, e := range events {
		n, ok := byQuestion[e.QuestionID]
		if !ok {
			n = len(out)
			byQuestion[e.QuestionID] = n
			out = append(out, nil)
		}
		out[n] = append(out[n], i)
	}
	return out
}
