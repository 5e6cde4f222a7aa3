package api

import (
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/domain/dueset"
)

// SubmitReviewRequest is the body of POST /api/reviews.
type SubmitReviewRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Quality    string `json:"quality" validate:"required"`
}

// BatchReviewItem is one entry of a batch. Items are validated individually
// by the service so one bad entry does not reject the batch.
type BatchReviewItem struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Quality    string `json:"quality"`
}

// BatchReviewRequest is the body of POST /api/reviews/batch.
type BatchReviewRequest struct {
	Reviews []BatchReviewItem `json:"reviews" validate:"required"`
}

// DueResponse lists the states of one due view.
type DueResponse struct {
	View  dueset.View          `json:"view"`
	Count int                  `json:"count"`
	Items []domain.ReviewState `json:"items"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (req SubmitReviewRequest) event() domain.ReviewEvent {
	return domain.ParseReviewEvent(req.UserID, req.QuestionID, req.Quality)
}

func (req BatchReviewRequest) events() []domain.ReviewEvent {
	events := make([]domain.ReviewEvent, len(req.Reviews))
	for i, item := range req.Reviews {
		events[i] = domain.ParseReviewEvent(item.UserID, item.QuestionID, item.Quality)
	}
	return events
}
