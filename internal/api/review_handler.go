package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-scheduler/internal/api/shared"
	"github.com/phrazzld/scry-scheduler/internal/domain/dueset"
	"github.com/phrazzld/scry-scheduler/internal/platform/logger"
	"github.com/phrazzld/scry-scheduler/internal/service/review"
)

// ReviewHandler handles review and statistics HTTP requests.
type ReviewHandler struct {
	service review.Service
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service review.Service, logger *slog.Logger) *ReviewHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		service: service,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// Mount registers the handler's routes on r.
func (h *ReviewHandler) Mount(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", h.SubmitReview)
		r.Post("/batch", h.SubmitBatch)
		r.Get("/due", h.ListDue)
		r.Get("/summary", h.DueSummary)
	})
	r.Route("/stats", func(r chi.Router) {
		r.Get("/users/{id}", h.UserStats)
		r.Get("/questions/{id}", h.QuestionStats)
		r.Get("/quizzes/{id}", h.QuizStats)
	})
}

// SubmitReview handles POST /api/reviews.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		log.Debug("invalid review request", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.service.SubmitReview(r.Context(), req.event())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, state)
}

// SubmitBatch handles POST /api/reviews/batch. Per-item failures are part of
// a 200 response; only a malformed or out-of-range batch is rejected.
func (h *ReviewHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.service.ProcessBatch(r.Context(), req.events())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ListDue handles GET /api/reviews/due?view=due|overdue|today&quiz_id=.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	view := dueset.View(r.URL.Query().Get("view"))
	if view == "" {
		view = dueset.ViewDue
	}

	quizID, err := getQueryUUID(r, "quiz_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	states, err := h.service.Due(r.Context(), view, quizID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueResponse{
		View:  view,
		Count: len(states),
		Items: states,
	})
}

// DueSummary handles GET /api/reviews/summary?quiz_id=.
func (h *ReviewHandler) DueSummary(w http.ResponseWriter, r *http.Request) {
	quizID, err := getQueryUUID(r, "quiz_id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summary, err := h.service.DueSummary(r.Context(), quizID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// UserStats handles GET /api/stats/users/{id}.
func (h *ReviewHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.service.UserStats(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// QuestionStats handles GET /api/stats/questions/{id}.
func (h *ReviewHandler) QuestionStats(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.service.QuestionStats(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// QuizStats handles GET /api/stats/quizzes/{id}.
func (h *ReviewHandler) QuizStats(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	stats, err := h.service.QuizStats(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
