// Package dueset classifies review states relative to a reference time.
//
// The three views overlap: every overdue state is also due, and an
// unscheduled state is due, due today, but never overdue. All functions are
// pure. They take now as a parameter, never reorder their input, and always
// return a new slice.
package dueset

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// View names one of the temporal partitions.
type View string

// Supported views
const (
	ViewDue      View = "due"
	ViewOverdue  View = "overdue"
	ViewDueToday View = "today"
)

// IsValid reports whether v is a known view.
func (v View) IsValid() bool {
	switch v {
	case ViewDue, ViewOverdue, ViewDueToday:
		return true
	default:
		return false
	}
}

// Summary counts the states in each view.
type Summary struct {
	Due      int `json:"due"`
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
}

// DueForReview returns states that were never scheduled or whose next review
// is at or before now. Unscheduled states come first, then ascending by
// NextReviewAt.
func DueForReview(states []domain.ReviewState, now time.Time) []domain.ReviewState {
	return selectSorted(states, func(s *domain.ReviewState) bool {
		return s.NextReviewAt == nil || !s.NextReviewAt.After(now)
	})
}

// Overdue returns scheduled states whose next review is strictly before now,
// earliest first.
func Overdue(states []domain.ReviewState, now time.Time) []domain.ReviewState {
	return selectSorted(states, func(s *domain.ReviewState) bool {
		return s.NextReviewAt != nil && s.NextReviewAt.Before(now)
	})
}

// DueToday returns states that were never scheduled or whose next review
// falls in [midnight, next midnight) of now's UTC calendar day.
func DueToday(states []domain.ReviewState, now time.Time) []domain.ReviewState {
	start, end := DayBounds(now)
	return selectSorted(states, func(s *domain.ReviewState) bool {
		if s.NextReviewAt == nil {
			return true
		}
		return !s.NextReviewAt.Before(start) && s.NextReviewAt.Before(end)
	})
}

// Select dispatches to the function for view. Unknown views select nothing.
func Select(view View, states []domain.ReviewState, now time.Time) []domain.ReviewState {
	switch view {
	case ViewDue:
		return DueForReview(states, now)
	case ViewOverdue:
		return Overdue(states, now)
	case ViewDueToday:
		return DueToday(states, now)
	default:
		return []domain.ReviewState{}
	}
}

// InQuiz keeps only states belonging to quizID. uuid.Nil keeps everything.
func InQuiz(states []domain.ReviewState, quizID uuid.UUID) []domain.ReviewState {
	out := make([]domain.ReviewState, 0, len(states))
	for _, s := range states {
		if quizID == uuid.Nil || s.QuizID == quizID {
			out = append(out, s)
		}
	}
	return out
}

// Summarize counts each view for now.
func Summarize(states []domain.ReviewState, now time.Time) Summary {
	return Summary{
		Due:      len(DueForReview(states, now)),
		Overdue:  len(Overdue(states, now)),
		DueToday: len(DueToday(states, now)),
	}
}

// DayBounds returns midnight UTC of now's UTC date and the following midnight.
func DayBounds(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func selectSorted(states []domain.ReviewState, keep func(*domain.ReviewState) bool) []domain.ReviewState {
	out := make([]domain.ReviewState, 0, len(states))
	for i := range states {
		if keep(&states[i]) {
			out = append(out, states[i])
		}
	}
	slices.SortStableFunc(out, compareNextReview)
	return out
}

// compareNextReview orders unscheduled states first, then by NextReviewAt.
func compareNextReview(a, b domain.ReviewState) int {
	switch {
	case a.NextReviewAt == nil && b.NextReviewAt == nil:
		return 0
	case a.NextReviewAt == nil:
		return -1
	case b.NextReviewAt == nil:
		return 1
	default:
		return a.NextReviewAt.Compare(*b.NextReviewAt)
	}
}
