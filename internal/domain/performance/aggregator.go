// Package performance aggregates the append-only performance log into
// success-rate statistics. The caller selects the records (for one user, one
// question or one quiz); this package only counts them.
package performance

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// Stats summarises a set of performance records.
type Stats struct {
	Total          int        `json:"total"`
	HardCount      int        `json:"hard_count"`
	OKCount        int        `json:"ok_count"`
	EasyCount      int        `json:"easy_count"`
	SuccessRate    float64    `json:"success_rate"` // percent of ok+easy, two decimals
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// QuizStats adds question coverage to Stats for a quiz module.
type QuizStats struct {
	Stats
	QuestionsReviewed int     `json:"questions_reviewed"`
	TotalQuestions    int     `json:"total_questions"`
	Coverage          float64 `json:"coverage"` // percent of questions reviewed at least once
}

// ForUser computes statistics over one user's records.
func ForUser(records []domain.PerformanceRecord) Stats {
	return aggregate(records)
}

// ForQuestion computes statistics over one question's records.
func ForQuestion(records []domain.PerformanceRecord) Stats {
	return aggregate(records)
}

// ForQuiz computes statistics over the records of a quiz's questions.
// totalQuestions is supplied by the caller.
func ForQuiz(records []domain.PerformanceRecord, totalQuestions int) QuizStats {
	reviewed := make(map[uuid.UUID]struct{}, len(records))
	for _, r := range records {
		reviewed[r.QuestionID] = struct{}{}
	}

	qs := QuizStats{
		Stats:             aggregate(records),
		QuestionsReviewed: len(reviewed),
		TotalQuestions:    totalQuestions,
	}
	qs.Coverage = percent(qs.QuestionsReviewed, totalQuestions)

	return qs
}

func aggregate(records []domain.PerformanceRecord) Stats {
	var st Stats
	for i := range records {
		r := &records[i]
		st.Total++
		switch r.Quality {
		case domain.QualityHard:
			st.HardCount++
		case domain.QualityOK:
			st.OKCount++
		case domain.QualityEasy:
			st.EasyCount++
		}
		if st.LastReviewedAt == nil || r.ReviewedAt.After(*st.LastReviewedAt) {
			t := r.ReviewedAt
			st.LastReviewedAt = &t
		}
	}
	st.SuccessRate = percent(st.OKCount+st.EasyCount, st.Total)
	return st
}

// percent returns part/total*100 rounded half up to two decimals, or 0 when
// total is 0. Rounding is done on integers; a float quotient such as
// 23/160*100 lands just below the exact half 14.375.
func percent(part, total int) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}
	hundredths := (int64(part)*20000 + int64(total)) / (2 * int64(total))
	return float64(hundredths) / 100
}
