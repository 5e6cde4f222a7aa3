package performance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
)

func records(questionIDs []uuid.UUID, qualities ...domain.Quality) []domain.PerformanceRecord {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()
	out := make([]domain.PerformanceRecord, len(qualities))
	for i, q := range qualities {
		out[i] = domain.PerformanceRecord{
			ID:         uuid.New(),
			UserID:     userID,
			QuestionID: questionIDs[i%len(questionIDs)],
			Quality:    q,
			ReviewedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestForUser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		qualities []domain.Quality
		expected  Stats
	}{
		{
			name:     "no records",
			expected: Stats{},
		},
		{
			name:      "all easy",
			qualities: []domain.Quality{domain.QualityEasy, domain.QualityEasy},
			expected:  Stats{Total: 2, EasyCount: 2, SuccessRate: 100},
		},
		{
			name:      "all hard",
			qualities: []domain.Quality{domain.QualityHard, domain.QualityHard, domain.QualityHard},
			expected:  Stats{Total: 3, HardCount: 3, SuccessRate: 0},
		},
		{
			name:      "two of three succeed",
			qualities: []domain.Quality{domain.QualityHard, domain.QualityOK, domain.QualityEasy},
			expected:  Stats{Total: 3, HardCount: 1, OKCount: 1, EasyCount: 1, SuccessRate: 66.67},
		},
		{
			name:      "one of three succeeds",
			qualities: []domain.Quality{domain.QualityHard, domain.QualityHard, domain.QualityOK},
			expected:  Stats{Total: 3, HardCount: 2, OKCount: 1, SuccessRate: 33.33},
		},
		{
			name: "one of eight fails",
			qualities: []domain.Quality{
				domain.QualityOK, domain.QualityOK, domain.QualityOK, domain.QualityOK,
				domain.QualityEasy, domain.QualityEasy, domain.QualityEasy, domain.QualityHard,
			},
			expected: Stats{Total: 8, HardCount: 1, OKCount: 4, EasyCount: 3, SuccessRate: 87.5},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ForUser(records([]uuid.UUID{uuid.New()}, tc.qualities...))
			got.LastReviewedAt = nil
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestForQuestionMatchesForUser(t *testing.T) {
	t.Parallel()
	recs := records([]uuid.UUID{uuid.New()}, domain.QualityOK, domain.QualityHard)
	assert.Equal(t, ForUser(recs), ForQuestion(recs))
}

func TestLastReviewedAt(t *testing.T) {
	t.Parallel()
	recs := records([]uuid.UUID{uuid.New()}, domain.QualityOK, domain.QualityHard, domain.QualityEasy)

	// Latest first to check the max is found regardless of order
	recs[0], recs[2] = recs[2], recs[0]

	st := ForUser(recs)
	if assert.NotNil(t, st.LastReviewedAt) {
		assert.Equal(t, time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC), *st.LastReviewedAt)
	}
	assert.Nil(t, ForUser(nil).LastReviewedAt)
}

func TestSuccessRateWithinBounds(t *testing.T) {
	t.Parallel()
	qualities := []domain.Quality{domain.QualityHard, domain.QualityOK, domain.QualityEasy}

	for n := 0; n < 30; n++ {
		var qs []domain.Quality
		for i := 0; i < n; i++ {
			qs = append(qs, qualities[(i*7+n)%3])
		}
		st := ForUser(records([]uuid.UUID{uuid.New()}, qs...))
		assert.GreaterOrEqual(t, st.SuccessRate, 0.0)
		assert.LessOrEqual(t, st.SuccessRate, 100.0)
		assert.Equal(t, st.Total, st.HardCount+st.OKCount+st.EasyCount)
	}
}

func TestForQuiz(t *testing.T) {
	t.Parallel()
	q1, q2, q3 := uuid.New(), uuid.New(), uuid.New()

	recs := records([]uuid.UUID{q1, q2, q3, q1}, domain.QualityOK, domain.QualityHard, domain.QualityEasy, domain.QualityEasy)
	st := ForQuiz(recs, 8)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 75.0, st.SuccessRate)
	assert.Equal(t, 3, st.QuestionsReviewed)
	assert.Equal(t, 8, st.TotalQuestions)
	assert.Equal(t, 37.5, st.Coverage)
}

func TestForQuizEmpty(t *testing.T) {
	t.Parallel()

	st := ForQuiz(nil, 0)
	assert.Equal(t, QuizStats{}, st)

	st = ForQuiz(nil, 12)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0.0, st.SuccessRate)
	assert.Equal(t, 0, st.QuestionsReviewed)
	assert.Equal(t, 12, st.TotalQuestions)
	assert.Equal(t, 0.0, st.Coverage)
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		part, total int
		want        float64
	}{
		{2, 3, 66.67},
		{1, 3, 33.33},
		{1, 8, 12.5},
		{1, 800, 0.13},
		{23, 160, 14.38},
		{7, 16, 43.75},
		{1, 2000, 0.05},
		{5, 5, 100},
		{0, 5, 0},
		{3, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}

func TestForUserSuccessRateExactHalf(t *testing.T) {
	t.Parallel()

	// 23 of 160 is exactly 14.375 percent.
	recs := make([]domain.PerformanceRecord, 0, 160)
	for i := 0; i < 160; i++ {
		q := domain.QualityHard
		if i < 23 {
			q = domain.QualityOK
		}
		recs = append(recs, domain.PerformanceRecord{
			ID: uuid.New(), UserID: uuid.New(), QuestionID: uuid.New(), Quality: q,
		})
	}

	assert.Equal(t, 14.38, ForUser(recs).SuccessRate)
}
