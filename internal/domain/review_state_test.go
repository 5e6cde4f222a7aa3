package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewReviewState(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	quizID := uuid.New()
	state := NewReviewState(questionID, quizID)

	assert.Equal(t, questionID, state.QuestionID)
	assert.Equal(t, quizID, state.QuizID)
	assert.Equal(t, 2.5, state.EaseFactor)
	assert.Equal(t, 0, state.Interval)
	assert.Equal(t, 0, state.RepetitionCount)
	assert.Nil(t, state.NextReviewAt)
	assert.False(t, state.IsScheduled())
	assert.NoError(t, state.Validate())
}

func TestReviewStateValidate(t *testing.T) {
	t.Parallel()

	valid := func() *ReviewState { return NewReviewState(uuid.New(), uuid.Nil) }

	testCases := []struct {
		name     string
		mutate   func(s *ReviewState)
		expected error
	}{
		{name: "valid", mutate: func(s *ReviewState) {}, expected: nil},
		{name: "nil question", mutate: func(s *ReviewState) { s.QuestionID = uuid.Nil }, expected: ErrEmptyQuestionID},
		{name: "ease below floor", mutate: func(s *ReviewState) { s.EaseFactor = 1.29 }, expected: ErrInvalidEaseFactor},
		{name: "ease at floor", mutate: func(s *ReviewState) { s.EaseFactor = 1.3 }, expected: nil},
		{name: "negative interval", mutate: func(s *ReviewState) { s.Interval = -1 }, expected: ErrInvalidInterval},
		{name: "negative repetitions", mutate: func(s *ReviewState) { s.RepetitionCount = -2 }, expected: ErrInvalidRepetition},
		{name: "interval at maximum", mutate: func(s *ReviewState) { s.Interval = MaxIntervalDays }, expected: nil},
		{name: "interval past maximum", mutate: func(s *ReviewState) { s.Interval = MaxIntervalDays + 1 }, expected: ErrIntervalTooLarge},
		{name: "next review at last storable second", mutate: func(s *ReviewState) {
			t := MaxNextReviewAt
			s.NextReviewAt = &t
		}, expected: nil},
		{name: "next review past year 9999", mutate: func(s *ReviewState) {
			t := MaxNextReviewAt.Add(time.Second)
			s.NextReviewAt = &t
		}, expected: ErrNextReviewTooLate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			assert.Equal(t, tc.expected, s.Validate())
		})
	}
}

func TestReviewStateNormalize(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	next := time.Date(2026, 3, 1, 10, 0, 0, 0, loc)

	s := &ReviewState{
		QuestionID:      uuid.New(),
		EaseFactor:      0,
		Interval:        -4,
		RepetitionCount: -1,
		NextReviewAt:    &next,
	}
	s.Normalize()

	assert.Equal(t, DefaultEaseFactor, s.EaseFactor)
	assert.Equal(t, 0, s.Interval)
	assert.Equal(t, 0, s.RepetitionCount)
	assert.Equal(t, time.UTC, s.NextReviewAt.Location())
	assert.True(t, s.NextReviewAt.Equal(next))
	assert.NoError(t, s.Validate())

	low := &ReviewState{QuestionID: uuid.New(), EaseFactor: 1.1}
	low.Normalize()
	assert.Equal(t, MinEaseFactor, low.EaseFactor)

	nan := &ReviewState{QuestionID: uuid.New(), EaseFactor: math.NaN()}
	nan.Normalize()
	assert.Equal(t, DefaultEaseFactor, nan.EaseFactor)

	long := &ReviewState{QuestionID: uuid.New(), EaseFactor: 2.5, Interval: math.MaxInt32}
	long.Normalize()
	assert.Equal(t, MaxIntervalDays, long.Interval)
}

func TestReviewStateClone(t *testing.T) {
	t.Parallel()

	next := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewReviewState(uuid.New(), uuid.New())
	s.NextReviewAt = &next

	c := s.Clone()
	*c.NextReviewAt = c.NextReviewAt.AddDate(0, 0, 1)
	c.EaseFactor = 1.3

	assert.True(t, s.NextReviewAt.Equal(next), "clone must not share the timestamp")
	assert.Equal(t, 2.5, s.EaseFactor)
}
