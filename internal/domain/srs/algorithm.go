package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor from the quality rating.
//
// The ease factor controls how quickly intervals grow. The update is the
// SM-2 formula:
//
//	EF' = EF + (0.1 - (5 - q) * (0.08 + (5 - q) * 0.02))
//
// For the three supported ratings this works out to:
//   - easy (q=5): +0.10
//   - ok   (q=3): -0.14
//   - hard (q=1): -0.54
//
// The result never drops below params.MinEaseFactor. There is no ceiling.
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	d := float64(5 - quality)
	newEF := currentEF + (0.1 - d*(0.08+d*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// The branch is chosen on the repetition count before this review is counted:
//   - 0 reviews so far: params.FirstInterval (1 day)
//   - 1 review so far:  params.SecondInterval (6 days)
//   - otherwise:        round(previous interval * new ease factor)
//
// Growth has no ceiling of its own; it saturates at domain.MaxIntervalDays
// instead of overflowing int.
func calculateNewInterval(
	currentInterval int,
	repetitionCount int,
	easeFactor float64,
	params *Params,
) int {
	switch {
	case repetitionCount <= 0:
		return params.FirstInterval
	case repetitionCount == 1:
		return params.SecondInterval
	}

	product := float64(currentInterval) * easeFactor
	if math.IsNaN(product) || product >= domain.MaxIntervalDays {
		return domain.MaxIntervalDays
	}
	interval := int(math.Round(product))

	// Repaired rows can carry a zero interval past the second review
	if interval < 1 {
		interval = 1
	}

	return interval
}

// calculateNextReviewDate returns now shifted by interval calendar days.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextState applies one review to state and returns the new state.
// The input is left untouched.
func calculateNextState(
	state *domain.ReviewState,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	newState := state.Clone()

	newState.EaseFactor = calculateNewEaseFactor(state.EaseFactor, quality, params)

	// Keyed on the count before increment
	newState.Interval = calculateNewInterval(
		state.Interval,
		state.RepetitionCount,
		newState.EaseFactor,
		params,
	)

	newState.RepetitionCount = state.RepetitionCount + 1

	next := calculateNextReviewDate(newState.Interval, now)
	newState.NextReviewAt = &next
	newState.UpdatedAt = now

	return newState
}
