package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/scry-scheduler/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("review state cannot be nil")
	ErrInvalidQuality = errors.New("invalid quality rating")
	ErrInvalidParams  = errors.New("invalid SRS parameters")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// ApplyReview computes the state that results from reviewing a question
	// with the given quality at time now. The input state is not modified.
	ApplyReview(
		state *domain.ReviewState,
		quality domain.Quality,
		now time.Time,
	) (*domain.ReviewState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil ||
		params.MinEaseFactor < domain.MinEaseFactor ||
		params.FirstInterval < 1 ||
		params.SecondInterval < 1 ||
		params.FirstInterval > domain.MaxIntervalDays ||
		params.SecondInterval > domain.MaxIntervalDays {
		return nil, ErrInvalidParams
	}

	return &defaultService{
		params: params,
	}, nil
}

// ApplyReview implements the Service interface
func (s *defaultService) ApplyReview(
	state *domain.ReviewState,
	quality domain.Quality,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !quality.IsValid() {
		return nil, ErrInvalidQuality
	}

	return calculateNextState(state, quality, now, s.params), nil
}
