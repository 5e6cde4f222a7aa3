package review_test

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockReviewStateStore is a mock implementation of store.ReviewStateStore
type MockReviewStateStore struct {
	mock.Mock
}

func (m *MockReviewStateStore) Get(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewState).Clone(), args.Error(1)
}

func (m *MockReviewStateStore) GetForUpdate(ctx context.Context, questionID uuid.UUID) (*domain.ReviewState, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewState).Clone(), args.Error(1)
}

func (m *MockReviewStateStore) Save(ctx context.Context, state *domain.ReviewState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockReviewStateStore) List(ctx context.Context) ([]domain.ReviewState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReviewState), args.Error(1)
}

func (m *MockReviewStateStore) CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Error(1)
}

// WithTx returns the mock itself so expectations apply inside transactions.
func (m *MockReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return m
}

// MockPerformanceStore is a mock implementation of store.PerformanceRecordStore
type MockPerformanceStore struct {
	mock.Mock
}

func (m *MockPerformanceStore) Append(ctx context.Context, record *domain.PerformanceRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPerformanceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.PerformanceRecord, error) {
	return m.list(m.Called(ctx, userID))
}

func (m *MockPerformanceStore) ListByQuestion(
	ctx context.Context,
	questionID uuid.UUID,
) ([]domain.PerformanceRecord, error) {
	return m.list(m.Called(ctx, questionID))
}

func (m *MockPerformanceStore) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]domain.PerformanceRecord, error) {
	return m.list(m.Called(ctx, quizID))
}

func (m *MockPerformanceStore) list(args mock.Arguments) ([]domain.PerformanceRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PerformanceRecord), args.Error(1)
}

// WithTx returns the mock itself so expectations apply inside transactions.
func (m *MockPerformanceStore) WithTx(tx *sql.Tx) store.PerformanceRecordStore {
	return m
}

// inlineTransactor runs the function without a real transaction.
type inlineTransactor struct {
	beginErr error
}

func (t inlineTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	if t.beginErr != nil {
		return t.beginErr
	}
	return fn(ctx, nil)
}

var errStorage = errors.New("disk on fire")
