package review_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-scheduler/internal/domain"
	"github.com/phrazzld/scry-scheduler/internal/platform/sqlstore"
	"github.com/phrazzld/scry-scheduler/internal/service/review"
	"github.com/phrazzld/scry-scheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sqliteFixture wires the service to a migrated in-memory database.
type sqliteFixture struct {
	db      *sql.DB
	states  *sqlstore.SQLReviewStateStore
	records *sqlstore.SQLPerformanceStore
	quizID  uuid.UUID
}

func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()

	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", sqlstore.PoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.DriverSQLite, sqlstore.MigrateUp, testLogger()))

	return &sqliteFixture{
		db:      db,
		states:  sqlstore.NewReviewStateStore(db, sqlstore.DriverSQLite, testLogger()),
		records: sqlstore.NewPerformanceStore(db, testLogger()),
		quizID:  uuid.New(),
	}
}

func (f *sqliteFixture) seedQuestions(t *testing.T, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := f.db.Exec(`INSERT INTO questions (id, quiz_id) VALUES ($1, $2)`, ids[i], f.quizID)
		require.NoError(t, err)
	}
	return ids
}

// failingRecords fails Append for one question and delegates everything else.
type failingRecords struct {
	store.PerformanceRecordStore
	failFor uuid.UUID
}

func (f failingRecords) Append(ctx context.Context, record *domain.PerformanceRecord) error {
	if record.QuestionID == f.failFor {
		return errStorage
	}
	return f.PerformanceRecordStore.Append(ctx, record)
}

func (f failingRecords) WithTx(tx *sql.Tx) store.PerformanceRecordStore {
	return failingRecords{PerformanceRecordStore: f.PerformanceRecordStore.WithTx(tx), failFor: f.failFor}
}

func TestProcessBatch_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t)
	questions := f.seedQuestions(t, 5)
	userID := uuid.New()
	unknown := uuid.New()

	events := make([]domain.ReviewEvent, 0, 6)
	for _, q := range questions[:3] {
		events = append(events, domain.ReviewEvent{UserID: userID, QuestionID: q, Quality: "ok"})
	}
	events = append(events, domain.ReviewEvent{UserID: userID, QuestionID: unknown, Quality: "ok"})
	for _, q := range questions[3:] {
		events = append(events, domain.ReviewEvent{UserID: userID, QuestionID: q, Quality: "easy"})
	}

	svc := newTestService(t, f.states, f.records, store.NewTransactor(f.db), review.Options{Concurrency: 4})
	result, err := svc.ProcessBatch(ctx, events)

	require.NoError(t, err)
	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 5, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 6)

	for i, o := range result.Outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, events[i].QuestionID, o.QuestionID, "outcomes keep input order")
	}

	missing := result.Outcomes[3]
	assert.False(t, missing.Success)
	assert.Equal(t, review.ErrorKindNotFound, missing.ErrorKind)
	assert.Equal(t, "not found", missing.Error)

	for _, i := range []int{0, 1, 2, 4, 5} {
		o := result.Outcomes[i]
		assert.True(t, o.Success)
		assert.Equal(t, 1, o.NewInterval)
		require.NotNil(t, o.NextReviewAt)
		assert.True(t, fixedNow.AddDate(0, 0, 1).Equal(*o.NextReviewAt))
	}

	recs, err := f.records.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestProcessBatch_SameQuestionIsSequential(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t)
	q := f.seedQuestions(t, 1)[0]
	other := f.seedQuestions(t, 1)[0]
	userID := uuid.New()

	events := []domain.ReviewEvent{
		{UserID: userID, QuestionID: q, Quality: "ok"},
		{UserID: userID, QuestionID: other, Quality: "hard"},
		{UserID: userID, QuestionID: q, Quality: "ok"},
		{UserID: userID, QuestionID: q, Quality: "ok"},
	}

	svc := newTestService(t, f.states, f.records, store.NewTransactor(f.db), review.Options{Concurrency: 8})
	result, err := svc.ProcessBatch(ctx, events)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Successful)
	// 1, then 6, then round(6 * 2.08).
	assert.Equal(t, 1, result.Outcomes[0].NewInterval)
	assert.Equal(t, 6, result.Outcomes[2].NewInterval)
	assert.Equal(t, 12, result.Outcomes[3].NewInterval)

	state, err := f.states.Get(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, state.RepetitionCount)
	assert.InDelta(t, 2.08, state.EaseFactor, 1e-9)
	assert.Equal(t, 12, state.Interval)
}

func TestProcessBatch_PersistenceFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t)
	questions := f.seedQuestions(t, 3)
	userID := uuid.New()
	records := failingRecords{PerformanceRecordStore: f.records, failFor: questions[1]}

	events := []domain.ReviewEvent{
		{UserID: userID, QuestionID: questions[0], Quality: "ok"},
		{UserID: userID, QuestionID: questions[1], Quality: "ok"},
		{UserID: userID, QuestionID: questions[2], Quality: "ok"},
	}

	svc := newTestService(t, f.states, records, store.NewTransactor(f.db), review.Options{Concurrency: 2})
	result, err := svc.ProcessBatch(ctx, events)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, review.ErrorKindPersistence, result.Outcomes[1].ErrorKind)
	assert.True(t, strings.Contains(result.Outcomes[1].Error, "append record"))

	state, err := f.states.Get(ctx, questions[1])
	require.NoError(t, err)
	assert.Equal(t, 0, state.RepetitionCount, "state write must roll back with the failed append")
	assert.Nil(t, state.NextReviewAt)
}

func TestProcessBatch_Validation(t *testing.T) {
	ctx := context.Background()
	states := new(MockReviewStateStore)
	records := new(MockPerformanceStore)
	svc := newTestService(t, states, records, inlineTransactor{}, review.Options{MaxBatchSize: 3})

	t.Run("empty batch", func(t *testing.T) {
		_, err := svc.ProcessBatch(ctx, nil)
		assert.ErrorIs(t, err, review.ErrInvalidBatch)
	})

	t.Run("oversize batch", func(t *testing.T) {
		events := make([]domain.ReviewEvent, 4)
		_, err := svc.ProcessBatch(ctx, events)
		assert.ErrorIs(t, err, review.ErrInvalidBatch)
	})

	t.Run("invalid items fail individually", func(t *testing.T) {
		questionID := uuid.New()
		states.On("GetForUpdate", mock.Anything, questionID).
			Return(domain.NewReviewState(questionID, uuid.New()), nil)
		states.On("Save", mock.Anything, mock.Anything).Return(nil)
		records.On("Append", mock.Anything, mock.Anything).Return(nil)

		result, err := svc.ProcessBatch(ctx, []domain.ReviewEvent{
			{UserID: uuid.New(), QuestionID: questionID, Quality: "Easy"},
			{UserID: uuid.New(), QuestionID: uuid.New(), Quality: "great"},
			{QuestionID: uuid.New(), Quality: "ok"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Successful)
		assert.Equal(t, 2, result.Failed)
		assert.True(t, result.Outcomes[0].Success)
		assert.Equal(t, review.ErrorKindValidation, result.Outcomes[1].ErrorKind)
		assert.Contains(t, result.Outcomes[1].Error, "quality")
		assert.Equal(t, review.ErrorKindValidation, result.Outcomes[2].ErrorKind)
		assert.Contains(t, result.Outcomes[2].Error, "user_id")
	})
}

func TestSubmitReview_ConcurrentSameQuestionCountsEveryReview(t *testing.T) {
	ctx := context.Background()
	f := newSQLiteFixture(t)
	q := f.seedQuestions(t, 1)[0]
	svc := newTestService(t, f.states, f.records, store.NewTransactor(f.db), review.Options{})

	const reviewers = 10
	var wg sync.WaitGroup
	errs := make([]error, reviewers)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitReview(ctx, domain.ReviewEvent{
				UserID: uuid.New(), QuestionID: q, Quality: "ok",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "reviewer %d", i)
	}

	state, err := f.states.Get(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, reviewers, state.RepetitionCount)

	logged, err := f.records.ListByQuestion(ctx, q)
	require.NoError(t, err)
	assert.Len(t, logged, reviewers)
}
