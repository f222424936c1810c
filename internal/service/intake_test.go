package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"theforum/internal/model"
	repoMocks "theforum/internal/repository/mocks"
	"theforum/internal/storage"
	storeMocks "theforum/internal/storage/mocks"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func completeAnswers() map[string]string {
	return map[string]string{
		model.DefaultPrompts[0]: "Sunrise hike",
		model.DefaultPrompts[1]: "Fried tarantula",
		model.DefaultPrompts[2]: "Lost my shoe on a ferry",
	}
}

func photos(names ...string) []model.PhotoBlob {
	out := make([]model.PhotoBlob, 0, len(names))
	for _, n := range names {
		out = append(out, model.PhotoBlob{Name: n, ContentType: "image/jpeg", Data: []byte("data-" + n)})
	}
	return out
}

// echoKey makes Put report the requested key as the stored locator.
func echoKey(_ context.Context, key string, _ io.Reader, _ storage.PutOptions) storage.Object {
	return storage.Object{Key: key}
}

func newTestIntake(mStore *storeMocks.MockBlobStore, mRepo *repoMocks.MockSubmissionRepository, opts ...IntakeOption) IntakeService {
	opts = append([]IntakeOption{WithClock(fixedClock, time.UTC)}, opts...)
	return NewIntakeService(mStore, mRepo, model.DefaultPrompts, opts...)
}

func TestIntakeService_Submit(t *testing.T) {
	ctx := context.Background()
	alice := &model.Identity{ID: "u-alice", DisplayName: "Alice"}

	t.Run("happy path keeps photo order regardless of completion order", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		svc := newTestIntake(mStore, mRepo)

		// the first photo finishes last
		delays := map[string]time.Duration{
			storage.PhotoKey("u-alice", fixedNow, 0, "a.jpg"): 60 * time.Millisecond,
			storage.PhotoKey("u-alice", fixedNow, 1, "b.jpg"): 30 * time.Millisecond,
			storage.PhotoKey("u-alice", fixedNow, 2, "c.jpg"): 0,
		}
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { time.Sleep(delays[args.String(1)]) }).
			Return(echoKey, nil).Times(3)

		var saved *model.Submission
		mRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Submission")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*model.Submission) }).
			Return(nil).Once()

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: completeAnswers(), Photos: photos("a.jpg", "b.jpg", "c.jpg")})
		require.NoError(t, err)

		assert.Equal(t, []string{
			storage.PhotoKey("u-alice", fixedNow, 0, "a.jpg"),
			storage.PhotoKey("u-alice", fixedNow, 1, "b.jpg"),
			storage.PhotoKey("u-alice", fixedNow, 2, "c.jpg"),
		}, sub.PhotoLocators)
		assert.Equal(t, "June-2025", sub.MonthKey)
		assert.Equal(t, "u-alice", sub.AuthorID)
		assert.Equal(t, "Alice", sub.AuthorName)
		assert.Equal(t, fixedNow, sub.CreatedAt)
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, completeAnswers(), sub.Answers)
		assert.Same(t, saved, sub)

		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("no photos", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		svc := newTestIntake(mStore, mRepo)

		mRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: completeAnswers()})
		require.NoError(t, err)
		assert.NotNil(t, sub.PhotoLocators)
		assert.Empty(t, sub.PhotoLocators)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("month key follows configured time zone", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		lateJune := time.Date(2025, time.June, 30, 20, 0, 0, 0, time.UTC)
		svc := NewIntakeService(mStore, mRepo, model.DefaultPrompts,
			WithClock(func() time.Time { return lateJune }, time.FixedZone("UTC+7", 7*3600)))

		mRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: completeAnswers()})
		require.NoError(t, err)
		assert.Equal(t, "July-2025", sub.MonthKey)
	})

	t.Run("unauthenticated has no side effects", func(t *testing.T) {
		for _, id := range []*model.Identity{nil, {ID: ""}, {ID: "   "}} {
			mStore := new(storeMocks.MockBlobStore)
			mRepo := new(repoMocks.MockSubmissionRepository)
			svc := newTestIntake(mStore, mRepo)

			sub, err := svc.Submit(ctx, id, model.Draft{Answers: completeAnswers(), Photos: photos("a.jpg")})
			assert.ErrorIs(t, err, ErrUnauthenticated)
			assert.Nil(t, sub)
			assert.Empty(t, mStore.Calls)
			assert.Empty(t, mRepo.Calls)
		}
	})

	t.Run("missing answer is rejected before any upload", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		svc := newTestIntake(mStore, mRepo)

		answers := completeAnswers()
		delete(answers, model.DefaultPrompts[1])

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: answers, Photos: photos("a.jpg", "b.jpg")})
		assert.Nil(t, sub)
		assert.ErrorIs(t, err, model.ErrIncompleteSubmission)

		var ie *model.IncompleteSubmissionError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, model.DefaultPrompts[1], ie.Prompt)
		assert.Empty(t, mStore.Calls)
		assert.Empty(t, mRepo.Calls)
	})

	t.Run("upload failure removes uploaded blobs and skips save", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		svc := newTestIntake(mStore, mRepo)

		k0 := storage.PhotoKey("u-alice", fixedNow, 0, "a.jpg")
		k1 := storage.PhotoKey("u-alice", fixedNow, 1, "b.jpg")
		k2 := storage.PhotoKey("u-alice", fixedNow, 2, "c.jpg")
		mStore.On("Put", mock.Anything, k0, mock.Anything, mock.Anything).Return(echoKey, nil).Once()
		mStore.On("Put", mock.Anything, k1, mock.Anything, mock.Anything).Return(storage.Object{}, errors.New("bucket full")).Once()
		mStore.On("Put", mock.Anything, k2, mock.Anything, mock.Anything).Return(echoKey, nil).Once()
		mStore.On("Delete", mock.Anything, k0).Return(nil).Once()
		mStore.On("Delete", mock.Anything, k2).Return(nil).Once()

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: completeAnswers(), Photos: photos("a.jpg", "b.jpg", "c.jpg")})
		assert.Nil(t, sub)

		var ue *UploadError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 1, ue.Index)
		assert.Equal(t, "b.jpg", ue.Name)
		assert.ErrorContains(t, err, "bucket full")

		mStore.AssertExpectations(t)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, k1)
		assert.Empty(t, mRepo.Calls)
	})

	t.Run("persist failure removes every blob", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mRepo := new(repoMocks.MockSubmissionRepository)
		svc := newTestIntake(mStore, mRepo)

		dbErr := errors.New("connection reset")
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(echoKey, nil).Times(2)
		mRepo.On("Save", mock.Anything, mock.Anything).Return(dbErr).Once()
		mStore.On("Delete", mock.Anything, storage.PhotoKey("u-alice", fixedNow, 0, "a.jpg")).Return(nil).Once()
		mStore.On("Delete", mock.Anything, storage.PhotoKey("u-alice", fixedNow, 1, "b.jpg")).Return(errors.New("gone")).Once()

		sub, err := svc.Submit(ctx, alice, model.Draft{Answers: completeAnswers(), Photos: photos("a.jpg", "b.jpg")})
		assert.Nil(t, sub)

		var pe *PersistError
		require.ErrorAs(t, err, &pe)
		assert.ErrorIs(t, err, dbErr)

		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})
}

func TestIntakeService_UploadConcurrency(t *testing.T) {
	mStore := new(storeMocks.MockBlobStore)
	mRepo := new(repoMocks.MockSubmissionRepository)
	svc := newTestIntake(mStore, mRepo, WithUploadConcurrency(2))

	var (
		inFlight atomic.Int32
		mu       sync.Mutex
		peak     int32
	)
	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			n := inFlight.Add(1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(echoKey, nil).Times(6)
	mRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	sub, err := svc.Submit(context.Background(), &model.Identity{ID: "u1"}, model.Draft{
		Answers: completeAnswers(),
		Photos:  photos("1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"),
	})
	require.NoError(t, err)
	assert.Len(t, sub.PhotoLocators, 6)
	assert.LessOrEqual(t, peak, int32(2))
}

func TestIntakeService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	mStore := new(storeMocks.MockBlobStore)
	mRepo := new(repoMocks.MockSubmissionRepository)
	svc := newTestIntake(mStore, mRepo, WithIntakeMetrics(m))
	mRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	_, _ = svc.Submit(ctx, nil, model.Draft{})
	_, _ = svc.Submit(ctx, &model.Identity{ID: "u1"}, model.Draft{Answers: map[string]string{}})
	_, err = svc.Submit(ctx, &model.Identity{ID: "u1"}, model.Draft{Answers: completeAnswers()})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.accepted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejected.WithLabelValues(RejectUnauthenticated)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejected.WithLabelValues(RejectIncomplete)))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
