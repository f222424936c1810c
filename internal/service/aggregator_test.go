package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"theforum/internal/model"
	repoMocks "theforum/internal/repository/mocks"
)

func TestAggregator_Records(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		monthKey   string
		setupMocks func(mRepo *repoMocks.MockSubmissionRepository)
		want       []model.Submission
		wantErr    bool
	}{
		{
			name:     "passes records through in store order",
			monthKey: "June-2025",
			setupMocks: func(mRepo *repoMocks.MockSubmissionRepository) {
				mRepo.On("FindByMonth", mock.Anything, "June-2025").Return([]model.Submission{{ID: "b"}, {ID: "a"}, {ID: "c"}}, nil)
			},
			want: []model.Submission{{ID: "b"}, {ID: "a"}, {ID: "c"}},
		},
		{
			name:     "unknown month yields empty slice",
			monthKey: "Smarch-2025",
			setupMocks: func(mRepo *repoMocks.MockSubmissionRepository) {
				mRepo.On("FindByMonth", mock.Anything, "Smarch-2025").Return([]model.Submission(nil), nil)
			},
			want: []model.Submission{},
		},
		{
			name:     "store error",
			monthKey: "June-2025",
			setupMocks: func(mRepo *repoMocks.MockSubmissionRepository) {
				mRepo.On("FindByMonth", mock.Anything, "June-2025").Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockSubmissionRepository)
			agg := NewAggregator(mRepo, zerolog.Nop())
			tt.setupMocks(mRepo)

			got, err := agg.Records(ctx, tt.monthKey)
			if tt.wantErr {
				var fe *FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.monthKey, fe.MonthKey)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want, got)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockSubmissionRepository)
	recs := []model.Submission{{ID: "1", MonthKey: "May-2025"}, {ID: "2", MonthKey: "May-2025"}}
	mRepo.On("FindByMonth", mock.Anything, "May-2025").Return(recs, nil).Twice()

	agg := NewAggregator(mRepo, zerolog.Nop())
	first, err := agg.Records(ctx, "May-2025")
	require.NoError(t, err)
	second, err := agg.Records(ctx, "May-2025")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	mRepo.AssertExpectations(t)
}
