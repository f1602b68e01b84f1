package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
	"github.com/iho/ledgerstat/internal/usecase"
	"github.com/iho/ledgerstat/internal/usecase/mocks"
)

var (
	oct = domain.YearMonth{Year: 2025, Month: time.October}
	dec = domain.YearMonth{Year: 2025, Month: time.December}
)

func newAnalytics(t *testing.T) (*usecase.AnalyticsUseCase, *mocks.MockLedgerRepository, *metrics.Metrics) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockLedgerRepository(ctrl)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	return usecase.NewAnalyticsUseCase(repo, zerolog.Nop(), m), repo, m
}

func expectDemo(repo *mocks.MockLedgerRepository) {
	repo.EXPECT().
		LoadLedger(gomock.Any(), snapshot.DemoUserID).
		Return(snapshot.Demo(), nil)
}

func TestAnalyticsUseCase_Summary(t *testing.T) {
	uc, repo, m := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.Summary(context.Background(), usecase.Query{
		UserID:    snapshot.DemoUserID,
		Timephase: domain.SingleMonth(dec),
		Purpose:   domain.PurposeOutcome,
	})
	require.NoError(t, err)

	require.True(t, got.Total.Equal(decimal.NewFromInt(-760)), "total %s", got.Total)
	require.True(t, got.Flow.Income.Equal(decimal.NewFromInt(3200)))
	require.True(t, got.Flow.Net.Equal(got.Flow.Income.Add(got.Flow.Outcome)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Queries.WithLabelValues("summary")))
	require.Equal(t, float64(0), testutil.ToFloat64(m.QueryErrors.WithLabelValues("summary")))
}

func TestAnalyticsUseCase_ReversedTimephase(t *testing.T) {
	uc, repo, _ := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.LineTrend(context.Background(), usecase.Query{
		UserID:    snapshot.DemoUserID,
		Timephase: domain.Timephase{Start: dec, End: oct},
	})
	require.NoError(t, err)

	require.Equal(t, domain.Timephase{Start: oct, End: dec}, got.Timephase)
	require.Equal(t, []string{"2025-10", "2025-11", "2025-12"}, got.Labels)
}

func TestAnalyticsUseCase_CategoryPieLabels(t *testing.T) {
	uc, repo, _ := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.CategoryPie(context.Background(), usecase.Query{
		UserID:    snapshot.DemoUserID,
		Timephase: domain.SingleMonth(dec),
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Food", "Rent", "Salary"}, got.Labels)
	require.Len(t, got.Axis, len(got.Labels))
}

func TestAnalyticsUseCase_TopCategoriesNormalized(t *testing.T) {
	uc, repo, _ := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.TopCategories(context.Background(), usecase.Query{
		UserID:    snapshot.DemoUserID,
		Timephase: domain.SingleMonth(dec),
		Purpose:   domain.PurposeOutcome,
		K:         2,
		Normalize: true,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Rent", "Food"}, got.Labels)

	series := got.Series(domain.PurposeOutcome)
	total := decimal.Zero
	for _, v := range series {
		total = total.Add(v)
	}
	require.True(t, total.Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.New(1, -9)), "normalized total %s", total)
}

func TestAnalyticsUseCase_TopAccounts(t *testing.T) {
	uc, repo, _ := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.TopAccounts(context.Background(), usecase.Query{
		UserID:    snapshot.DemoUserID,
		Timephase: domain.SingleMonth(dec),
		Purpose:   domain.PurposeOutcome,
		K:         1,
	})
	require.NoError(t, err)

	require.Equal(t, []int64{1}, got.Axis)
	require.Equal(t, []string{"Chequing"}, got.Labels)
}

func TestAnalyticsUseCase_Accounts(t *testing.T) {
	uc, repo, _ := newAnalytics(t)
	expectDemo(repo)

	got, err := uc.Accounts(context.Background(), snapshot.DemoUserID)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestAnalyticsUseCase_FilterOwnership(t *testing.T) {
	unknownAccount := int64(99)
	unknownCategory := domain.CategoryKeyOf(&unknownAccount)

	tests := []struct {
		name    string
		filter  analytics.Filter
		wantErr error
	}{
		{name: "unknown account", filter: analytics.Filter{AccountID: &unknownAccount}, wantErr: domain.ErrAccountNotFound},
		{name: "unknown category", filter: analytics.Filter{Category: &unknownCategory}, wantErr: domain.ErrCategoryNotFound},
		{name: "uncategorized is always allowed", filter: analytics.ForCategory(domain.Uncategorized)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _ := newAnalytics(t)
			expectDemo(repo)

			_, err := uc.Summary(context.Background(), usecase.Query{
				UserID:    snapshot.DemoUserID,
				Timephase: domain.SingleMonth(dec),
				Filter:    tt.filter,
				Purpose:   domain.PurposeNet,
			})
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnalyticsUseCase_ValidationSkipsLoad(t *testing.T) {
	tests := []struct {
		name    string
		query   usecase.Query
		wantErr error
	}{
		{
			name:    "negative k",
			query:   usecase.Query{Timephase: domain.SingleMonth(dec), K: -1},
			wantErr: domain.ErrInvalidTopK,
		},
		{
			name:    "k above limit",
			query:   usecase.Query{Timephase: domain.SingleMonth(dec), K: domain.MaxTopK + 1},
			wantErr: domain.ErrInvalidTopK,
		},
		{
			name:    "invalid month",
			query:   usecase.Query{Timephase: domain.Timephase{Start: domain.YearMonth{Year: 2025, Month: 13}, End: dec}},
			wantErr: domain.ErrInvalidYearMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no EXPECT: any repository call fails the test
			uc, _, _ := newAnalytics(t)

			tt.query.UserID = snapshot.DemoUserID
			_, err := uc.TopCategories(context.Background(), tt.query)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAnalyticsUseCase_RepositoryError(t *testing.T) {
	uc, repo, m := newAnalytics(t)
	userID := uuid.New()

	repo.EXPECT().
		LoadLedger(gomock.Any(), userID).
		Return(nil, domain.ErrUserNotFound)

	_, err := uc.LineTrend(context.Background(), usecase.Query{
		UserID:    userID,
		Timephase: domain.SingleMonth(dec),
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.Equal(t, float64(1), testutil.ToFloat64(m.QueryErrors.WithLabelValues("line_trend")))
}

func TestAnalyticsUseCase_LoadHonoursDeadline(t *testing.T) {
	uc, repo, _ := newAnalytics(t)

	repo.EXPECT().
		LoadLedger(gomock.Any(), snapshot.DemoUserID).
		DoAndReturn(func(ctx context.Context, _ uuid.UUID) (*domain.Ledger, error) {
			_, ok := ctx.Deadline()
			if !ok {
				return nil, errors.New("no deadline")
			}
			return snapshot.Demo(), nil
		})

	_, err := uc.Accounts(context.Background(), snapshot.DemoUserID)
	require.NoError(t, err)
}
