package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/logger"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
)

// Query selects what an analytics call aggregates. A reversed Timephase is
// reordered before it reaches the engine.
type Query struct {
	UserID    uuid.UUID
	Timephase domain.Timephase
	Filter    analytics.Filter
	Purpose   domain.Purpose
	K         int
	Normalize bool
}

// Summary is the filtered total of a window.
type Summary struct {
	Timephase domain.Timephase
	Purpose   domain.Purpose
	Total     decimal.Decimal
	Flow      analytics.Flow
}

// LabeledTrend is a trend with a display name for each axis key.
type LabeledTrend[K comparable] struct {
	analytics.Trend[K]

	Timephase domain.Timephase
	Labels    []string
}

// AnalyticsUseCase runs read-only analytics over a user's ledger.
type AnalyticsUseCase struct {
	repo    LedgerRepository
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase. m may be nil.
func NewAnalyticsUseCase(repo LedgerRepository, logger zerolog.Logger, m *metrics.Metrics) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// Summary returns the purpose total of the window, plus its full flow.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, q Query) (_ *Summary, err error) {
	defer uc.observe(ctx, querySummary, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	engine := analytics.New(ledger)
	return &Summary{
		Timephase: tp,
		Purpose:   q.Purpose,
		Total:     engine.MonthSummary(q.UserID, q.Filter, q.Purpose, tp),
		Flow: analytics.Flow{
			Income:  engine.MonthSummary(q.UserID, q.Filter, domain.PurposeIncome, tp),
			Outcome: engine.MonthSummary(q.UserID, q.Filter, domain.PurposeOutcome, tp),
			Net:     engine.MonthSummary(q.UserID, q.Filter, domain.PurposeNet, tp),
		},
	}, nil
}

// LineTrend returns one point per month of the window.
func (uc *AnalyticsUseCase) LineTrend(ctx context.Context, q Query) (_ *LabeledTrend[domain.YearMonth], err error) {
	defer uc.observe(ctx, queryLineTrend, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	trend := analytics.New(ledger).LineTrend(q.UserID, tp, q.Filter)
	return label(trend, tp, q.Normalize, domain.YearMonth.String), nil
}

// CategoryPie returns one point per category of the window, optionally
// restricted to Filter.AccountID.
func (uc *AnalyticsUseCase) CategoryPie(ctx context.Context, q Query) (_ *LabeledTrend[domain.CategoryKey], err error) {
	defer uc.observe(ctx, queryCategoryPie, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	trend := analytics.New(ledger).CategoryPieTrend(q.UserID, tp, q.Filter.AccountID)
	return label(trend, tp, q.Normalize, ledger.CategoryName), nil
}

// AccountPie returns one point per account of the window, optionally
// restricted to Filter.Category.
func (uc *AnalyticsUseCase) AccountPie(ctx context.Context, q Query) (_ *LabeledTrend[int64], err error) {
	defer uc.observe(ctx, queryAccountPie, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	trend := analytics.New(ledger).AccountPieTrend(q.UserID, tp, q.Filter.Category)
	return label(trend, tp, q.Normalize, ledger.AccountName), nil
}

// TopCategories returns the K categories with the largest purpose figure.
func (uc *AnalyticsUseCase) TopCategories(ctx context.Context, q Query) (_ *LabeledTrend[domain.CategoryKey], err error) {
	defer uc.observe(ctx, queryTopCategory, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	trend := analytics.New(ledger).TopCategory(q.UserID, tp, q.Filter.AccountID, q.K, q.Purpose)
	return label(trend, tp, q.Normalize, ledger.CategoryName), nil
}

// TopAccounts returns the K accounts with the largest purpose figure.
func (uc *AnalyticsUseCase) TopAccounts(ctx context.Context, q Query) (_ *LabeledTrend[int64], err error) {
	defer uc.observe(ctx, queryTopAccount, q.UserID, time.Now(), &err)

	tp, ledger, err := uc.prepare(ctx, q)
	if err != nil {
		return nil, err
	}

	trend := analytics.New(ledger).TopAccount(q.UserID, tp, q.Filter.Category, q.K, q.Purpose)
	return label(trend, tp, q.Normalize, ledger.AccountName), nil
}

// Accounts returns the all-time balance of each of the user's accounts.
func (uc *AnalyticsUseCase) Accounts(ctx context.Context, userID uuid.UUID) (_ []analytics.AccountSummary, err error) {
	defer uc.observe(ctx, queryAccounts, userID, time.Now(), &err)

	ledger, err := loadLedger(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	return analytics.New(ledger).AllAccountSummary(userID), nil
}

func (uc *AnalyticsUseCase) prepare(ctx context.Context, q Query) (domain.Timephase, *domain.Ledger, error) {
	tp := q.Timephase.Ordered()
	if err := domain.ValidateTimephase(tp); err != nil {
		return tp, nil, err
	}
	if err := domain.ValidateTopK(q.K); err != nil {
		return tp, nil, err
	}

	ledger, err := loadLedger(ctx, uc.repo, q.UserID)
	if err != nil {
		return tp, nil, err
	}

	if err := checkFilter(ledger, q.UserID, q.Filter); err != nil {
		return tp, nil, err
	}

	return tp, ledger, nil
}

func (uc *AnalyticsUseCase) observe(ctx context.Context, name string, userID uuid.UUID, start time.Time, errp *error) {
	elapsed := time.Since(start)
	err := *errp

	if uc.metrics != nil {
		uc.metrics.Queries.WithLabelValues(name).Inc()
		uc.metrics.QueryDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		if err != nil {
			uc.metrics.QueryErrors.WithLabelValues(name).Inc()
		}
	}

	log := queryLogger(ctx, uc.logger)
	if err != nil {
		log.Debug().Err(err).Str("query", name).Str("user_id", userID.String()).Msg("analytics query failed")
		return
	}
	log.Debug().
		Str("query", name).
		Str("user_id", userID.String()).
		Dur("duration", elapsed).
		Msg("analytics query")
}

func label[K comparable](trend analytics.Trend[K], tp domain.Timephase, normalize bool, name func(K) string) *LabeledTrend[K] {
	if normalize {
		trend = analytics.Normalize(trend)
	}

	labels := make([]string, len(trend.Axis))
	for i, key := range trend.Axis {
		labels[i] = name(key)
	}

	return &LabeledTrend[K]{Trend: trend, Timephase: tp, Labels: labels}
}

func loadLedger(ctx context.Context, repo LedgerRepository, userID uuid.UUID) (*domain.Ledger, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	ledger, err := repo.LoadLedger(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return ledger, nil
}

// checkFilter rejects filters naming accounts or categories the user does
// not own.
func checkFilter(l *domain.Ledger, userID uuid.UUID, f analytics.Filter) error {
	if f.AccountID != nil {
		a, ok := l.Account(*f.AccountID)
		if !ok || a.UserID != userID {
			return fmt.Errorf("%w: %d", domain.ErrAccountNotFound, *f.AccountID)
		}
	}

	if f.Category != nil && f.Category.Valid {
		c, ok := l.Category(f.Category.ID)
		if !ok || c.UserID != userID {
			return fmt.Errorf("%w: %d", domain.ErrCategoryNotFound, f.Category.ID)
		}
	}

	return nil
}

// queryLogger prefers the request-scoped logger when ctx carries one.
func queryLogger(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := logger.FromContext(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
