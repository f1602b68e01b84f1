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
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
)

// Reconciliation outcomes used as metric labels.
const (
	OutcomeBalanced    = "balanced"
	OutcomeDiscrepancy = "discrepancy"
)

// ReconcileRequest compares the ledger with an external balance.
type ReconcileRequest struct {
	UserID          uuid.UUID
	AccountID       *int64
	ExternalBalance decimal.Decimal
	Timephase       domain.Timephase
	TopK            int
}

// SuspiciousEntry is an analytics.SuspiciousEntry with display context.
type SuspiciousEntry struct {
	analytics.SuspiciousEntry

	AccountName  string
	CategoryName string
	Payee        *string
	Memo         *string
}

// ReconciliationReport is the outcome of one reconciliation run.
type ReconciliationReport struct {
	RunID             string
	CheckedAt         time.Time
	Timephase         domain.Timephase
	AccountID         *int64
	Good              bool
	InternalBalance   decimal.Decimal
	ExternalBalance   decimal.Decimal
	Difference        decimal.Decimal
	SuspiciousEntries []SuspiciousEntry
}

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	repo    LedgerRepository
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case. m may be nil.
func NewReconciliationUseCase(
	repo LedgerRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		repo:    repo,
		idGen:   idGen,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Reconcile nets the window and compares it with the external balance. On
// a mismatch the report lists the entries that best explain the gap.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, req ReconcileRequest) (*ReconciliationReport, error) {
	start := time.Now()

	tp := req.Timephase.Ordered()
	if err := domain.ValidateTimephase(tp); err != nil {
		return nil, err
	}
	if err := domain.ValidateTopK(req.TopK); err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, uc.repo, req.UserID)
	if err != nil {
		uc.recordError()
		return nil, err
	}
	if err := checkFilter(ledger, req.UserID, analytics.Filter{AccountID: req.AccountID}); err != nil {
		return nil, err
	}

	result := analytics.New(ledger).Reconcile(req.UserID, req.AccountID, req.ExternalBalance, tp, req.TopK)

	report := &ReconciliationReport{
		RunID:             uc.idGen.Generate(),
		CheckedAt:         uc.now(),
		Timephase:         tp,
		AccountID:         req.AccountID,
		Good:              result.Good,
		InternalBalance:   result.InternalBalance,
		ExternalBalance:   result.ExternalBalance,
		Difference:        result.Difference,
		SuspiciousEntries: make([]SuspiciousEntry, 0, len(result.SuspiciousEntries)),
	}
	for _, s := range result.SuspiciousEntries {
		report.SuspiciousEntries = append(report.SuspiciousEntries, describe(ledger, s))
	}

	uc.record(report, time.Since(start))

	log := queryLogger(ctx, uc.logger)
	if report.Good {
		log.Info().
			Str("run_id", report.RunID).
			Str("user_id", req.UserID.String()).
			Str("timephase", tp.String()).
			Msg("reconciliation balanced")
	} else {
		log.Warn().
			Str("run_id", report.RunID).
			Str("user_id", req.UserID.String()).
			Str("timephase", tp.String()).
			Str("internal", report.InternalBalance.String()).
			Str("external", report.ExternalBalance.String()).
			Str("difference", report.Difference.String()).
			Int("suspicious", len(report.SuspiciousEntries)).
			Msg("reconciliation discrepancy")
	}

	return report, nil
}

func (uc *ReconciliationUseCase) record(report *ReconciliationReport, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.Queries.WithLabelValues(queryReconcile).Inc()
	uc.metrics.QueryDuration.WithLabelValues(queryReconcile).Observe(elapsed.Seconds())

	outcome := OutcomeBalanced
	if !report.Good {
		outcome = OutcomeDiscrepancy
		uc.metrics.SuspiciousEntriesFound.Observe(float64(len(report.SuspiciousEntries)))
	}
	uc.metrics.Reconciliations.WithLabelValues(outcome).Inc()
	uc.metrics.ReconcileDifference.Observe(report.Difference.Abs().InexactFloat64())
}

func (uc *ReconciliationUseCase) recordError() {
	if uc.metrics == nil {
		return
	}
	uc.metrics.Queries.WithLabelValues(queryReconcile).Inc()
	uc.metrics.QueryErrors.WithLabelValues(queryReconcile).Inc()
}

func describe(l *domain.Ledger, s analytics.SuspiciousEntry) SuspiciousEntry {
	out := SuspiciousEntry{
		SuspiciousEntry: s,
		AccountName:     l.AccountName(s.AccountID),
		CategoryName:    l.CategoryName(s.CategoryKey()),
	}
	if tx, ok := l.Transaction(s.TransactionID); ok {
		out.Payee = tx.Payee
		out.Memo = tx.Memo
	}
	return out
}

// String renders the report the way the command line prints it.
func (r *ReconciliationReport) String() string {
	if r.Good {
		return fmt.Sprintf("Balanced for %s: ledger %s matches %s.", r.Timephase, r.InternalBalance, r.ExternalBalance)
	}
	return fmt.Sprintf("Out of balance for %s: ledger %s, external %s, difference %s (%d candidate entries).",
		r.Timephase, r.InternalBalance, r.ExternalBalance, r.Difference, len(r.SuspiciousEntries))
}
