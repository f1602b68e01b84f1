package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/usecase"
)

// Window selects a range of months either explicitly or as the last
// Months months.
type Window struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Months int    `json:"months,omitempty"`
}

// Timephase resolves the window against now. With neither bound set the
// window is the last Months months (domain.DefaultMonths when unset).
// A missing To is the current month and a missing From equals To.
// Reversed bounds are swapped.
func (w Window) Timephase(now time.Time) (domain.Timephase, error) {
	if w.From == "" && w.To == "" {
		months := w.Months
		if months == 0 {
			months = domain.DefaultMonths
		}
		return domain.RecentTimephase(now, months), nil
	}

	end := domain.YearMonthOf(now)
	if w.To != "" {
		ym, err := domain.ParseYearMonth(w.To)
		if err != nil {
			return domain.Timephase{}, err
		}
		end = ym
	}

	start := end
	if w.From != "" {
		ym, err := domain.ParseYearMonth(w.From)
		if err != nil {
			return domain.Timephase{}, err
		}
		start = ym
	}

	return domain.Timephase{Start: start, End: end}.Ordered(), nil
}

// ReconcileRequest represents a request to reconcile against an external
// balance.
type ReconcileRequest struct {
	Window

	AccountID       *int64              `json:"account_id,omitempty"`
	ExternalBalance decimal.NullDecimal `json:"external_balance"`
	TopK            *int                `json:"top_k,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReconcileRequest) ToUseCaseInput(userID uuid.UUID, now time.Time) (usecase.ReconcileRequest, error) {
	if !r.ExternalBalance.Valid {
		return usecase.ReconcileRequest{}, domain.ErrInvalidAmount
	}

	tp, err := r.Timephase(now)
	if err != nil {
		return usecase.ReconcileRequest{}, err
	}

	topK := domain.ReconcileTopK
	if r.TopK != nil {
		topK = *r.TopK
	}

	return usecase.ReconcileRequest{
		UserID:          userID,
		AccountID:       r.AccountID,
		ExternalBalance: r.ExternalBalance.Decimal,
		Timephase:       tp,
		TopK:            topK,
	}, nil
}
