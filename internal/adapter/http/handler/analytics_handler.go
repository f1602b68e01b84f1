package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/adapter/http/dto"
	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/usecase"
)

// AnalyticsService defines the interface for the analytics use case.
type AnalyticsService interface {
	Summary(ctx context.Context, q usecase.Query) (*usecase.Summary, error)
	LineTrend(ctx context.Context, q usecase.Query) (*usecase.LabeledTrend[domain.YearMonth], error)
	CategoryPie(ctx context.Context, q usecase.Query) (*usecase.LabeledTrend[domain.CategoryKey], error)
	AccountPie(ctx context.Context, q usecase.Query) (*usecase.LabeledTrend[int64], error)
	TopCategories(ctx context.Context, q usecase.Query) (*usecase.LabeledTrend[domain.CategoryKey], error)
	TopAccounts(ctx context.Context, q usecase.Query) (*usecase.LabeledTrend[int64], error)
	Accounts(ctx context.Context, userID uuid.UUID) ([]analytics.AccountSummary, error)
}

// AnalyticsHandler handles the read-only analytics endpoints.
type AnalyticsHandler struct {
	svc AnalyticsService
	now func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, now: time.Now}
}

// Summary handles GET /summary.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	summary, err := h.svc.Summary(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// LineTrend handles GET /trends/line.
func (h *AnalyticsHandler) LineTrend(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := h.svc.LineTrend(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromUseCase(trend, q.Normalize, dto.MonthKey))
}

// CategoryTrend handles GET /trends/categories.
func (h *AnalyticsHandler) CategoryTrend(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := h.svc.CategoryPie(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromUseCase(trend, q.Normalize, dto.CategoryKey))
}

// AccountTrend handles GET /trends/accounts.
func (h *AnalyticsHandler) AccountTrend(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := h.svc.AccountPie(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromUseCase(trend, q.Normalize, dto.AccountKey))
}

// TopCategories handles GET /top/categories.
func (h *AnalyticsHandler) TopCategories(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := h.svc.TopCategories(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromUseCase(trend, q.Normalize, dto.CategoryKey))
}

// TopAccounts handles GET /top/accounts.
func (h *AnalyticsHandler) TopAccounts(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	trend, err := h.svc.TopAccounts(r.Context(), q)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrendFromUseCase(trend, q.Normalize, dto.AccountKey))
}

// Accounts handles GET /accounts.
func (h *AnalyticsHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	userID, err := scopedUser(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	accounts, err := h.svc.Accounts(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromAnalytics(accounts))
}
