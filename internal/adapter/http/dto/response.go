package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/analytics"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/usecase"
)

// UncategorizedKey is the wire key of the uncategorized bucket.
const UncategorizedKey = "none"

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WindowResponse is a resolved month window.
type WindowResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FlowResponse holds income, outcome and net.
type FlowResponse struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Net     decimal.Decimal `json:"net"`
}

// SummaryResponse is the filtered total of a window.
type SummaryResponse struct {
	Window  WindowResponse  `json:"window"`
	Purpose string          `json:"purpose"`
	Total   decimal.Decimal `json:"total"`
	Flow    FlowResponse    `json:"flow"`
}

// TrendPointResponse is one axis key of a trend.
type TrendPointResponse struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Net     decimal.Decimal `json:"net"`
}

// TrendResponse represents a line or pie trend.
type TrendResponse struct {
	Window     WindowResponse       `json:"window"`
	Normalized bool                 `json:"normalized"`
	Points     []TrendPointResponse `json:"points"`
}

// AccountSummaryResponse is the all-time balance of one account.
type AccountSummaryResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"account_type"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// SuspiciousEntryResponse is an entry that may explain a balance gap.
type SuspiciousEntryResponse struct {
	EntryID       int64           `json:"entry_id"`
	TransactionID string          `json:"tx_id"`
	AccountID     int64           `json:"account_id"`
	AccountName   string          `json:"account_name"`
	CategoryID    *int64          `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Amount        decimal.Decimal `json:"amount"`
	Score         decimal.Decimal `json:"score"`
	OccurredAt    string          `json:"occurred_at"`
	Payee         *string         `json:"payee,omitempty"`
	Memo          *string         `json:"memo,omitempty"`
	Note          *string         `json:"note,omitempty"`
}

// ReconcileResponse represents a reconciliation report.
type ReconcileResponse struct {
	RunID             string                    `json:"run_id"`
	CheckedAt         time.Time                 `json:"checked_at"`
	Window            WindowResponse            `json:"window"`
	AccountID         *int64                    `json:"account_id,omitempty"`
	Good              bool                      `json:"good"`
	InternalBalance   decimal.Decimal           `json:"internal_balance"`
	ExternalBalance   decimal.Decimal           `json:"external_balance"`
	Difference        decimal.Decimal           `json:"difference"`
	SuspiciousEntries []SuspiciousEntryResponse `json:"suspicious_entries"`
}

// WindowFromDomain converts a timephase to its wire form.
func WindowFromDomain(tp domain.Timephase) WindowResponse {
	return WindowResponse{From: tp.Start.String(), To: tp.End.String()}
}

// FlowFromAnalytics converts a flow to its wire form.
func FlowFromAnalytics(f analytics.Flow) FlowResponse {
	return FlowResponse{Income: f.Income, Outcome: f.Outcome, Net: f.Net}
}

// SummaryFromUseCase converts a summary to response.
func SummaryFromUseCase(s *usecase.Summary) *SummaryResponse {
	return &SummaryResponse{
		Window:  WindowFromDomain(s.Timephase),
		Purpose: s.Purpose.String(),
		Total:   s.Total,
		Flow:    FlowFromAnalytics(s.Flow),
	}
}

// TrendFromUseCase converts a labeled trend to response, rendering each
// axis key with key.
func TrendFromUseCase[K comparable](t *usecase.LabeledTrend[K], normalized bool, key func(K) string) *TrendResponse {
	points := make([]TrendPointResponse, t.Len())
	for i := range points {
		k, flow := t.At(i)
		points[i] = TrendPointResponse{
			Key:     key(k),
			Label:   t.Labels[i],
			Income:  flow.Income,
			Outcome: flow.Outcome,
			Net:     flow.Net,
		}
	}

	return &TrendResponse{
		Window:     WindowFromDomain(t.Timephase),
		Normalized: normalized,
		Points:     points,
	}
}

// MonthKey renders a line trend key.
func MonthKey(ym domain.YearMonth) string {
	return ym.String()
}

// CategoryKey renders a category key; the uncategorized bucket is "none".
func CategoryKey(k domain.CategoryKey) string {
	if !k.Valid {
		return UncategorizedKey
	}
	return strconv.FormatInt(k.ID, 10)
}

// AccountKey renders an account key.
func AccountKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// AccountsFromAnalytics converts account summaries to responses.
func AccountsFromAnalytics(accounts []analytics.AccountSummary) []AccountSummaryResponse {
	result := make([]AccountSummaryResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountSummaryResponse{
			ID:       a.AccountID,
			Name:     a.Name,
			Type:     string(a.Type),
			Currency: a.Currency,
			Balance:  a.Balance,
		}
	}
	return result
}

// ReconcileFromUseCase converts a reconciliation report to response.
func ReconcileFromUseCase(r *usecase.ReconciliationReport) *ReconcileResponse {
	entries := make([]SuspiciousEntryResponse, len(r.SuspiciousEntries))
	for i, s := range r.SuspiciousEntries {
		entries[i] = SuspiciousEntryResponse{
			EntryID:       s.ID,
			TransactionID: s.TransactionID.String(),
			AccountID:     s.AccountID,
			AccountName:   s.AccountName,
			CategoryID:    s.CategoryID,
			CategoryName:  s.CategoryName,
			Amount:        s.Amount,
			Score:         s.Score,
			OccurredAt:    s.OccurDate.Format(time.DateOnly),
			Payee:         s.Payee,
			Memo:          s.Memo,
			Note:          s.Note,
		}
	}

	return &ReconcileResponse{
		RunID:             r.RunID,
		CheckedAt:         r.CheckedAt,
		Window:            WindowFromDomain(r.Timephase),
		AccountID:         r.AccountID,
		Good:              r.Good,
		InternalBalance:   r.InternalBalance,
		ExternalBalance:   r.ExternalBalance,
		Difference:        r.Difference,
		SuspiciousEntries: entries,
	}
}
