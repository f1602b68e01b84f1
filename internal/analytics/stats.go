package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// Flow is the income, outcome and net of a set of entries.
// Outcome is zero or negative; Net is Income + Outcome.
type Flow struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
	Net     decimal.Decimal
}

// Add returns f with amount booked as income or outcome by its sign.
func (f Flow) Add(amount decimal.Decimal) Flow {
	if amount.IsNegative() {
		f.Outcome = f.Outcome.Add(amount)
	} else {
		f.Income = f.Income.Add(amount)
	}
	f.Net = f.Net.Add(amount)
	return f
}

// Plus returns the element-wise sum of two flows.
func (f Flow) Plus(other Flow) Flow {
	return Flow{
		Income:  f.Income.Add(other.Income),
		Outcome: f.Outcome.Add(other.Outcome),
		Net:     f.Net.Add(other.Net),
	}
}

// Pick returns the figure selected by purpose.
func (f Flow) Pick(purpose domain.Purpose) decimal.Decimal {
	switch purpose {
	case domain.PurposeIncome:
		return f.Income
	case domain.PurposeNet:
		return f.Net
	default:
		return f.Outcome
	}
}

// AccountCategory keys the account by category breakdown.
type AccountCategory struct {
	AccountID int64
	Category  domain.CategoryKey
}

// MonthStats is the breakdown of one calendar month.
type MonthStats struct {
	Flow

	ByCategory        map[domain.CategoryKey]Flow
	ByAccount         map[int64]Flow
	ByAccountCategory map[AccountCategory]Flow
}

func newMonthStats() *MonthStats {
	return &MonthStats{
		ByCategory:        make(map[domain.CategoryKey]Flow),
		ByAccount:         make(map[int64]Flow),
		ByAccountCategory: make(map[AccountCategory]Flow),
	}
}

func (ms *MonthStats) add(e *domain.Entry) {
	cat := e.CategoryKey()
	ac := AccountCategory{AccountID: e.AccountID, Category: cat}

	ms.Flow = ms.Flow.Add(e.Amount)
	ms.ByCategory[cat] = ms.ByCategory[cat].Add(e.Amount)
	ms.ByAccount[e.AccountID] = ms.ByAccount[e.AccountID].Add(e.Amount)
	ms.ByAccountCategory[ac] = ms.ByAccountCategory[ac].Add(e.Amount)
}

// Select returns the flow matching filter. Combinations never seen in the
// month yield a zero Flow.
func (ms *MonthStats) Select(filter Filter) Flow {
	switch {
	case filter.AccountID == nil && filter.Category == nil:
		return ms.Flow
	case filter.Category == nil:
		return ms.ByAccount[*filter.AccountID]
	case filter.AccountID == nil:
		return ms.ByCategory[*filter.Category]
	default:
		return ms.ByAccountCategory[AccountCategory{AccountID: *filter.AccountID, Category: *filter.Category}]
	}
}

// Stats maps every month of a window to its breakdown.
type Stats map[domain.YearMonth]*MonthStats

// MonthStats aggregates the user's entries over the window in a single
// pass. Every month of the window is present in the result, including
// months without entries. Orphaned entries are skipped.
func (e *Engine) MonthStats(userID uuid.UUID, tp domain.Timephase) Stats {
	months := tp.Months()
	stats := make(Stats, len(months))
	for _, ym := range months {
		stats[ym] = newMonthStats()
	}
	if len(months) == 0 {
		return stats
	}

	for i := range e.ledger.Entries {
		entry := &e.ledger.Entries[i]
		if entry.UserID != userID {
			continue
		}

		tx, ok := e.ledger.ResolveEntry(entry)
		if !ok {
			continue
		}

		ms, ok := stats[tx.YearMonth()]
		if !ok {
			continue
		}
		ms.add(entry)
	}

	return stats
}
