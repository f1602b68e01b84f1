package analytics

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// MonthSummary sums the filtered purpose figure over every month of the
// window.
func (e *Engine) MonthSummary(userID uuid.UUID, filter Filter, purpose domain.Purpose, tp domain.Timephase) decimal.Decimal {
	return summarize(e.MonthStats(userID, tp), tp, filter, purpose)
}

func summarize(stats Stats, tp domain.Timephase, filter Filter, purpose domain.Purpose) decimal.Decimal {
	total := decimal.Zero
	for _, ym := range tp.Months() {
		total = total.Add(stats[ym].Select(filter).Pick(purpose))
	}
	return total
}

// LineTrend returns one point per month of the window, oldest first.
func (e *Engine) LineTrend(userID uuid.UUID, tp domain.Timephase, filter Filter) Trend[domain.YearMonth] {
	stats := e.MonthStats(userID, tp)
	months := tp.Months()

	trend := newTrend[domain.YearMonth](len(months))
	for _, ym := range months {
		trend.push(ym, stats[ym].Select(filter))
	}
	return trend
}

// CategoryPieTrend collapses the window into one point per category seen
// in it, optionally restricted to one account. Points are ordered with the
// uncategorized bucket first, then by category ID.
func (e *Engine) CategoryPieTrend(userID uuid.UUID, tp domain.Timephase, accountID *int64) Trend[domain.CategoryKey] {
	totals := make(map[domain.CategoryKey]Flow)
	for _, ms := range e.MonthStats(userID, tp) {
		if accountID == nil {
			for key, f := range ms.ByCategory {
				totals[key] = totals[key].Plus(f)
			}
			continue
		}
		for ac, f := range ms.ByAccountCategory {
			if ac.AccountID == *accountID {
				totals[ac.Category] = totals[ac.Category].Plus(f)
			}
		}
	}

	keys := make([]domain.CategoryKey, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareCategoryKeys)

	trend := newTrend[domain.CategoryKey](len(keys))
	for _, key := range keys {
		trend.push(key, totals[key])
	}
	return trend
}

// AccountPieTrend collapses the window into one point per account seen in
// it, optionally restricted to one category bucket. Points are ordered by
// account ID.
func (e *Engine) AccountPieTrend(userID uuid.UUID, tp domain.Timephase, category *domain.CategoryKey) Trend[int64] {
	totals := make(map[int64]Flow)
	for _, ms := range e.MonthStats(userID, tp) {
		if category == nil {
			for id, f := range ms.ByAccount {
				totals[id] = totals[id].Plus(f)
			}
			continue
		}
		for ac, f := range ms.ByAccountCategory {
			if ac.Category == *category {
				totals[ac.AccountID] = totals[ac.AccountID].Plus(f)
			}
		}
	}

	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	trend := newTrend[int64](len(ids))
	for _, id := range ids {
		trend.push(id, totals[id])
	}
	return trend
}

func compareCategoryKeys(a, b domain.CategoryKey) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
