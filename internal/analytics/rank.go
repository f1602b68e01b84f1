package analytics

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/domain"
)

// RankTop orders a trend by the magnitude of the purpose series, largest
// first, and keeps the first k points. Equal magnitudes are ordered by
// compare on the axis keys. k <= 0 or an empty trend returns t unchanged.
func RankTop[K comparable](t Trend[K], k int, purpose domain.Purpose, compare func(a, b K) int) Trend[K] {
	if k <= 0 || t.Len() == 0 {
		return t
	}

	series := t.Series(purpose)
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		if c := series[b].Abs().Cmp(series[a].Abs()); c != 0 {
			return c
		}
		return compare(t.Axis[a], t.Axis[b])
	})

	n := min(k, len(order))
	ranked := newTrend[K](n)
	for _, i := range order[:n] {
		ranked.push(t.At(i))
	}
	return ranked
}

// TopCategory ranks the categories of the window, optionally restricted to
// one account.
func (e *Engine) TopCategory(userID uuid.UUID, tp domain.Timephase, accountID *int64, k int, purpose domain.Purpose) Trend[domain.CategoryKey] {
	return RankTop(e.CategoryPieTrend(userID, tp, accountID), k, purpose, compareCategoryKeys)
}

// TopAccount ranks the accounts of the window, optionally restricted to one
// category bucket.
func (e *Engine) TopAccount(userID uuid.UUID, tp domain.Timephase, category *domain.CategoryKey, k int, purpose domain.Purpose) Trend[int64] {
	return RankTop(e.AccountPieTrend(userID, tp, category), k, purpose, cmp.Compare[int64])
}
