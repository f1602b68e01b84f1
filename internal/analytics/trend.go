package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// Trend is a set of parallel series over an axis. K is domain.YearMonth
// for line trends and an entity key for pie trends. All slices have the
// same length.
type Trend[K comparable] struct {
	Axis    []K
	Income  []decimal.Decimal
	Outcome []decimal.Decimal
	Summary []decimal.Decimal
}

func newTrend[K comparable](capacity int) Trend[K] {
	return Trend[K]{
		Axis:    make([]K, 0, capacity),
		Income:  make([]decimal.Decimal, 0, capacity),
		Outcome: make([]decimal.Decimal, 0, capacity),
		Summary: make([]decimal.Decimal, 0, capacity),
	}
}

func (t *Trend[K]) push(key K, f Flow) {
	t.Axis = append(t.Axis, key)
	t.Income = append(t.Income, f.Income)
	t.Outcome = append(t.Outcome, f.Outcome)
	t.Summary = append(t.Summary, f.Net)
}

// Len returns the number of points.
func (t Trend[K]) Len() int {
	return len(t.Axis)
}

// At returns the key and flow of point i.
func (t Trend[K]) At(i int) (K, Flow) {
	return t.Axis[i], Flow{Income: t.Income[i], Outcome: t.Outcome[i], Net: t.Summary[i]}
}

// Series returns the series selected by purpose.
func (t Trend[K]) Series(purpose domain.Purpose) []decimal.Decimal {
	switch purpose {
	case domain.PurposeIncome:
		return t.Income
	case domain.PurposeNet:
		return t.Summary
	default:
		return t.Outcome
	}
}

// Totals sums every series.
func (t Trend[K]) Totals() Flow {
	return Flow{Income: sum(t.Income), Outcome: sum(t.Outcome), Net: sum(t.Summary)}
}

// Normalize divides each series by its own total. A series whose total is
// exactly zero becomes all zeros.
func Normalize[K comparable](t Trend[K]) Trend[K] {
	axis := make([]K, len(t.Axis))
	copy(axis, t.Axis)

	return Trend[K]{
		Axis:    axis,
		Income:  normalizeSeries(t.Income),
		Outcome: normalizeSeries(t.Outcome),
		Summary: normalizeSeries(t.Summary),
	}
}

func normalizeSeries(series []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(series))
	total := sum(series)
	if total.IsZero() {
		for i := range out {
			out[i] = decimal.Zero
		}
		return out
	}

	for i, v := range series {
		out[i] = v.Div(total)
	}
	return out
}

func sum(series []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range series {
		total = total.Add(v)
	}
	return total
}
