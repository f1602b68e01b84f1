package domain

import (
	"fmt"
	"time"
)

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the calendar month of t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Compare returns -1, 0 or +1 depending on whether ym is before, equal to
// or after other.
func (ym YearMonth) Compare(other YearMonth) int {
	a, b := ym.index(), other.index()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether ym is strictly before other.
func (ym YearMonth) Before(other YearMonth) bool { return ym.Compare(other) < 0 }

// After reports whether ym is strictly after other.
func (ym YearMonth) After(other YearMonth) bool { return ym.Compare(other) > 0 }

// Valid reports whether the month is within 1..12.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

// AddMonths shifts ym by delta months. The result never goes below
// January of year 0.
func AddMonths(ym YearMonth, delta int) YearMonth {
	total := ym.index() + delta
	if total < 0 {
		total = 0
	}
	return YearMonth{Year: total / 12, Month: time.Month(total%12 + 1)}
}

// String formats ym as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// ExpandMonthRange returns every month from start to end inclusive, in
// ascending order. A reversed range yields an empty slice; callers are
// responsible for ordering the bounds.
func ExpandMonthRange(start, end YearMonth) []YearMonth {
	if end.Before(start) {
		return []YearMonth{}
	}

	months := make([]YearMonth, 0, end.index()-start.index()+1)
	y, m := start.Year, start.Month
	for y < end.Year || (y == end.Year && m <= end.Month) {
		months = append(months, YearMonth{Year: y, Month: m})
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}

	return months
}

// Timephase is an inclusive window of calendar months.
type Timephase struct {
	Start YearMonth `json:"start"`
	End   YearMonth `json:"end"`
}

// SingleMonth returns the window covering only ym.
func SingleMonth(ym YearMonth) Timephase {
	return Timephase{Start: ym, End: ym}
}

// RecentTimephase returns the window of the last months calendar months
// ending with the month of now. Values below 1 select the current month.
func RecentTimephase(now time.Time, months int) Timephase {
	end := YearMonthOf(now)
	if months < 1 {
		months = 1
	}
	return Timephase{Start: AddMonths(end, -(months - 1)), End: end}
}

// Months expands the window. See ExpandMonthRange.
func (tp Timephase) Months() []YearMonth {
	return ExpandMonthRange(tp.Start, tp.End)
}

// Len returns the number of months in the window, zero when reversed.
func (tp Timephase) Len() int {
	if tp.End.Before(tp.Start) {
		return 0
	}
	return tp.End.index() - tp.Start.index() + 1
}

// Contains reports whether ym lies inside the window.
func (tp Timephase) Contains(ym YearMonth) bool {
	return !ym.Before(tp.Start) && !ym.After(tp.End)
}

// Ordered returns the window with its bounds swapped if reversed.
func (tp Timephase) Ordered() Timephase {
	if tp.End.Before(tp.Start) {
		return Timephase{Start: tp.End, End: tp.Start}
	}
	return tp
}

// String formats the window as "YYYY-MM..YYYY-MM".
func (tp Timephase) String() string {
	return tp.Start.String() + ".." + tp.End.String()
}
