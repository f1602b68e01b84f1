package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a single signed posting against one account. Positive amounts
// are income, negative amounts are outcome; zero counts as income.
type Entry struct {
	ID            int64
	UserID        uuid.UUID
	TransactionID uuid.UUID
	AccountID     int64
	CategoryID    *int64
	Amount        decimal.Decimal
	Note          *string
}

// IsOutcome reports whether the entry is spending.
func (e *Entry) IsOutcome() bool {
	return e.Amount.IsNegative()
}

// CategoryKey returns the aggregation key of the entry's category.
func (e *Entry) CategoryKey() CategoryKey {
	return CategoryKeyOf(e.CategoryID)
}
