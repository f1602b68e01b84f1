package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a dated container for one or more entries. It carries no
// amount of its own.
type Transaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OccurDate time.Time
	Payee     *string
	Memo      *string
	CreatedAt time.Time
}

// YearMonth returns the calendar month the transaction occurred in.
func (t *Transaction) YearMonth() YearMonth {
	return YearMonthOf(t.OccurDate)
}
