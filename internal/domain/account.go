package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSaving   AccountType = "saving"
	AccountCash     AccountType = "cash"
	AccountCredit   AccountType = "credit"
	AccountOther    AccountType = "other"
)

// ParseAccountType maps a free-form type name onto a known AccountType.
// Unknown names become AccountOther.
func ParseAccountType(s string) AccountType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checking", "chequing":
		return AccountChecking
	case "saving", "savings":
		return AccountSaving
	case "cash":
		return AccountCash
	case "credit", "credit_card":
		return AccountCredit
	default:
		return AccountOther
	}
}

// Account is a place money lives. Its balance is derived from the opening
// balance plus every entry posted against it.
type Account struct {
	ID             int64
	UserID         uuid.UUID
	Name           string
	Type           AccountType
	Currency       string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
}
