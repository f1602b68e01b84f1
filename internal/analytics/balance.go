package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// AccountSummary is the all-time state of one account.
type AccountSummary struct {
	AccountID int64
	Name      string
	Type      domain.AccountType
	Balance   decimal.Decimal
	Currency  string
}

// CalBalance returns the account's opening balance plus every entry ever
// posted to it. Unknown accounts start from zero.
func (e *Engine) CalBalance(accountID int64) decimal.Decimal {
	balance := decimal.Zero
	if a, ok := e.ledger.Account(accountID); ok {
		balance = a.OpeningBalance
	}

	for i := range e.ledger.Entries {
		if e.ledger.Entries[i].AccountID == accountID {
			balance = balance.Add(e.ledger.Entries[i].Amount)
		}
	}
	return balance
}

// AllAccountSummary returns the all-time balance of each of the user's
// accounts, in store order.
func (e *Engine) AllAccountSummary(userID uuid.UUID) []AccountSummary {
	accounts := e.ledger.AccountsForUser(userID)

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, AccountSummary{
			AccountID: a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Balance:   e.CalBalance(a.ID),
			Currency:  a.Currency,
		})
	}
	return summaries
}
