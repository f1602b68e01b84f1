package snapshot

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// DemoUserID owns the demo ledger.
var DemoUserID = uuid.MustParse("5f1d7a52-9c1e-4f43-8a55-6d2c0f3b9e01")

// Demo builds a small ledger covering October to December 2025: a salary
// each month, rent, groceries on both accounts and one uncategorized
// refund.
func Demo() *domain.Ledger {
	created := time.Date(2025, time.September, 30, 12, 0, 0, 0, time.UTC)
	food, rent, salary, coffee := int64(1), int64(2), int64(3), int64(4)

	users := []domain.User{{ID: DemoUserID, Email: "demo@ledgerstat.local", CreatedAt: created}}
	accounts := []domain.Account{
		{ID: 1, UserID: DemoUserID, Name: "Chequing", Type: domain.AccountChecking, Currency: "CAD", OpeningBalance: decimal.NewFromInt(1000), CreatedAt: created},
		{ID: 2, UserID: DemoUserID, Name: "Visa", Type: domain.AccountCredit, Currency: "CAD", CreatedAt: created},
	}
	categories := []domain.Category{
		{ID: food, UserID: DemoUserID, Name: "Food"},
		{ID: rent, UserID: DemoUserID, Name: "Rent"},
		{ID: salary, UserID: DemoUserID, Name: "Salary"},
		{ID: coffee, UserID: DemoUserID, Name: "Coffee", ParentID: &food},
	}

	b := demoBuilder{created: created}
	for _, m := range []time.Month{time.October, time.November, time.December} {
		b.post(m, 1, "Employer", 1, &salary, "3200.00")
		b.post(m, 2, "Landlord", 1, &rent, "-700.00")
	}
	b.post(time.October, 12, "Market", 1, &food, "-84.20")
	b.post(time.October, 20, "Cafe", 2, &coffee, "-6.75")
	b.post(time.November, 9, "Market", 2, &food, "-61.35")
	b.post(time.November, 27, "Store", 1, nil, "45.00")
	b.post(time.December, 1, "Market", 1, &food, "-50.00")
	b.post(time.December, 3, "Cafe", 2, &food, "-10.00")

	return domain.NewLedger(users, accounts, categories, b.transactions, b.entries)
}

type demoBuilder struct {
	created      time.Time
	transactions []domain.Transaction
	entries      []domain.Entry
}

func (b *demoBuilder) post(month time.Month, day int, payee string, account int64, category *int64, amount string) {
	id := int64(len(b.entries) + 1)
	tx := domain.Transaction{
		ID:        uuid.NewSHA1(DemoUserID, []byte{byte(id)}),
		UserID:    DemoUserID,
		OccurDate: time.Date(2025, month, day, 0, 0, 0, 0, time.UTC),
		Payee:     &payee,
		CreatedAt: b.created,
	}
	b.transactions = append(b.transactions, tx)
	b.entries = append(b.entries, domain.Entry{
		ID:            id,
		UserID:        DemoUserID,
		TransactionID: tx.ID,
		AccountID:     account,
		CategoryID:    category,
		Amount:        decimal.RequireFromString(amount),
	})
}
