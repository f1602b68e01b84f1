package analytics_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

const (
	checkingID int64 = 1
	creditID   int64 = 2
	foodID     int64 = 1
	rentID     int64 = 2
	salaryID   int64 = 3
)

var (
	demoUser  = uuid.MustParse("0b6d2f5e-6a4e-4c0a-9d1e-3a57c1f0a001")
	otherUser = uuid.MustParse("0b6d2f5e-6a4e-4c0a-9d1e-3a57c1f0a002")

	december = domain.YearMonth{Year: 2025, Month: time.December}
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ledgerBuilder struct {
	users        []domain.User
	accounts     []domain.Account
	categories   []domain.Category
	transactions []domain.Transaction
	entries      []domain.Entry
	nextEntryID  int64
}

func newLedgerBuilder() *ledgerBuilder {
	b := &ledgerBuilder{nextEntryID: 1}
	b.users = []domain.User{{ID: demoUser, Email: "demo@example.com"}}
	b.accounts = []domain.Account{
		{ID: checkingID, UserID: demoUser, Name: "Chequing", Type: domain.AccountChecking, Currency: "CAD", OpeningBalance: dec("1000")},
		{ID: creditID, UserID: demoUser, Name: "Visa", Type: domain.AccountCredit, Currency: "CAD"},
	}
	b.categories = []domain.Category{
		{ID: foodID, UserID: demoUser, Name: "Food"},
		{ID: rentID, UserID: demoUser, Name: "Rent"},
		{ID: salaryID, UserID: demoUser, Name: "Salary"},
	}
	return b
}

// post adds a single-entry transaction and returns the entry ID.
func (b *ledgerBuilder) post(user uuid.UUID, on time.Time, account int64, category *int64, amount string) int64 {
	tx := domain.Transaction{ID: uuid.New(), UserID: user, OccurDate: on}
	b.transactions = append(b.transactions, tx)

	id := b.nextEntryID
	b.nextEntryID++
	b.entries = append(b.entries, domain.Entry{
		ID:            id,
		UserID:        user,
		TransactionID: tx.ID,
		AccountID:     account,
		CategoryID:    category,
		Amount:        dec(amount),
	})
	return id
}

// orphan adds an entry whose transaction does not exist.
func (b *ledgerBuilder) orphan(user uuid.UUID, account int64, amount string) {
	id := b.nextEntryID
	b.nextEntryID++
	b.entries = append(b.entries, domain.Entry{
		ID:            id,
		UserID:        user,
		TransactionID: uuid.New(),
		AccountID:     account,
		Amount:        dec(amount),
	})
}

func (b *ledgerBuilder) build() *domain.Ledger {
	return domain.NewLedger(b.users, b.accounts, b.categories, b.transactions, b.entries)
}

// demoLedger is the December 2025 scenario: groceries and rent on the
// chequing account, a latte on the credit card.
func demoLedger() *domain.Ledger {
	b := newLedgerBuilder()
	b.post(demoUser, date(2025, time.December, 1), checkingID, ptr(foodID), "-50.00")
	b.post(demoUser, date(2025, time.December, 2), checkingID, ptr(rentID), "-700.00")
	b.post(demoUser, date(2025, time.December, 3), creditID, ptr(foodID), "-10.00")
	return b.build()
}
