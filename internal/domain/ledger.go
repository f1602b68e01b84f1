package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// Ledger is the in-memory store the analytics engine reads. It holds the
// five entity collections and offers lookups over them. A Ledger is never
// mutated by queries; build a new one instead of editing a shared one.
type Ledger struct {
	Users        []User
	Accounts     []Account
	Categories   []Category
	Transactions []Transaction
	Entries      []Entry

	txIndex map[uuid.UUID]int
}

// NewLedger builds a ledger and indexes its transactions.
func NewLedger(users []User, accounts []Account, categories []Category, transactions []Transaction, entries []Entry) *Ledger {
	l := &Ledger{
		Users:        users,
		Accounts:     accounts,
		Categories:   categories,
		Transactions: transactions,
		Entries:      entries,
	}
	l.Reindex()
	return l
}

// Reindex rebuilds the transaction index. Call it after replacing the
// Transactions slice and before sharing the ledger between goroutines.
func (l *Ledger) Reindex() {
	l.txIndex = make(map[uuid.UUID]int, len(l.Transactions))
	for i := range l.Transactions {
		l.txIndex[l.Transactions[i].ID] = i
	}
}

// Transaction looks up a transaction by ID.
func (l *Ledger) Transaction(id uuid.UUID) (*Transaction, bool) {
	if l.txIndex != nil {
		i, ok := l.txIndex[id]
		if !ok {
			return nil, false
		}
		return &l.Transactions[i], true
	}

	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			return &l.Transactions[i], true
		}
	}
	return nil, false
}

// ResolveEntry returns the transaction owning e. Entries whose transaction
// is missing or belongs to another user are orphans and resolve to false.
func (l *Ledger) ResolveEntry(e *Entry) (*Transaction, bool) {
	tx, ok := l.Transaction(e.TransactionID)
	if !ok || tx.UserID != e.UserID {
		return nil, false
	}
	return tx, true
}

// User looks up a user by ID.
func (l *Ledger) User(id uuid.UUID) (*User, bool) {
	for i := range l.Users {
		if l.Users[i].ID == id {
			return &l.Users[i], true
		}
	}
	return nil, false
}

// Account looks up an account by ID.
func (l *Ledger) Account(id int64) (*Account, bool) {
	for i := range l.Accounts {
		if l.Accounts[i].ID == id {
			return &l.Accounts[i], true
		}
	}
	return nil, false
}

// Category looks up a category by ID.
func (l *Ledger) Category(id int64) (*Category, bool) {
	for i := range l.Categories {
		if l.Categories[i].ID == id {
			return &l.Categories[i], true
		}
	}
	return nil, false
}

// AccountsForUser returns the user's accounts in store order.
func (l *Ledger) AccountsForUser(userID uuid.UUID) []Account {
	accounts := make([]Account, 0)
	for _, a := range l.Accounts {
		if a.UserID == userID {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

// EntriesForUser returns the user's entries in store order.
func (l *Ledger) EntriesForUser(userID uuid.UUID) []Entry {
	entries := make([]Entry, 0)
	for _, e := range l.Entries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	return entries
}

// ForUser returns a new ledger holding only the user's rows.
func (l *Ledger) ForUser(userID uuid.UUID) *Ledger {
	users := make([]User, 0, 1)
	if u, ok := l.User(userID); ok {
		users = append(users, *u)
	}

	categories := make([]Category, 0)
	for _, c := range l.Categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}

	transactions := make([]Transaction, 0)
	for _, tx := range l.Transactions {
		if tx.UserID == userID {
			transactions = append(transactions, tx)
		}
	}

	return NewLedger(users, l.AccountsForUser(userID), categories, transactions, l.EntriesForUser(userID))
}

// CategoryName returns the display name of a category key.
func (l *Ledger) CategoryName(key CategoryKey) string {
	if !key.Valid {
		return "Uncategorized"
	}
	if c, ok := l.Category(key.ID); ok {
		return c.Name
	}
	return "Category " + strconv.FormatInt(key.ID, 10)
}

// AccountName returns the display name of an account.
func (l *Ledger) AccountName(id int64) string {
	if a, ok := l.Account(id); ok {
		return a.Name
	}
	return "Account " + strconv.FormatInt(id, 10)
}
