// Package snapshot reads and writes ledgers as JSON documents in the
// shape the sync backend serves them.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// ErrInvalidSnapshot is returned for documents that decode but cannot be
// turned into a ledger.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Decode reads one snapshot document.
//
// Rows without a user_id belong to the document's single user. Entries
// nested under a transaction inherit its ID and user. An entry that is
// both nested and flat is kept once.
func Decode(r io.Reader) (*domain.Ledger, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	l, err := doc.toLedger()
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return l, nil
}

// Encode writes the ledger as one snapshot document. Entries are written
// flat, never nested.
func Encode(w io.Writer, l *domain.Ledger) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromLedger(l)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func (doc *document) toLedger() (*domain.Ledger, error) {
	users := make([]domain.User, 0, len(doc.Users)+1)
	if doc.User != nil {
		users = append(users, doc.User.toDomain())
	}
	for _, u := range doc.Users {
		users = append(users, u.toDomain())
	}

	owner := uuid.Nil
	if len(users) == 1 {
		owner = users[0].ID
	}
	resolve := func(kind string, id any, userID *uuid.UUID) (uuid.UUID, error) {
		if userID != nil {
			return *userID, nil
		}
		if owner == uuid.Nil {
			return uuid.Nil, fmt.Errorf("%w: %s %v has no user_id", ErrInvalidSnapshot, kind, id)
		}
		return owner, nil
	}

	accounts := make([]domain.Account, 0, len(doc.Accounts))
	for _, a := range doc.Accounts {
		userID, err := resolve("account", a.ID, a.UserID)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, domain.Account{
			ID:             a.ID,
			UserID:         userID,
			Name:           a.Name,
			Type:           domain.ParseAccountType(a.AccountType),
			Currency:       a.Currency,
			OpeningBalance: a.OpeningBalance,
			CreatedAt:      timeOrZero(a.CreatedAt),
		})
	}

	categories := make([]domain.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		userID, err := resolve("category", c.ID, c.UserID)
		if err != nil {
			return nil, err
		}
		categories = append(categories, domain.Category{
			ID:       c.ID,
			UserID:   userID,
			Name:     c.Name,
			ParentID: c.ParentID,
		})
	}

	transactions := make([]domain.Transaction, 0, len(doc.Transactions))
	entries := make([]domain.Entry, 0, len(doc.Entries))
	seen := make(map[int64]struct{}, len(doc.Entries))

	addEntry := func(e entryDTO, txID, userID uuid.UUID) error {
		if _, dup := seen[e.ID]; dup {
			return nil
		}
		if !e.Amount.Valid {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidSnapshot, e.ID, domain.ErrInvalidAmount)
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, domain.Entry{
			ID:            e.ID,
			UserID:        userID,
			TransactionID: txID,
			AccountID:     e.AccountID,
			CategoryID:    e.CategoryID,
			Amount:        e.Amount.Decimal,
			Note:          e.Note,
		})
		return nil
	}

	for _, e := range doc.Entries {
		if e.TxID == nil {
			return nil, fmt.Errorf("%w: entry %d has no tx_id", ErrInvalidSnapshot, e.ID)
		}
		userID, err := resolve("entry", e.ID, e.UserID)
		if err != nil {
			return nil, err
		}
		if err := addEntry(e, *e.TxID, userID); err != nil {
			return nil, err
		}
	}

	for _, t := range doc.Transactions {
		userID, err := resolve("transaction", t.ID, t.UserID)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, domain.Transaction{
			ID:        t.ID,
			UserID:    userID,
			OccurDate: t.OccurredAt.Time,
			Payee:     t.Payee,
			Memo:      t.Memo,
			CreatedAt: timeOrZero(t.CreatedAt),
		})

		for _, e := range t.Entries {
			if e.TxID != nil && *e.TxID != t.ID {
				return nil, fmt.Errorf("%w: entry %d nested under transaction %s names tx_id %s", ErrInvalidSnapshot, e.ID, t.ID, *e.TxID)
			}
			entryUser := userID
			if e.UserID != nil {
				entryUser = *e.UserID
			}
			if err := addEntry(e, t.ID, entryUser); err != nil {
				return nil, err
			}
		}
	}

	return domain.NewLedger(users, accounts, categories, transactions, entries), nil
}

func fromLedger(l *domain.Ledger) document {
	doc := document{
		Accounts:     make([]accountDTO, 0, len(l.Accounts)),
		Categories:   make([]categoryDTO, 0, len(l.Categories)),
		Transactions: make([]transactionDTO, 0, len(l.Transactions)),
		Entries:      make([]entryDTO, 0, len(l.Entries)),
	}

	if len(l.Users) == 1 {
		u := userFromDomain(l.Users[0])
		doc.User = &u
	} else {
		doc.Users = make([]userDTO, 0, len(l.Users))
		for _, u := range l.Users {
			doc.Users = append(doc.Users, userFromDomain(u))
		}
	}

	for _, a := range l.Accounts {
		doc.Accounts = append(doc.Accounts, accountDTO{
			ID:             a.ID,
			UserID:         uuidPtr(a.UserID),
			Name:           a.Name,
			AccountType:    string(a.Type),
			Currency:       a.Currency,
			OpeningBalance: a.OpeningBalance,
			CreatedAt:      timePtr(a.CreatedAt),
		})
	}
	for _, c := range l.Categories {
		doc.Categories = append(doc.Categories, categoryDTO{
			ID:       c.ID,
			UserID:   uuidPtr(c.UserID),
			Name:     c.Name,
			ParentID: c.ParentID,
		})
	}
	for _, t := range l.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDTO{
			ID:         t.ID,
			UserID:     uuidPtr(t.UserID),
			OccurredAt: date{t.OccurDate},
			Payee:      t.Payee,
			Memo:       t.Memo,
			CreatedAt:  timePtr(t.CreatedAt),
		})
	}
	for _, e := range l.Entries {
		doc.Entries = append(doc.Entries, entryDTO{
			ID:         e.ID,
			UserID:     uuidPtr(e.UserID),
			TxID:       uuidPtr(e.TransactionID),
			AccountID:  e.AccountID,
			CategoryID: e.CategoryID,
			Amount:     decimal.NewNullDecimal(e.Amount),
			Note:       e.Note,
		})
	}

	return doc
}

func (u userDTO) toDomain() domain.User {
	return domain.User{ID: u.ID, Email: u.Email, CreatedAt: timeOrZero(u.CreatedAt)}
}

func userFromDomain(u domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, CreatedAt: timePtr(u.CreatedAt)}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
