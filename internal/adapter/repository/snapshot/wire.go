package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// document is the JSON snapshot of one or more users' ledgers.
type document struct {
	User         *userDTO         `json:"user,omitempty"`
	Users        []userDTO        `json:"users,omitempty"`
	Accounts     []accountDTO     `json:"accounts"`
	Categories   []categoryDTO    `json:"categories"`
	Transactions []transactionDTO `json:"transactions"`
	Entries      []entryDTO       `json:"entries"`
}

type userDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type accountDTO struct {
	ID             int64           `json:"id"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}

type categoryDTO struct {
	ID       int64      `json:"id"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	Name     string     `json:"name"`
	ParentID *int64     `json:"parent_id,omitempty"`
}

type transactionDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	OccurredAt date       `json:"occurred_at"`
	Payee      *string    `json:"payee,omitempty"`
	Memo       *string    `json:"memo,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Entries    []entryDTO `json:"entries,omitempty"`
}

type entryDTO struct {
	ID         int64               `json:"id"`
	UserID     *uuid.UUID          `json:"user_id,omitempty"`
	TxID       *uuid.UUID          `json:"tx_id,omitempty"`
	AccountID  int64               `json:"account_id"`
	CategoryID *int64              `json:"category_id,omitempty"`
	Amount     decimal.NullDecimal `json:"amount"`
	Note       *string             `json:"note,omitempty"`
}

// date is a calendar date. It decodes both "2025-12-01" and RFC 3339
// timestamps and always encodes as a plain date.
type date struct {
	time.Time
}

func (d date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("occurred_at: %w", err)
	}
	s = strings.TrimSpace(s)

	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("occurred_at %q: expected YYYY-MM-DD", s)
	}
	y, m, day := t.Date()
	d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return nil
}
