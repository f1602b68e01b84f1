package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/postgres/generated"
)

func rowToUser(row generated.User) domain.User {
	return domain.User{
		ID:        pgUUIDToUUID(row.ID),
		Email:     row.Email,
		CreatedAt: pgTimestamptzToTime(row.CreatedAt),
	}
}

func rowToAccount(row generated.Account) domain.Account {
	return domain.Account{
		ID:             row.ID,
		UserID:         pgUUIDToUUID(row.UserID),
		Name:           row.Name,
		Type:           domain.ParseAccountType(row.AccountType),
		Currency:       row.Currency,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		CreatedAt:      pgTimestamptzToTime(row.CreatedAt),
	}
}

func rowToCategory(row generated.Category) domain.Category {
	return domain.Category{
		ID:       row.ID,
		UserID:   pgUUIDToUUID(row.UserID),
		Name:     row.Name,
		ParentID: pgInt8ToPtr(row.ParentID),
	}
}

func rowToTransaction(row generated.Transaction) domain.Transaction {
	var occurred time.Time
	if row.OccurredAt.Valid {
		y, m, d := row.OccurredAt.Time.Date()
		occurred = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	return domain.Transaction{
		ID:        pgUUIDToUUID(row.ID),
		UserID:    pgUUIDToUUID(row.UserID),
		OccurDate: occurred,
		Payee:     pgTextToPtr(row.Payee),
		Memo:      pgTextToPtr(row.Memo),
		CreatedAt: pgTimestamptzToTime(row.CreatedAt),
	}
}

func rowToEntry(row generated.Entry) domain.Entry {
	return domain.Entry{
		ID:            row.ID,
		UserID:        pgUUIDToUUID(row.UserID),
		TransactionID: pgUUIDToUUID(row.TxID),
		AccountID:     row.AccountID,
		CategoryID:    pgInt8ToPtr(row.CategoryID),
		Amount:        numericToDecimal(row.Amount),
		Note:          pgTextToPtr(row.Note),
	}
}

func uuidToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDToUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func pgInt8ToPtr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func pgTextToPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time.UTC()
}
