package domain

import "errors"

var (
	// Ledger errors
	ErrLedgerNotFound = errors.New("ledger not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidUserID  = errors.New("invalid user ID")

	// Filter errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Query errors
	ErrInvalidYearMonth = errors.New("invalid year-month, expected YYYY-MM")
	ErrInvalidPurpose   = errors.New("invalid purpose, must be income, outcome or net")
	ErrInvalidTopK      = errors.New("invalid top-k")
	ErrTimephaseTooLong = errors.New("time window too long")
	ErrInvalidAmount    = errors.New("invalid amount")
)
