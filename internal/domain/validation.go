package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants
const (
	MaxTopK       = 100
	DefaultTopK   = 5
	MaxMonthsSpan = 120
	DefaultMonths = 6
	ReconcileTopK = 10
)

// ValidateTopK checks that k is within 0..MaxTopK.
func ValidateTopK(k int) error {
	if k < 0 || k > MaxTopK {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidTopK, k, MaxTopK)
	}
	return nil
}

// ValidateTimephase rejects invalid months and windows longer than
// MaxMonthsSpan. Reversed windows are accepted; they simply select nothing.
func ValidateTimephase(tp Timephase) error {
	if !tp.Start.Valid() || !tp.End.Valid() {
		return ErrInvalidYearMonth
	}
	if tp.Len() > MaxMonthsSpan {
		return fmt.Errorf("%w: %d months exceeds %d", ErrTimephaseTooLong, tp.Len(), MaxMonthsSpan)
	}
	return nil
}

// ParseUserID parses a user UUID.
func ParseUserID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidUserID, s)
	}
	return id, nil
}
