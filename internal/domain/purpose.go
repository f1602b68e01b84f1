package domain

import (
	"fmt"
	"strings"
)

// Purpose selects which of the three flow figures a query reports.
type Purpose int

const (
	// PurposeOutcome is spending, reported as a negative number.
	PurposeOutcome Purpose = iota
	// PurposeIncome is inflow.
	PurposeIncome
	// PurposeNet is income plus outcome.
	PurposeNet
)

// ParsePurpose accepts "income", "outcome" (or "spend") and "net".
// An empty string selects PurposeOutcome.
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outcome", "spend", "expense":
		return PurposeOutcome, nil
	case "income":
		return PurposeIncome, nil
	case "net":
		return PurposeNet, nil
	default:
		return PurposeOutcome, fmt.Errorf("%w: %q", ErrInvalidPurpose, s)
	}
}

func (p Purpose) String() string {
	switch p {
	case PurposeIncome:
		return "income"
	case PurposeNet:
		return "net"
	default:
		return "outcome"
	}
}
