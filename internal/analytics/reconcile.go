package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerstat/internal/domain"
)

// ReconcileTolerance is the largest difference still reported as balanced.
var ReconcileTolerance = decimal.New(1, -2)

// SuspiciousEntry is an entry that could explain a balance gap on its own.
// Score is |difference - amount|; lower is a better explanation.
type SuspiciousEntry struct {
	domain.Entry

	OccurDate time.Time
	Score     decimal.Decimal
}

// ReconcileResult compares the ledger's balance for a window with an
// external figure.
type ReconcileResult struct {
	Good              bool
	InternalBalance   decimal.Decimal
	ExternalBalance   decimal.Decimal
	Difference        decimal.Decimal
	SuspiciousEntries []SuspiciousEntry
}

// Reconcile nets the window (optionally for one account) and compares it
// with external. On a mismatch the topK entries whose amount comes closest
// to the difference are returned, best first.
func (e *Engine) Reconcile(userID uuid.UUID, accountID *int64, external decimal.Decimal, tp domain.Timephase, topK int) ReconcileResult {
	filter := Filter{AccountID: accountID}
	internal := e.MonthSummary(userID, filter, domain.PurposeNet, tp)
	difference := external.Sub(internal)

	result := ReconcileResult{
		Good:              difference.Abs().LessThanOrEqual(ReconcileTolerance),
		InternalBalance:   internal,
		ExternalBalance:   external,
		Difference:        difference,
		SuspiciousEntries: []SuspiciousEntry{},
	}
	if result.Good {
		return result
	}

	result.SuspiciousEntries = e.suspiciousEntries(userID, accountID, difference, tp, topK)
	return result
}

func (e *Engine) suspiciousEntries(userID uuid.UUID, accountID *int64, difference decimal.Decimal, tp domain.Timephase, topK int) []SuspiciousEntry {
	candidates := make([]SuspiciousEntry, 0)
	if topK <= 0 {
		return candidates
	}

	for i := range e.ledger.Entries {
		entry := &e.ledger.Entries[i]
		if entry.UserID != userID {
			continue
		}
		if accountID != nil && entry.AccountID != *accountID {
			continue
		}

		tx, ok := e.ledger.ResolveEntry(entry)
		if !ok || !tp.Contains(tx.YearMonth()) {
			continue
		}

		candidates = append(candidates, SuspiciousEntry{
			Entry:     *entry,
			OccurDate: tx.OccurDate,
			Score:     difference.Sub(entry.Amount).Abs(),
		})
	}

	slices.SortStableFunc(candidates, func(a, b SuspiciousEntry) int {
		if c := a.Score.Cmp(b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return candidates[:min(topK, len(candidates))]
}
