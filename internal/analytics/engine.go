// Package analytics computes rollups, trends, rankings and reconciliation
// reports over an in-memory ledger. Every function is read-only and safe
// to call from multiple goroutines on a shared Engine.
package analytics

import "github.com/iho/ledgerstat/internal/domain"

// Engine answers analytics queries over one ledger.
type Engine struct {
	ledger *domain.Ledger
}

// New creates an Engine reading from ledger.
func New(ledger *domain.Ledger) *Engine {
	if ledger == nil {
		ledger = domain.NewLedger(nil, nil, nil, nil, nil)
	}
	return &Engine{ledger: ledger}
}

// Ledger returns the ledger the engine reads from.
func (e *Engine) Ledger() *domain.Ledger {
	return e.ledger
}
