package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
	"github.com/iho/ledgerstat/internal/infrastructure/postgres/generated"
)

// snapshotBeginner is the part of *pgxpool.Pool the repository needs.
type snapshotBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// LedgerRepository implements usecase.LedgerRepository. Each load reads
// the user's rows inside one read-only repeatable-read transaction so the
// five tables agree with each other.
type LedgerRepository struct {
	pool    snapshotBeginner
	retrier *Retrier
	metrics *metrics.Metrics
}

// NewLedgerRepository creates a new LedgerRepository. m may be nil.
func NewLedgerRepository(pool snapshotBeginner, retrier *Retrier, m *metrics.Metrics) *LedgerRepository {
	return &LedgerRepository{pool: pool, retrier: retrier, metrics: m}
}

// LoadLedger reads everything owned by userID.
func (r *LedgerRepository) LoadLedger(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	var ledger *domain.Ledger

	err := r.retrier.Retry(ctx, func() error {
		l, err := r.load(ctx, userID)
		if err != nil {
			return err
		}
		ledger = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

func (r *LedgerRepository) load(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	ledger, err := r.read(ctx, generated.New(tx), userID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close snapshot transaction: %w", err)
	}

	return ledger, nil
}

func (r *LedgerRepository) read(ctx context.Context, q *generated.Queries, userID uuid.UUID) (*domain.Ledger, error) {
	id := uuidToPgUUID(userID)

	start := time.Now()
	userRow, err := q.GetUserByID(ctx, id)
	r.observe("get", "users", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	start = time.Now()
	accountRows, err := q.ListAccountsByUser(ctx, id)
	r.observe("list", "accounts", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	start = time.Now()
	categoryRows, err := q.ListCategoriesByUser(ctx, id)
	r.observe("list", "categories", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	start = time.Now()
	txRows, err := q.ListTransactionsByUser(ctx, id)
	r.observe("list", "transactions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	start = time.Now()
	entryRows, err := q.ListEntriesByUser(ctx, id)
	r.observe("list", "entries", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	accounts := make([]domain.Account, 0, len(accountRows))
	for _, row := range accountRows {
		accounts = append(accounts, rowToAccount(row))
	}

	categories := make([]domain.Category, 0, len(categoryRows))
	for _, row := range categoryRows {
		categories = append(categories, rowToCategory(row))
	}

	transactions := make([]domain.Transaction, 0, len(txRows))
	for _, row := range txRows {
		transactions = append(transactions, rowToTransaction(row))
	}

	entries := make([]domain.Entry, 0, len(entryRows))
	for _, row := range entryRows {
		entries = append(entries, rowToEntry(row))
	}

	return domain.NewLedger([]domain.User{rowToUser(userRow)}, accounts, categories, transactions, entries), nil
}

func (r *LedgerRepository) observe(operation, table string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}

	r.metrics.DBQueries.WithLabelValues(operation, table).Inc()
	r.metrics.DBDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.metrics.DBErrors.WithLabelValues(operation).Inc()
	}
}
