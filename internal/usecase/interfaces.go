package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iho/ledgerstat/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// LedgerRepository loads the ledger of one user.
type LedgerRepository interface {
	// LoadLedger returns every row owned by userID, or domain.ErrUserNotFound.
	LoadLedger(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
