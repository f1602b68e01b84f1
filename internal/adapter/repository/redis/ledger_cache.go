package redis

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerstat/internal/adapter/repository/snapshot"
	"github.com/iho/ledgerstat/internal/domain"
	"github.com/iho/ledgerstat/internal/infrastructure/metrics"
	"github.com/iho/ledgerstat/internal/usecase"
)

const cacheSource = "cache"

// CachedLedgerRepository serves ledgers from a cache in front of another
// repository. Cached values are snapshot documents. Cache failures are
// logged and fall through to the inner repository.
type CachedLedgerRepository struct {
	inner   usecase.LedgerRepository
	cache   usecase.Cache
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewCachedLedgerRepository wraps inner. m may be nil.
func NewCachedLedgerRepository(
	inner usecase.LedgerRepository,
	cache usecase.Cache,
	ttl time.Duration,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *CachedLedgerRepository {
	if ttl <= 0 {
		ttl = usecase.DefaultCacheTTL
	}
	return &CachedLedgerRepository{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// LedgerKey is the cache key of a user's ledger.
func LedgerKey(userID uuid.UUID) string {
	return "ledger:" + userID.String()
}

// LoadLedger implements usecase.LedgerRepository.
func (r *CachedLedgerRepository) LoadLedger(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	start := time.Now()
	key := LedgerKey(userID)

	if ledger, ok := r.lookup(ctx, key); ok {
		r.observe(start, "hit", ledger)
		return ledger, nil
	}

	ledger, err := r.inner.LoadLedger(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, ledger)
	r.observe(start, "miss", ledger)
	return ledger, nil
}

// Invalidate drops the cached ledger of userID.
func (r *CachedLedgerRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return r.cache.Delete(ctx, LedgerKey(userID))
}

func (r *CachedLedgerRepository) lookup(ctx context.Context, key string) (*domain.Ledger, bool) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, usecase.ErrCacheMiss) {
			if r.metrics != nil {
				r.metrics.CacheMisses.Inc()
			}
		} else {
			r.cacheError("get", key, err)
		}
		return nil, false
	}

	ledger, err := snapshot.Decode(bytes.NewReader(raw))
	if err != nil {
		r.cacheError("decode", key, err)
		return nil, false
	}

	if r.metrics != nil {
		r.metrics.CacheHits.Inc()
	}
	return ledger, true
}

func (r *CachedLedgerRepository) store(ctx context.Context, key string, ledger *domain.Ledger) {
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, ledger); err != nil {
		r.cacheError("encode", key, err)
		return
	}
	if err := r.cache.Set(ctx, key, buf.Bytes(), r.ttl); err != nil {
		r.cacheError("set", key, err)
	}
}

func (r *CachedLedgerRepository) cacheError(op, key string, err error) {
	if r.metrics != nil {
		r.metrics.CacheErrors.WithLabelValues(op).Inc()
	}
	r.logger.Warn().Err(err).Str("operation", op).Str("key", key).Msg("ledger cache error")
}

func (r *CachedLedgerRepository) observe(start time.Time, status string, ledger *domain.Ledger) {
	if r.metrics == nil {
		return
	}
	r.metrics.LedgerLoads.WithLabelValues(cacheSource, status).Inc()
	r.metrics.LedgerLoadDuration.WithLabelValues(cacheSource).Observe(time.Since(start).Seconds())
	r.metrics.LedgerEntries.Observe(float64(len(ledger.Entries)))
}
