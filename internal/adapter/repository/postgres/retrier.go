package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATE codes worth another attempt on a read-only snapshot load.
// Anything in class 08 (connection exception) is retried as well.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrConnectionFailure    = "08006"
	pgErrAdminShutdown        = "57P01"
	pgErrCannotConnectNow     = "57P03"

	pgClassConnection = "08"
)

// Retrier re-runs a ledger load with exponential backoff while the
// failure looks transient.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a Retrier allowing three retries within ten seconds.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}
}

// Retry runs operation until it succeeds, fails permanently, runs out of
// retries or ctx is done. The last error is returned.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initialInterval
	exp.MaxInterval = r.maxInterval
	exp.MaxElapsedTime = r.maxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.maxRetries)), ctx)

	return backoff.RetryNotify(func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		r.logger.Warn().
			Err(err).
			Dur("backoff", wait).
			Msg("transient database error, retrying ledger load")
	})
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrAdminShutdown, pgErrCannotConnectNow:
			return true
		}
		return strings.HasPrefix(pgErr.Code, pgClassConnection)
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
