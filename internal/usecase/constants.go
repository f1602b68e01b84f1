package usecase

import "time"

const (
	// DefaultLoadTimeout bounds a single ledger load.
	DefaultLoadTimeout = 10 * time.Second

	// DefaultCacheTTL is how long a cached ledger snapshot stays valid
	// when no TTL is configured.
	DefaultCacheTTL = 5 * time.Minute
)

// Query names used as metric labels.
const (
	querySummary     = "summary"
	queryLineTrend   = "line_trend"
	queryCategoryPie = "category_pie"
	queryAccountPie  = "account_pie"
	queryTopCategory = "top_category"
	queryTopAccount  = "top_account"
	queryAccounts    = "accounts"
	queryReconcile   = "reconcile"
)
