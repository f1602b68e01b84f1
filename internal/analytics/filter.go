package analytics

import "github.com/iho/ledgerstat/internal/domain"

// Filter narrows a query to an account, a category, or both.
// A nil field means "any". A non-nil Category pointing at
// domain.Uncategorized selects entries without a category.
type Filter struct {
	AccountID *int64
	Category  *domain.CategoryKey
}

// ForAccount returns a filter on one account.
func ForAccount(id int64) Filter {
	return Filter{AccountID: &id}
}

// ForCategory returns a filter on one category bucket.
func ForCategory(key domain.CategoryKey) Filter {
	return Filter{Category: &key}
}

// WithAccount returns a copy of f restricted to an account.
func (f Filter) WithAccount(id int64) Filter {
	f.AccountID = &id
	return f
}

// WithCategory returns a copy of f restricted to a category bucket.
func (f Filter) WithCategory(key domain.CategoryKey) Filter {
	f.Category = &key
	return f
}
