package domain

import "github.com/google/uuid"

// Category labels entries. ParentID is informational only; totals are
// never rolled up into parents.
type Category struct {
	ID       int64
	UserID   uuid.UUID
	Name     string
	ParentID *int64
}

// CategoryKey is the aggregation key for an optional category.
// The zero value is the uncategorized bucket.
type CategoryKey struct {
	ID    int64
	Valid bool
}

// Uncategorized is the bucket for entries without a category.
var Uncategorized = CategoryKey{}

// CategoryKeyOf returns the key for an optional category ID.
func CategoryKeyOf(id *int64) CategoryKey {
	if id == nil {
		return Uncategorized
	}
	return CategoryKey{ID: *id, Valid: true}
}

// Less orders keys with the uncategorized bucket first, then by ID.
func (k CategoryKey) Less(other CategoryKey) bool {
	if k.Valid != other.Valid {
		return !k.Valid
	}
	return k.ID < other.ID
}

// Ptr returns the category ID, or nil for the uncategorized bucket.
func (k CategoryKey) Ptr() *int64 {
	if !k.Valid {
		return nil
	}
	id := k.ID
	return &id
}
