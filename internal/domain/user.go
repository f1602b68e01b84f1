package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User is the identity scope for every other ledger entity.
type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrForbidden    = errors.New("user may only query its own ledger")
)
