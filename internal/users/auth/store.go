package auth

import (
	"context"
	"time"
)

// UserRepository is the minimal account access needed by the auth flow.
// Directory management lives in the account package.
type UserRepository interface {
	Create(context context.Context, user *User) error
	FindByUsername(context context.Context, username string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
}

// UsedCodeRepository is the single-use ledger for confirmation codes.
// Codes themselves are stateless MACs; only their consumption is recorded.
type UsedCodeRepository interface {
	MarkUsed(context context.Context, digest string, ttl time.Duration) error
	IsUsed(context context.Context, digest string) (bool, error)
}
