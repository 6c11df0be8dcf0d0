package token

import (
	"context"
	"time"
)

// Token is an opaque session credential. Anonymous sessions carry no user.
type Token struct {
	Token     string
	UserID    *string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository persists session tokens.
type Repository interface {
	Create(ctx context.Context, t Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	AttachUser(ctx context.Context, token, userID string) error
}
