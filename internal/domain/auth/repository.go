// Package auth provides staff authentication for the portal.
package auth

import (
	"context"

	"suratdesa/internal/core/id"
)

// UserRepository defines staff account storage operations.
type UserRepository interface {
	// Create creates a new staff account.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByUsername retrieves an account by login name.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update updates account data.
	Update(ctx context.Context, user *User) error

	// List retrieves accounts with filtering.
	List(ctx context.Context, filter UserFilter) ([]User, error)

	// Exists checks if a username is taken.
	Exists(ctx context.Context, username string) (bool, error)
}

// TokenRepository defines refresh token storage operations.
type TokenRepository interface {
	// SaveRefreshToken saves a refresh token.
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error

	// GetRefreshToken retrieves refresh token by hash.
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// RevokeRefreshToken revokes a refresh token.
	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error

	// RevokeAllUserTokens revokes all tokens for a user.
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error

	// CleanupExpiredTokens removes expired tokens.
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// UserFilter for listing accounts.
type UserFilter struct {
	Search   string
	IsActive *bool
	Role     string
	Limit    int
	Offset   int
}
