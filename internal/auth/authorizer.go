package auth

import (
	"context"
)

// Session describes an authenticated user resolved from a bearer token.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Authorizer resolves bearer tokens to sessions.
type Authorizer interface {
	// Authorize validates the token and returns the session it belongs to.
	// Returns ErrInvalidToken when the token is unknown or expired.
	Authorize(ctx context.Context, token string) (*Session, error)
}

// MetadataUpdater mirrors profile attributes back into the identity
// provider's user metadata. Failures are advisory; callers log and move on.
type MetadataUpdater interface {
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}
