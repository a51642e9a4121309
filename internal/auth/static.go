package auth

import (
	"context"
	"crypto/subtle"
	"sync"
)

// StaticAuthorizer resolves a fixed token-to-session table. It backs local
// development and tests; production deployments sit behind an identity
// provider that issues its own Authorizer.
type StaticAuthorizer struct {
	mu       sync.RWMutex
	sessions map[string]Session
	metadata map[string]string // userID -> display name mirror
}

// NewStaticAuthorizer creates an authorizer with no registered tokens.
func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{
		sessions: make(map[string]Session),
		metadata: make(map[string]string),
	}
}

// Register associates a token with a session.
func (a *StaticAuthorizer) Register(token string, s Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[token] = s
}

// Authorize implements Authorizer.
func (a *StaticAuthorizer) Authorize(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for t, s := range a.sessions {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			out := s
			return &out, nil
		}
	}
	return nil, ErrInvalidToken
}

// UpdateDisplayName implements MetadataUpdater.
func (a *StaticAuthorizer) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metadata[userID] = displayName
	return nil
}

// DisplayName reports the mirrored display name for a user, if any.
func (a *StaticAuthorizer) DisplayName(userID string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.metadata[userID]
	return v, ok
}
