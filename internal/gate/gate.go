// Package gate decides what an authenticated user may see: the app, or the
// username-setup screen. It lazily provisions a profile row on first visit.
package gate

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/linguanote/linguanote/internal/auth"
	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// Decision is the outcome of evaluating a session against its profile.
type Decision string

const (
	// DecisionUnauthenticated means no valid session is present.
	DecisionUnauthenticated Decision = "UNAUTHENTICATED"
	// DecisionNeedsUsername means the session is valid but the profile has
	// no username yet; only the setup flow is reachable.
	DecisionNeedsUsername Decision = "NEEDS_USERNAME"
	// DecisionAuthorized means the profile is complete.
	DecisionAuthorized Decision = "AUTHORIZED"
)

// Result carries the decision plus the profile when one exists.
type Result struct {
	Decision Decision       `json:"decision"`
	Profile  *model.Profile `json:"profile,omitempty"`
}

const (
	usernameMinLen = 3
	usernameMaxLen = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Gate evaluates access and runs the username setup flow.
type Gate struct {
	store    store.Store
	metadata auth.MetadataUpdater // optional; nil disables the mirror
	logger   zerolog.Logger
}

func New(s store.Store, metadata auth.MetadataUpdater, logger zerolog.Logger) *Gate {
	return &Gate{store: s, metadata: metadata, logger: logger}
}

// Evaluate resolves the session's profile, creating one on first visit.
// When the store cannot answer, the user is held at the setup screen rather
// than let through with an unknown profile state.
func (g *Gate) Evaluate(ctx context.Context, session *auth.Session) Result {
	if session == nil {
		return Result{Decision: DecisionUnauthenticated}
	}

	prof, created, err := g.store.Profiles().EnsureExists(ctx, session.UserID)
	if err != nil {
		g.logger.Warn().Err(err).Str("userId", session.UserID).
			Msg("profile lookup failed; holding user at username setup")
		return Result{Decision: DecisionNeedsUsername}
	}
	if created {
		g.logger.Info().Str("userId", session.UserID).Msg("provisioned profile on first visit")
	}

	if !prof.HasUsername() {
		return Result{Decision: DecisionNeedsUsername, Profile: prof}
	}
	return Result{Decision: DecisionAuthorized, Profile: prof}
}

// SetUsername validates and claims a username for the session's profile.
// The canonical stored form is lowercase; the original casing is kept as the
// display name and mirrored to the identity provider on a best-effort basis.
func (g *Gate) SetUsername(ctx context.Context, session *auth.Session, raw string) (*model.Profile, error) {
	if session == nil {
		return nil, model.ErrUnauthorized
	}

	trimmed := strings.TrimSpace(raw)
	if err := ValidateUsername(trimmed); err != nil {
		return nil, err
	}

	canonical := strings.ToLower(trimmed)
	taken, err := g.store.Profiles().UsernameTaken(ctx, canonical, session.UserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &SetupError{Code: CodeTaken, msg: "username is already taken"}
	}

	prof, err := g.store.Profiles().SetUsername(ctx, session.UserID, canonical, trimmed)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			// Lost a race with another claim of the same name.
			return nil, &SetupError{Code: CodeTaken, msg: "username is already taken"}
		}
		return nil, err
	}

	if g.metadata != nil {
		if merr := g.metadata.UpdateDisplayName(ctx, session.UserID, trimmed); merr != nil {
			g.logger.Warn().Err(merr).Str("userId", session.UserID).
				Msg("display name mirror failed")
		}
	}
	return prof, nil
}
