package store

import (
	"context"
	"encoding/json"

	"github.com/linguanote/linguanote/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Profiles() Profiles
	Notes() Notes
	Playlists() Playlists
	Documents() Documents
}

// Profiles persists the per-user profile row.
type Profiles interface {
	// EnsureExists creates the profile row with only the user id set when it
	// is missing. It is idempotent; created reports whether a row was
	// inserted by this call.
	EnsureExists(ctx context.Context, userID string) (p *model.Profile, created bool, err error)
	Get(ctx context.Context, userID string) (*model.Profile, error)
	// UsernameTaken checks the canonical (lower-cased) username against all
	// rows except excludeUserID.
	UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error)
	// SetUsername upserts the row with the canonical username, the
	// original-casing display name and a fresh update timestamp.
	SetUsername(ctx context.Context, userID, username, displayName string) (*model.Profile, error)
}

// Notes persists study notes. Delete removes the note's membership rows in
// the same transaction.
type Notes interface {
	Create(ctx context.Context, n *model.Note) (*model.Note, error)
	GetByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	// List returns the user's notes for one study language, newest first.
	List(ctx context.Context, userID, languageCode string) ([]*model.Note, error)
	Update(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

// Playlists persists playlists and their note memberships. Delete removes
// the playlist's membership rows in the same transaction.
type Playlists interface {
	Create(ctx context.Context, p *model.Playlist) (*model.Playlist, error)
	GetByID(ctx context.Context, userID, playlistID string) (*model.Playlist, error)
	// List returns the user's playlists for one study language, oldest first.
	List(ctx context.Context, userID, languageCode string) ([]*model.Playlist, error)
	Delete(ctx context.Context, userID, playlistID string) error

	AddNote(ctx context.Context, userID, playlistID, noteID string) error
	RemoveNote(ctx context.Context, userID, playlistID, noteID string) error
	// OrderedNoteIDs returns the playlist's note ids in stable stored order
	// (idx, then link creation time).
	OrderedNoteIDs(ctx context.Context, userID, playlistID string) ([]string, error)
	// ListMemberships returns every membership row for the user's playlists
	// of one study language.
	ListMemberships(ctx context.Context, userID, languageCode string) ([]*model.Membership, error)
}

// Documents persists the basic-notebook rows, at most one per
// (user, language). GetOrCreate is the only creation path.
type Documents interface {
	GetOrCreate(ctx context.Context, userID, languageCode string) (*model.Document, error)
	Save(ctx context.Context, userID, documentID string, doc json.RawMessage, plain string) (*model.Document, error)
}
