package notebook

import (
	"context"
	"encoding/json"

	"github.com/linguanote/linguanote/internal/model"
)

// Backend is what a workspace needs from the notebook service. It is
// implemented in-process by the services layer and over HTTP by pkg/client.
type Backend interface {
	ListNotes(ctx context.Context, languageCode string) ([]*model.Note, error)
	CreateNote(ctx context.Context, n *model.Note) (*model.Note, error)
	UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID string) error

	ListPlaylists(ctx context.Context, languageCode string) ([]*model.Playlist, error)
	CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error

	AddToPlaylist(ctx context.Context, playlistID, noteID string) error
	RemoveFromPlaylist(ctx context.Context, playlistID, noteID string) error
	PlaylistNotes(ctx context.Context, playlistID string) ([]*model.Note, error)
	ListMemberships(ctx context.Context, languageCode string) ([]*model.Membership, error)

	OpenDocument(ctx context.Context, languageCode string) (*model.Document, error)
	SaveDocument(ctx context.Context, documentID string, doc json.RawMessage, plain string) (*model.Document, error)
}
