package services

import (
	"context"
	"errors"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// PlaylistService handles playlists and note memberships.
type PlaylistService struct {
	store store.Store
}

func NewPlaylistService(s store.Store) *PlaylistService { return &PlaylistService{store: s} }

func (s *PlaylistService) CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	return s.store.Playlists().Create(ctx, p)
}

// ListPlaylists returns the user's playlists for one study language, oldest first.
func (s *PlaylistService) ListPlaylists(ctx context.Context, userID, languageCode string) ([]*model.Playlist, error) {
	return s.store.Playlists().List(ctx, userID, languageCode)
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	return s.store.Playlists().Delete(ctx, userID, playlistID)
}

func (s *PlaylistService) AddNote(ctx context.Context, userID, playlistID, noteID string) error {
	return s.store.Playlists().AddNote(ctx, userID, playlistID, noteID)
}

func (s *PlaylistService) RemoveNote(ctx context.Context, userID, playlistID, noteID string) error {
	return s.store.Playlists().RemoveNote(ctx, userID, playlistID, noteID)
}

// PlaylistNotes resolves a playlist's notes in membership order.
func (s *PlaylistService) PlaylistNotes(ctx context.Context, userID, playlistID string) ([]*model.Note, error) {
	ids, err := s.store.Playlists().OrderedNoteIDs(ctx, userID, playlistID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Note, 0, len(ids))
	for _, id := range ids {
		n, err := s.store.Notes().GetByID(ctx, userID, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ListMemberships returns every (playlist, note) pair for one study language,
// so clients can build their membership index in a single call.
func (s *PlaylistService) ListMemberships(ctx context.Context, userID, languageCode string) ([]*model.Membership, error) {
	return s.store.Playlists().ListMemberships(ctx, userID, languageCode)
}
