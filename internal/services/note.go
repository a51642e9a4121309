package services

import (
	"context"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// NoteService handles note CRUD. Deleting a note also removes its playlist
// memberships; the store does that in one transaction.
type NoteService struct {
	store store.Store
}

func NewNoteService(s store.Store) *NoteService { return &NoteService{store: s} }

func (s *NoteService) CreateNote(ctx context.Context, n *model.Note) (*model.Note, error) {
	return s.store.Notes().Create(ctx, n)
}

func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return s.store.Notes().GetByID(ctx, userID, noteID)
}

// ListNotes returns the user's notes for one study language, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID, languageCode string) ([]*model.Note, error) {
	return s.store.Notes().List(ctx, userID, languageCode)
}

func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error) {
	return s.store.Notes().Update(ctx, userID, noteID, patch)
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	return s.store.Notes().Delete(ctx, userID, noteID)
}
