package services

import (
	"context"
	"encoding/json"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// DocumentService handles the per-language basic document. One document per
// (user, language); it is created lazily on first open.
type DocumentService struct {
	store store.Store
}

func NewDocumentService(s store.Store) *DocumentService { return &DocumentService{store: s} }

func (s *DocumentService) OpenDocument(ctx context.Context, userID, languageCode string) (*model.Document, error) {
	return s.store.Documents().GetOrCreate(ctx, userID, languageCode)
}

func (s *DocumentService) SaveDocument(ctx context.Context, userID, documentID string, doc json.RawMessage, plain string) (*model.Document, error) {
	return s.store.Documents().Save(ctx, userID, documentID, doc, plain)
}
