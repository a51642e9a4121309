package services

import (
	"context"

	"github.com/linguanote/linguanote/internal/model"
	"github.com/linguanote/linguanote/internal/store"
)

// ProfileService handles profile reads outside the gate flow.
type ProfileService struct {
	store store.Store
}

func NewProfileService(s store.Store) *ProfileService { return &ProfileService{store: s} }

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.store.Profiles().Get(ctx, userID)
}
