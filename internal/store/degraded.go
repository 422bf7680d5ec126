package store

import (
	"context"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

// DegradedStore is the fallback when the journal database cannot be
// opened. Reads serve an empty journal so informational commands keep
// working; every write is refused with ErrPersistenceUnavailable so no
// command can report a result as saved when it was not.
type DegradedStore struct {
	*MemoryStore
}

// NewDegradedStore creates an empty read-only fallback store.
func NewDegradedStore() *DegradedStore {
	return &DegradedStore{NewMemoryStore()}
}

func (s *DegradedStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	return apperrors.NewStoreError("save trades", apperrors.ErrPersistenceUnavailable)
}

func (s *DegradedStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	return apperrors.NewStoreError("save profile", apperrors.ErrPersistenceUnavailable)
}

func (s *DegradedStore) SaveChats(ctx context.Context, chats []models.ChatMessage) error {
	return apperrors.NewStoreError("save chats", apperrors.ErrPersistenceUnavailable)
}
