package store

import (
	"context"
	"encoding/json"
	"sync"

	"equilibrium-coach/internal/models"
)

// MemoryStore is an in-memory DataStore used in tests and as a fallback
// when no database path is configured. Collections are deep-copied on
// the way in and out so callers cannot alias the stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	trades  []models.Trade
	profile *models.UserProfile
	chats   []models.ChatMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadTrades(ctx context.Context) ([]models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Trade, len(s.trades))
	for i := range s.trades {
		out[i] = NormalizeTrade(cloneTrade(s.trades[i]))
	}
	sortTradesByDateDesc(out)
	return out, nil
}

func (s *MemoryStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = make([]models.Trade, len(trades))
	for i := range trades {
		s.trades[i] = cloneTrade(trades[i])
	}
	return nil
}

func (s *MemoryStore) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	p := cloneJSON(*s.profile)
	return NormalizeProfile(&p), nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile == nil {
		s.profile = nil
		return nil
	}
	p := cloneJSON(*profile)
	s.profile = &p
	return nil
}

func (s *MemoryStore) LoadChats(ctx context.Context) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.chats))
	copy(out, s.chats)
	return out, nil
}

func (s *MemoryStore) SaveChats(ctx context.Context, chats []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = make([]models.ChatMessage, len(chats))
	copy(s.chats, chats)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneTrade(t models.Trade) models.Trade {
	return cloneJSON(t)
}

func cloneJSON[T any](v T) T {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
