package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"equilibrium-coach/internal/models"
)

// DataStore is the persistence boundary for the journal. Collections are
// loaded and saved whole: callers mutate in memory and persist the full
// slice back, which keeps the trade object graph (partials, score
// breakdowns, images) atomic without cross-table bookkeeping.
//
// LoadTrades returns trades newest first by trade datetime. Every
// implementation honors this so callers can treat the head of the slice
// as the most recent activity.
type DataStore interface {
	LoadTrades(ctx context.Context) ([]models.Trade, error)
	SaveTrades(ctx context.Context, trades []models.Trade) error

	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error

	LoadChats(ctx context.Context) ([]models.ChatMessage, error)
	SaveChats(ctx context.Context, chats []models.ChatMessage) error

	Close() error
}

// TradeFilter narrows an in-memory trade slice. Zero values mean "any".
type TradeFilter struct {
	Status    models.TradeStatus
	AccountID string
	Market    models.Market
	Asset     string
	Setup     string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// Apply returns the trades matching the filter, newest first.
func (f TradeFilter) Apply(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.AccountID != "" && t.AccountID != f.AccountID {
			continue
		}
		if f.Market != "" && t.Market != f.Market {
			continue
		}
		if f.Asset != "" && !strings.EqualFold(t.Asset, f.Asset) {
			continue
		}
		if f.Setup != "" && !strings.EqualFold(t.Setup, f.Setup) {
			continue
		}
		if !f.Since.IsZero() && t.TradeDateTime.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && t.TradeDateTime.After(f.Until) {
			continue
		}
		out = append(out, t)
	}
	sortTradesByDateDesc(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func sortTradesByDateDesc(trades []models.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].TradeDateTime.After(trades[j].TradeDateTime)
	})
}
