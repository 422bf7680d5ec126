package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equilibrium-coach/internal/models"
)

func TestMemoryStoreTradeIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	original := models.Trade{
		ID:                         "t-1",
		Status:                     models.StatusOpen,
		Asset:                      "EURUSD",
		Entry:                      100,
		StopLoss:                   95,
		RiskR:                      1,
		QualityScore:               7.5,
		PositionSizeUnits:          10,
		RemainingPositionSizeUnits: 10,
		TakeProfits:                []float64{110},
		TradeDateTime:              time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveTrades(ctx, []models.Trade{original}))

	// Mutating what the caller handed in must not reach the store.
	original.Asset = "GBPUSD"
	original.TakeProfits[0] = 999

	loaded, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "EURUSD", loaded[0].Asset)
	assert.Equal(t, 110.0, loaded[0].TakeProfits[0])

	// Mutating a loaded copy must not affect later loads.
	loaded[0].PartialExits = append(loaded[0].PartialExits, models.PartialExit{
		ID: "p", Percentage: 50, Price: 105,
	})
	again, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, again[0].PartialExits)
}

func TestMemoryStoreLoadsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mk := func(id string, at time.Time) models.Trade {
		return models.Trade{
			ID: id, Status: models.StatusOpen, Entry: 100, StopLoss: 95, RiskR: 1,
			PositionSizeUnits: 1, RemainingPositionSizeUnits: 1, QualityScore: 7,
			TradeDateTime: at,
		}
	}
	// Saved oldest first; the load contract is newest first.
	require.NoError(t, s.SaveTrades(ctx, []models.Trade{
		mk("old", base),
		mk("mid", base.Add(24*time.Hour)),
		mk("new", base.Add(48*time.Hour)),
	}))

	loaded, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "new", loaded[0].ID)
	assert.Equal(t, "mid", loaded[1].ID)
	assert.Equal(t, "old", loaded[2].ID)
}

func TestMemoryStoreNormalizesOnLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SaveTrades(ctx, []models.Trade{{
		ID:     "raw",
		Status: "done",
	}}))

	loaded, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, models.StatusClosed, loaded[0].Status)
	assert.Equal(t, models.MarketForex, loaded[0].Market)
	assert.Equal(t, 1.0, loaded[0].RiskR)
}

func TestMemoryStoreProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	none, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	profile := &models.UserProfile{
		Name:        "Dana",
		TraderStyle: models.SwingTrader,
		Accounts: []models.Account{
			{ID: "acct-1", Name: "Main", Currency: "USD", StartingCapital: 10000, CurrentCapital: 10000},
		},
	}
	require.NoError(t, s.SaveProfile(ctx, profile))

	profile.Name = "changed"
	loaded, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Dana", loaded.Name)
	assert.NotNil(t, loaded.SetupsByAccount)
}

func TestMemoryStoreChats(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	msgs := []models.ChatMessage{
		{Role: models.RoleUser, Content: "how did I do this week", Timestamp: time.Now().UTC()},
		{Role: models.RoleCoach, Content: "two solid entries, one revenge trade", Timestamp: time.Now().UTC()},
	}
	require.NoError(t, s.SaveChats(ctx, msgs))

	loaded, err := s.LoadChats(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, models.RoleCoach, loaded[1].Role)
}
