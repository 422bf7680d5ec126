package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equilibrium-coach/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteTradeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exit := time.Date(2026, 4, 2, 16, 30, 0, 0, time.UTC)
	trades := []models.Trade{
		{
			ID:            "t-closed",
			Status:        models.StatusClosed,
			AccountID:     "acct-1",
			Market:        models.MarketCrypto,
			Asset:         "ETH/USDT",
			Setup:         "Pullback",
			Direction:     models.Long,
			Entry:         100,
			StopLoss:      95,
			TakeProfits:   []float64{110},
			RiskR:         1,
			QualityScore:  7.6,
			TradeDateTime: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
			ExitDateTime:  &exit,
			ExitPrice:     110,
			ClosingNote:   "target hit",
			PnL:           &models.TradePnL{Dollars: 100, RMultiple: 2, Percent: 2},
			PartialExits: []models.PartialExit{
				{ID: "p1", Percentage: 50, Price: 108, PnLDollars: 40, PnLR: 0.8, DateTime: exit.Add(-time.Hour)},
			},
		},
		{
			ID:                         "t-open",
			Status:                     models.StatusOpen,
			AccountID:                  "acct-1",
			Market:                     models.MarketForex,
			Asset:                      "EURUSD",
			Setup:                      "Breakout with confirmation",
			Entry:                      1.08,
			StopLoss:                   1.075,
			TakeProfits:                []float64{1.09},
			RiskR:                      1,
			QualityScore:               6.2,
			PositionSizeUnits:          20000,
			RemainingPositionSizeUnits: 20000,
			TradeDateTime:              time.Date(2026, 4, 3, 11, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, s.SaveTrades(ctx, trades))

	loaded, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Newest first by trade datetime.
	assert.Equal(t, "t-open", loaded[0].ID)
	assert.Equal(t, "t-closed", loaded[1].ID)

	closed := loaded[1]
	require.NotNil(t, closed.PnL)
	assert.Equal(t, 100.0, closed.PnL.Dollars)
	assert.Equal(t, "target hit", closed.ClosingNote)
	require.Len(t, closed.PartialExits, 1)
	assert.Equal(t, 40.0, closed.PartialExits[0].PnLDollars)
	assert.Zero(t, closed.RemainingPositionSizeUnits)
}

func TestSQLiteSaveReplacesCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := models.Trade{ID: "a", Status: models.StatusOpen, Entry: 100, StopLoss: 95, RiskR: 1,
		PositionSizeUnits: 1, RemainingPositionSizeUnits: 1, QualityScore: 7,
		TradeDateTime: time.Now().UTC()}
	require.NoError(t, s.SaveTrades(ctx, []models.Trade{first}))

	second := first
	second.ID = "b"
	require.NoError(t, s.SaveTrades(ctx, []models.Trade{second}))

	loaded, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "b", loaded[0].ID)
}

func TestSQLiteProfileDocument(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	none, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	profile := &models.UserProfile{
		Name:        "Dana",
		TraderStyle: models.DayTrader,
		Accounts: []models.Account{
			{ID: "acct-1", Name: "Main", Currency: "USD", StartingCapital: 10000, CurrentCapital: 10500},
		},
	}
	require.NoError(t, s.SaveProfile(ctx, profile))

	loaded, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Dana", loaded.Name)
	assert.Equal(t, 10500.0, loaded.Accounts[0].CurrentCapital)

	// Upsert path: a second save overwrites the document.
	profile.Name = "Dana M"
	require.NoError(t, s.SaveProfile(ctx, profile))
	loaded, err = s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dana M", loaded.Name)
}

func TestSQLiteChatsDocument(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.LoadChats(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	chats := []models.ChatMessage{
		{Role: models.RoleUser, Content: "review my week", Timestamp: time.Now().UTC()},
		{Role: models.RoleCoach, Content: "strong discipline on exits", Timestamp: time.Now().UTC()},
	}
	require.NoError(t, s.SaveChats(ctx, chats))

	loaded, err := s.LoadChats(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "review my week", loaded[0].Content)
}
