package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

func TestDegradedStoreRefusesWrites(t *testing.T) {
	ctx := context.Background()
	s := NewDegradedStore()

	err := s.SaveTrades(ctx, []models.Trade{{ID: "t"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistenceUnavailable))

	err = s.SaveProfile(ctx, &models.UserProfile{Name: "Dana"})
	assert.True(t, errors.Is(err, apperrors.ErrPersistenceUnavailable))

	err = s.SaveChats(ctx, []models.ChatMessage{{Role: models.RoleUser, Content: "hi"}})
	assert.True(t, errors.Is(err, apperrors.ErrPersistenceUnavailable))
}

func TestDegradedStoreServesEmptyReads(t *testing.T) {
	ctx := context.Background()
	s := NewDegradedStore()

	trades, err := s.LoadTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)

	profile, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	// Nothing a failed write attempted must be visible afterwards.
	_ = s.SaveTrades(ctx, []models.Trade{{ID: "t"}})
	trades, err = s.LoadTrades(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
