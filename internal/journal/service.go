package journal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/logging"
	"equilibrium-coach/internal/models"
	"equilibrium-coach/internal/scoring"
	"equilibrium-coach/internal/store"
)

// Service orchestrates trade lifecycle operations against the store.
// All mutations follow load -> validate -> mutate -> save: a failed save
// leaves the persisted journal exactly as it was.
type Service struct {
	store  store.DataStore
	logger zerolog.Logger
}

// NewService creates a journal service backed by the given store.
func NewService(ds store.DataStore, logger zerolog.Logger) *Service {
	return &Service{store: ds, logger: logger}
}

// CreateTrade validates and scores a draft trade, computes its position
// size from the owning account's capital, and persists it.
func (s *Service) CreateTrade(ctx context.Context, draft models.Trade) (*models.Trade, error) {
	profile, err := s.store.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrProfileMissing
	}
	account := profile.AccountByID(draft.AccountID)
	if account == nil {
		return nil, apperrors.ErrAccountNotFound
	}

	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := draft
	t.ID = uuid.NewString()
	t.CreatedAt = now
	if t.TradeDateTime.IsZero() {
		t.TradeDateTime = now
	}
	t.Status = models.StatusOpen
	t.PnL = nil
	t.PartialExits = nil
	t.ExitPrice = 0
	t.ExitDateTime = nil
	t.ClosingNote = ""

	t.PositionSizeUnits = PositionSize(account.CurrentCapital, t.RiskR, t.Entry, t.StopLoss)
	t.RemainingPositionSizeUnits = t.PositionSizeUnits
	if len(t.TakeProfits) > 0 {
		t.RewardRisk = RewardRiskRatio(t.Entry, t.StopLoss, t.TakeProfits[0])
	}

	trades, err := s.store.LoadTrades(ctx)
	if err != nil {
		return nil, err
	}

	ev := scoring.Evaluate(&t, profile, trades)
	t.QualityScore = ev.Score
	t.ExecutionQuality = ev.Grade
	t.AlertsTriggered = ev.Alerts

	trades = append(trades, t)
	if err := s.store.SaveTrades(ctx, trades); err != nil {
		return nil, err
	}

	logging.LogTradeOpened(s.logger, t.ID, t.Asset, string(t.Direction), t.QualityScore)
	return &t, nil
}

// RecordPartialExit closes a percentage of the trade's original size.
func (s *Service) RecordPartialExit(ctx context.Context, tradeID string, percentage, price float64, at time.Time, note string) (*models.Trade, error) {
	t, err := s.mutate(ctx, tradeID, func(t *models.Trade) error {
		return RecordPartialExit(t, percentage, price, at, note)
	})
	if err != nil {
		return nil, err
	}
	if n := len(t.PartialExits); n > 0 {
		p := t.PartialExits[n-1]
		logging.LogPartialExit(s.logger, t.ID, p.Percentage, p.Price, p.PnLR)
	}
	if t.Status == models.StatusClosed && t.PnL != nil {
		logging.LogTradeClosed(s.logger, t.ID, t.ExitPrice, t.PnL.Dollars, t.PnL.RMultiple)
	}
	return t, nil
}

// CloseTrade fully closes the remaining position.
func (s *Service) CloseTrade(ctx context.Context, tradeID string, price float64, at time.Time, note string) (*models.Trade, error) {
	t, err := s.mutate(ctx, tradeID, func(t *models.Trade) error {
		return CloseFull(t, price, at, note)
	})
	if err != nil {
		return nil, err
	}
	if t.PnL != nil {
		logging.LogTradeClosed(s.logger, t.ID, t.ExitPrice, t.PnL.Dollars, t.PnL.RMultiple)
	}
	return t, nil
}

// mutate applies fn to the identified trade and persists the whole
// collection only when fn succeeds.
func (s *Service) mutate(ctx context.Context, tradeID string, fn func(*models.Trade) error) (*models.Trade, error) {
	trades, err := s.store.LoadTrades(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range trades {
		if trades[i].ID == tradeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrTradeNotFound
	}
	if err := fn(&trades[idx]); err != nil {
		return nil, err
	}
	if err := s.store.SaveTrades(ctx, trades); err != nil {
		return nil, err
	}

	t := trades[idx]
	return &t, nil
}

// Trades returns the stored trades narrowed by the filter.
func (s *Service) Trades(ctx context.Context, filter store.TradeFilter) ([]models.Trade, error) {
	trades, err := s.store.LoadTrades(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(trades), nil
}

// Trade returns a single trade by id.
func (s *Service) Trade(ctx context.Context, tradeID string) (*models.Trade, error) {
	trades, err := s.store.LoadTrades(ctx)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		if trades[i].ID == tradeID {
			return &trades[i], nil
		}
	}
	return nil, apperrors.ErrTradeNotFound
}

// Profile returns the stored user profile.
func (s *Service) Profile(ctx context.Context) (*models.UserProfile, error) {
	return s.store.LoadProfile(ctx)
}

// SaveProfile persists the user profile.
func (s *Service) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	return s.store.SaveProfile(ctx, profile)
}

// AttachCoachNotes stores coach feedback on an existing trade.
func (s *Service) AttachCoachNotes(ctx context.Context, tradeID, notes string) (*models.Trade, error) {
	return s.mutate(ctx, tradeID, func(t *models.Trade) error {
		t.CoachNotes = notes
		return nil
	})
}

func validateDraft(t *models.Trade) error {
	if t.Entry <= 0 {
		return apperrors.NewValidationError("entry", t.Entry, "entry price must be positive")
	}
	if t.StopLoss <= 0 {
		return apperrors.NewValidationError("stopLoss", t.StopLoss, "stop loss must be positive")
	}
	if t.Entry == t.StopLoss {
		return apperrors.NewValidationError("stopLoss", t.StopLoss, "stop loss cannot equal entry")
	}
	if t.RiskR <= 0 {
		return apperrors.NewValidationError("riskR", t.RiskR, "risked percentage must be positive")
	}
	switch t.Direction {
	case models.Long:
		if t.StopLoss > t.Entry {
			return apperrors.NewValidationError("stopLoss", t.StopLoss, "long stop loss must sit below entry")
		}
	case models.Short:
		if t.StopLoss < t.Entry {
			return apperrors.NewValidationError("stopLoss", t.StopLoss, "short stop loss must sit above entry")
		}
	default:
		return apperrors.NewValidationError("direction", string(t.Direction), "direction must be long or short")
	}
	if strings.TrimSpace(t.Asset) == "" {
		return apperrors.NewValidationError("asset", t.Asset, "asset is required")
	}
	return nil
}
