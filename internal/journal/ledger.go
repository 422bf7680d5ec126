package journal

import (
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

// RecordPartialExit appends one realized reduction to the trade's
// ledger and updates the remaining size. The percentage is interpreted
// against the ORIGINAL position size; 100% always closes whatever
// remains, regardless of how prior percentages add up. When the exit
// exhausts the position the trade is finalized using the exit's own
// price, time and note as the closing event.
//
// All validation happens before any mutation: on error the trade is
// untouched.
func RecordPartialExit(t *models.Trade, percentage, price float64, at time.Time, note string) error {
	if percentage <= 0 || percentage > 100 || math.IsNaN(percentage) {
		return apperrors.ErrInvalidPercentage
	}
	if price <= 0 || math.IsNaN(price) {
		return apperrors.ErrInvalidPrice
	}
	if !t.IsOpen() {
		return apperrors.ErrTradeNotOpen
	}

	originalUnits := t.PositionSizeUnits
	if originalUnits <= 0 {
		return apperrors.ErrInvalidPositionSize
	}

	remaining := RemainingUnits(t)
	if remaining <= 0 {
		return apperrors.ErrNothingToClose
	}

	closingAll := math.Abs(percentage-100) < epsilon

	unitsToClose := remaining
	if !closingAll {
		unitsToClose = percentage / 100 * originalUnits
	}
	if unitsToClose <= 0 {
		return apperrors.ErrInvalidPercentage
	}
	if unitsToClose > remaining+epsilon {
		available := remaining / originalUnits * 100
		return apperrors.NewInsufficientSizeError(percentage, available)
	}

	dollars := ComputeDollars(t.Entry, price, unitsToClose, t.Direction)
	risk := InitialRiskAmount(t)
	pnlR := 0.0
	if risk != 0 {
		pnlR = dollars / risk
	}

	t.PartialExits = append(t.PartialExits, models.PartialExit{
		ID:         uuid.NewString(),
		Percentage: percentage,
		Price:      price,
		DateTime:   at,
		Note:       note,
		PnLDollars: dollars,
		PnLR:       pnlR,
	})

	nextRemaining := roundUnits(clampToZero(remaining - unitsToClose))
	t.RemainingPositionSizeUnits = nextRemaining

	if nextRemaining <= epsilon {
		finalize(t, price, at, note, SumPartialDollars(t))
	}
	return nil
}
