package journal

import (
	"math"
	"strings"
	"time"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

// CloseFull closes whatever remains of an open position at the given
// price. A written rationale is mandatory for every full close. The
// slice's dollars are added to the ledger's realized total to produce
// the final pnl.
//
// All validation happens before any mutation: on error the trade is
// untouched.
func CloseFull(t *models.Trade, exitPrice float64, at time.Time, note string) error {
	if exitPrice <= 0 || math.IsNaN(exitPrice) {
		return apperrors.ErrInvalidPrice
	}
	if strings.TrimSpace(note) == "" {
		return apperrors.ErrMissingClosingNote
	}
	if !t.IsOpen() {
		return apperrors.ErrTradeNotOpen
	}

	unitsToClose := RemainingUnits(t)
	if unitsToClose <= 0 {
		return apperrors.ErrNothingToClose
	}

	sliceDollars := ComputeDollars(t.Entry, exitPrice, unitsToClose, t.Direction)
	finalize(t, exitPrice, at, note, SumPartialDollars(t)+sliceDollars)
	return nil
}

// finalize transitions a trade to Closed. It is shared between the
// explicit full close and a partial exit that exhausts the position;
// in the latter case the partial's price, time and note stand in for
// the closing event and totalDollars already includes that slice.
func finalize(t *models.Trade, exitPrice float64, at time.Time, note string, totalDollars float64) {
	pnl := FinalPnL(t, totalDollars)
	exitAt := at

	t.Status = models.StatusClosed
	t.ExitPrice = exitPrice
	t.ExitDateTime = &exitAt
	t.ClosingNote = note
	t.PnL = &pnl
	t.RemainingPositionSizeUnits = 0
}
